package pagination

import (
	"errors"
	"math"
	"strconv"
)

var ErrInvalidParams = errors.New("page and limit must be positive integers")

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Parse reads page/limit query values, falling back to defaults when the
// value is absent. Non-numeric or non-positive values are a validation error.
func Parse(pageStr, limitStr string) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			return Params{}, ErrInvalidParams
		}
		p.Page = page
	}
	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return Params{}, ErrInvalidParams
		}
		p.Limit = limit
	}
	return p, nil
}

type Pagination struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PerPage     int `json:"perPage"`
}

// Envelope is the response shape shared by every list endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func NewEnvelope(message string, data interface{}, totalItems int, p Params) Envelope {
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: Pagination{
			TotalItems:  totalItems,
			TotalPages:  int(math.Ceil(float64(totalItems) / float64(p.Limit))),
			CurrentPage: p.Page,
			PerPage:     p.Limit,
		},
	}
}
