package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func OrderStatusValues() []string {
	return []string{string(StatusPending), string(StatusCompleted), string(StatusCancelled)}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order records a purchase of one product by one user. Total and
// DiscountAmount are fixed at creation time from the product price and
// promo code as they were at that instant; later promo edits never
// change past orders.
type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ProductID      string          `json:"product_id"`
	Quantity       int             `json:"quantity"`
	Total          decimal.Decimal `json:"total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Status         OrderStatus     `json:"status"`
	PromoCodeID    *string         `json:"promo_code_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateOrderRequest struct {
	UserID      string  `json:"user_id" binding:"required"`
	ProductID   string  `json:"product_id" binding:"required"`
	Quantity    int     `json:"quantity" binding:"omitempty,gt=0"` // defaults to 1
	PromoCodeID *string `json:"promo_code_id"`
}

// CreateOrderResponse carries either the allocated key's raw value or,
// when no key was allocated, the manual-fulfillment message.
type CreateOrderResponse struct {
	Order      Order   `json:"order"`
	ProductKey *string `json:"product_key,omitempty"`
	Message    string  `json:"message,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}
