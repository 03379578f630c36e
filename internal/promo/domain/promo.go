package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromoCode is a named percentage discount with an expiry. Discounts are
// evaluated at order-creation time only; editing a code never changes
// orders that already used it.
type PromoCode struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Discount  decimal.Decimal `json:"discount"` // percentage, 0-100
	ExpiresAt time.Time       `json:"expires_at"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p *PromoCode) Usable(now time.Time) bool {
	return p.IsActive && p.ExpiresAt.After(now)
}

type CreatePromoCodeRequest struct {
	Code      string          `json:"code" binding:"required"`
	Discount  decimal.Decimal `json:"discount" binding:"required"`
	ExpiresAt time.Time       `json:"expires_at" binding:"required"`
}
