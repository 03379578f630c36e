package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	StoreID     *string         `json:"store_id,omitempty"`
	CategoryID  *string         `json:"category_id,omitempty"`
	AutoDeliver bool            `json:"auto_deliver"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductKey is a single-use credential sold as the deliverable for an
// auto-deliver product. Once sold it stays bound to its order forever.
type ProductKey struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	ProductID string    `json:"product_id"`
	IsSold    bool      `json:"is_sold"`
	OrderID   *string   `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"gte=0"`
	StoreID     *string         `json:"store_id"`
	CategoryID  *string         `json:"category_id"`
	AutoDeliver bool            `json:"auto_deliver"`
}

// AddKeysRequest bulk-loads pre-provisioned keys for one product.
type AddKeysRequest struct {
	Keys []string `json:"keys" binding:"required,min=1,dive,required"`
}

type KeyPoolInfo struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
}
