package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogrepo "github.com/hartawan/keymart-backend/internal/catalog/repository"
	"github.com/hartawan/keymart-backend/internal/order/domain"
	"github.com/hartawan/keymart-backend/internal/order/repository"
	"github.com/hartawan/keymart-backend/internal/platform/logger"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
	promorepo "github.com/hartawan/keymart-backend/internal/promo/repository"
	userrepo "github.com/hartawan/keymart-backend/internal/user/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderCreationFailed = errors.New("error creating order")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
	ErrInvalidStatus       = errors.New("invalid order status")
)

// ManualFulfillmentMessage is returned when an order could not be paired
// with a key: either the product is fulfilled manually, or the key pool
// is empty. The order itself still succeeds.
const ManualFulfillmentMessage = "Your order will be fulfilled shortly."

var hundred = decimal.NewFromInt(100)

// Searchable columns for the order list endpoint. The user relation is
// reached through a nested spec so a single term can also match the
// buyer's email.
var orderSearchFields = []search.FieldSpec{
	{Name: "orders.status", Type: search.Enum, EnumType: "OrderStatus"},
	{Name: "orders.total", Type: search.Number},
	{Name: "orders.created_at", Type: search.Date},
	{Nested: &search.NestedSpec{
		Table: "users",
		Join:  "users.id = orders.user_id",
		Fields: []search.FieldSpec{
			{Name: "users.email", Type: search.String},
		},
	}},
}

var orderEnums = search.EnumMap{
	"OrderStatus": domain.OrderStatusValues(),
}

type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, searchTerm string, page pagination.Params) ([]domain.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	catalogRepo catalogrepo.CatalogRepository
	userRepo    userrepo.UserRepository
	promoRepo   promorepo.PromoRepository
}

func NewOrderService(or repository.OrderRepository, cr catalogrepo.CatalogRepository, ur userrepo.UserRepository, pr promorepo.PromoRepository) OrderService {
	return &orderServiceImpl{
		orderRepo:   or,
		catalogRepo: cr,
		userRepo:    ur,
		promoRepo:   pr,
	}
}

// CreateOrder validates the purchase, prices it, and then runs the
// fulfillment sequence (order insert, key allocation, stock decrement)
// inside one transaction. Either all three effects commit together or
// none do.
//
// Quantity is NOT checked against stock here; under concurrent load or
// oversubscription the stock can go negative. Upstream callers are
// expected to guard against overselling.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	// Fail-fast validation, each check independent.
	product, err := s.catalogRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetUserByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if req.PromoCodeID != nil {
		if _, err := s.promoRepo.GetPromoCodeByID(ctx, *req.PromoCodeID); err != nil {
			return nil, err
		}
	}

	total := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

	// The discount comes from a fresh read of the promo code, so a code
	// deactivated between validation and pricing simply yields no
	// discount instead of a stale one.
	discount := decimal.Zero
	if req.PromoCodeID != nil {
		promo, err := s.promoRepo.GetPromoCodeByID(ctx, *req.PromoCodeID)
		switch {
		case errors.Is(err, promorepo.ErrPromoNotFound):
			// deleted since validation: order proceeds undiscounted
		case err != nil:
			return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
		case promo.Usable(time.Now()):
			discount = total.Mul(promo.Discount).Div(hundred)
		}
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	order := &domain.Order{
		UserID:         req.UserID,
		ProductID:      req.ProductID,
		Quantity:       quantity,
		Total:          total,
		DiscountAmount: discount,
		Status:         domain.StatusPending,
		PromoCodeID:    req.PromoCodeID,
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("CreateOrder: begin tx failed", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.orderRepo.InsertOrder(ctx, tx, order); err != nil {
		logger.Error("CreateOrder: failed to insert order", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	var allocatedKey *string
	if product.AutoDeliver {
		key, err := s.catalogRepo.GetAvailableKey(ctx, tx, product.ID)
		if err != nil {
			logger.Error("CreateOrder: key allocation failed", err, map[string]interface{}{"product_id": product.ID})
			return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
		}
		// An empty pool is not an error: the order falls back to manual
		// fulfillment.
		if key != nil {
			if err := s.catalogRepo.MarkKeySold(ctx, tx, key.ID, order.ID); err != nil {
				logger.Error("CreateOrder: failed to bind key to order", err, map[string]interface{}{"key_id": key.ID})
				return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
			}
			allocatedKey = &key.Key
		}
	}

	if err := s.catalogRepo.DecrementStock(ctx, tx, product.ID, quantity); err != nil {
		logger.Error("CreateOrder: failed to decrement stock", err, map[string]interface{}{"product_id": product.ID})
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("CreateOrder: commit failed", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	resp := &domain.CreateOrderResponse{Order: *order}
	if allocatedKey != nil {
		resp.ProductKey = allocatedKey
	} else {
		resp.Message = ManualFulfillmentMessage
	}
	return resp, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orderRepo.GetOrderByID(ctx, id)
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, searchTerm string, page pagination.Params) ([]domain.Order, int, error) {
	pred := search.Build(searchTerm, orderSearchFields, orderEnums)
	return s.orderRepo.ListOrders(ctx, pred, page)
}

func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.orderRepo.UpdateOrderStatus(ctx, id, status)
}
