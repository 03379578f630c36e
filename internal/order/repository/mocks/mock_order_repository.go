package mocks

import (
	"context"

	"github.com/hartawan/keymart-backend/internal/order/domain"
	"github.com/hartawan/keymart-backend/internal/order/repository"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (repository.DBTX, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repository.DBTX), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) InsertOrder(ctx context.Context, dbops repository.DBTX, order *domain.Order) error {
	args := m.Called(ctx, dbops, order)
	if order != nil && args.Error(0) == nil {
		order.ID = "mock-order-id"
		if order.Status == "" {
			order.Status = domain.StatusPending
		}
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.Order, int, error) {
	args := m.Called(ctx, pred, page)
	if o := args.Get(0); o != nil {
		return o.([]domain.Order), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	args := m.Called(ctx, orderID, newStatus)
	return args.Error(0)
}
