package mocks

import (
	"context"

	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
	"github.com/hartawan/keymart-backend/internal/promo/domain"
	"github.com/stretchr/testify/mock"
)

type MockPromoRepository struct {
	mock.Mock
}

func (m *MockPromoRepository) CreatePromoCode(ctx context.Context, promo *domain.PromoCode) error {
	args := m.Called(ctx, promo)
	if promo != nil && args.Error(0) == nil {
		promo.ID = "mock-promo-id"
		promo.IsActive = true
	}
	return args.Error(0)
}

func (m *MockPromoRepository) GetPromoCodeByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.PromoCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPromoRepository) GetPromoCodeByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	args := m.Called(ctx, code)
	if p := args.Get(0); p != nil {
		return p.(*domain.PromoCode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPromoRepository) ListPromoCodes(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.PromoCode, int, error) {
	args := m.Called(ctx, pred, page)
	if p := args.Get(0); p != nil {
		return p.([]domain.PromoCode), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockPromoRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
