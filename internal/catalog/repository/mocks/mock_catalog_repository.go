package mocks

import (
	"context"

	"github.com/hartawan/keymart-backend/internal/catalog/domain"
	"github.com/hartawan/keymart-backend/internal/catalog/repository"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	if product != nil && args.Error(0) == nil {
		product.ID = "mock-product-id"
	}
	return args.Error(0)
}

func (m *MockCatalogRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.Product, int, error) {
	args := m.Called(ctx, pred, page)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockCatalogRepository) DecrementStock(ctx context.Context, dbops repository.DBTX, productID string, quantity int) error {
	args := m.Called(ctx, dbops, productID, quantity)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetAvailableKey(ctx context.Context, dbops repository.DBTX, productID string) (*domain.ProductKey, error) {
	args := m.Called(ctx, dbops, productID)
	if k := args.Get(0); k != nil {
		return k.(*domain.ProductKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) MarkKeySold(ctx context.Context, dbops repository.DBTX, keyID, orderID string) error {
	args := m.Called(ctx, dbops, keyID, orderID)
	return args.Error(0)
}

func (m *MockCatalogRepository) AddProductKeys(ctx context.Context, productID string, keys []string) ([]domain.ProductKey, error) {
	args := m.Called(ctx, productID, keys)
	if k := args.Get(0); k != nil {
		return k.([]domain.ProductKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) CountAvailableKeys(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}
