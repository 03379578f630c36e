package service

import (
	"context"
	"testing"

	"github.com/hartawan/keymart-backend/internal/catalog/domain"
	"github.com/hartawan/keymart-backend/internal/catalog/repository"
	"github.com/hartawan/keymart-backend/internal/catalog/repository/mocks"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful creation", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		svc := NewCatalogService(mockRepo)
		mockRepo.On("CreateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(nil).Once()

		p, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
			Name:        "Steam Key Bundle",
			Price:       decimal.RequireFromString("19.99"),
			Stock:       10,
			AutoDeliver: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, "mock-product-id", p.ID)
		assert.True(t, p.AutoDeliver)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Non-positive price rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		svc := NewCatalogService(mockRepo)

		for _, price := range []string{"0", "-1.50"} {
			p, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
				Name:  "Bad",
				Price: decimal.RequireFromString(price),
			})
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrInvalidPrice)
		}
		mockRepo.AssertNotCalled(t, "CreateProduct")
	})
}

func TestCatalogService_AddProductKeys(t *testing.T) {
	ctx := context.TODO()
	product := &domain.Product{ID: "prod1", AutoDeliver: true}
	req := domain.AddKeysRequest{Keys: []string{"KEY-1", "KEY-2"}}

	t.Run("Successful bulk load", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		svc := NewCatalogService(mockRepo)
		mockRepo.On("GetProductByID", ctx, "prod1").Return(product, nil).Once()
		mockRepo.On("AddProductKeys", ctx, "prod1", req.Keys).Return([]domain.ProductKey{
			{ID: "k1", Key: "KEY-1", ProductID: "prod1"},
			{ID: "k2", Key: "KEY-2", ProductID: "prod1"},
		}, nil).Once()

		keys, err := svc.AddProductKeys(ctx, "prod1", req)

		assert.NoError(t, err)
		assert.Len(t, keys, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown product surfaces NotFound", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		svc := NewCatalogService(mockRepo)
		mockRepo.On("GetProductByID", ctx, "missing").Return(nil, repository.ErrProductNotFound).Once()

		keys, err := svc.AddProductKeys(ctx, "missing", req)

		assert.Nil(t, keys)
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
		mockRepo.AssertNotCalled(t, "AddProductKeys")
	})

	t.Run("Duplicate key surfaces Conflict", func(t *testing.T) {
		mockRepo := new(mocks.MockCatalogRepository)
		svc := NewCatalogService(mockRepo)
		mockRepo.On("GetProductByID", ctx, "prod1").Return(product, nil).Once()
		mockRepo.On("AddProductKeys", ctx, "prod1", req.Keys).Return(nil, repository.ErrKeyConflict).Once()

		keys, err := svc.AddProductKeys(ctx, "prod1", req)

		assert.Nil(t, keys)
		assert.ErrorIs(t, err, repository.ErrKeyConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestCatalogService_GetKeyPoolInfo(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockCatalogRepository)
	svc := NewCatalogService(mockRepo)

	mockRepo.On("GetProductByID", ctx, "prod1").Return(&domain.Product{ID: "prod1"}, nil).Once()
	mockRepo.On("CountAvailableKeys", ctx, "prod1").Return(3, nil).Once()

	info, err := svc.GetKeyPoolInfo(ctx, "prod1")

	assert.NoError(t, err)
	assert.Equal(t, &domain.KeyPoolInfo{ProductID: "prod1", Available: 3}, info)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_ListProductsBuildsPredicate(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(mocks.MockCatalogRepository)
	svc := NewCatalogService(mockRepo)
	page := pagination.Params{Page: 1, Limit: 10}

	mockRepo.On("ListProducts", ctx, mock.Anything, page).
		Return([]domain.Product{{ID: "prod1"}}, 1, nil).Once()

	products, total, err := svc.ListProducts(ctx, "steam", page)

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, products, 1)
	mockRepo.AssertExpectations(t)
}
