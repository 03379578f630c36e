package service

import (
	"context"
	"errors"

	"github.com/hartawan/keymart-backend/internal/catalog/domain"
	"github.com/hartawan/keymart-backend/internal/catalog/repository"
	"github.com/hartawan/keymart-backend/internal/platform/logger"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
)

var ErrInvalidPrice = errors.New("product price must be positive")

// Searchable columns for the product list endpoint. One free-text term is
// tried against each of these; see the search package.
var productSearchFields = []search.FieldSpec{
	{Name: "name", Type: search.String},
	{Name: "description", Type: search.String},
	{Name: "price", Type: search.Number},
	{Name: "auto_deliver", Type: search.Boolean},
	{Name: "created_at", Type: search.Date},
}

type CatalogService interface {
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, searchTerm string, page pagination.Params) ([]domain.Product, int, error)

	AddProductKeys(ctx context.Context, productID string, req domain.AddKeysRequest) ([]domain.ProductKey, error)
	GetKeyPoolInfo(ctx context.Context, productID string) (*domain.KeyPoolInfo, error)
}

type catalogServiceImpl struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogServiceImpl{repo: repo}
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	p := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		StoreID:     req.StoreID,
		CategoryID:  req.CategoryID,
		AutoDeliver: req.AutoDeliver,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		logger.Error("Svc.CreateProduct: repo error", err)
		return nil, err
	}
	return p, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, searchTerm string, page pagination.Params) ([]domain.Product, int, error) {
	pred := search.Build(searchTerm, productSearchFields, nil)
	return s.repo.ListProducts(ctx, pred, page)
}

func (s *catalogServiceImpl) AddProductKeys(ctx context.Context, productID string, req domain.AddKeysRequest) ([]domain.ProductKey, error) {
	// Check the product exists first so a bad id surfaces as NotFound
	// rather than a foreign-key error from the bulk insert.
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	keys, err := s.repo.AddProductKeys(ctx, productID, req.Keys)
	if err != nil {
		logger.Error("Svc.AddProductKeys: repo error", err, map[string]interface{}{"product_id": productID})
		return nil, err
	}
	return keys, nil
}

func (s *catalogServiceImpl) GetKeyPoolInfo(ctx context.Context, productID string) (*domain.KeyPoolInfo, error) {
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}
	available, err := s.repo.CountAvailableKeys(ctx, productID)
	if err != nil {
		logger.Error("Svc.GetKeyPoolInfo: repo error", err)
		return nil, err
	}
	return &domain.KeyPoolInfo{ProductID: productID, Available: available}, nil
}
