package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hartawan/keymart-backend/internal/catalog/domain"
	"github.com/hartawan/keymart-backend/internal/platform/logger"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
	"github.com/lib/pq" // for pq.Error codes
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrKeyConflict     = errors.New("product key already exists")
	ErrKeyAlreadySold  = errors.New("product key already sold")
)

// DBTX can be *sql.DB or *sql.Tx (same shape as the order repository's;
// transactions started there are passed into the methods below).
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	Commit() error
	Rollback() error
}

type CatalogRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.Product, int, error)

	// Transactional methods, called by the order service inside its unit of work.
	DecrementStock(ctx context.Context, dbops DBTX, productID string, quantity int) error
	GetAvailableKey(ctx context.Context, dbops DBTX, productID string) (*domain.ProductKey, error)
	MarkKeySold(ctx context.Context, dbops DBTX, keyID, orderID string) error

	AddProductKeys(ctx context.Context, productID string, keys []string) ([]domain.ProductKey, error)
	CountAvailableKeys(ctx context.Context, productID string) (int, error)
}

type postgresCatalogRepository struct {
	db *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) CatalogRepository {
	return &postgresCatalogRepository{db: db}
}

func (r *postgresCatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, description, price, stock, store_id, category_id, auto_deliver, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.StoreID, p.CategoryID, p.AutoDeliver, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}
	return nil
}

func (r *postgresCatalogRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT id, name, description, price, stock, store_id, category_id, auto_deliver, created_at, updated_at
              FROM products WHERE id = $1`
	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.StoreID, &p.CategoryID, &p.AutoDeliver, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresCatalogRepository) ListProducts(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.Product, int, error) {
	where, args := search.ToSQL(pred, 1)

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("ListProducts: count query failed", err)
		return nil, 0, err
	}

	listQuery := `SELECT id, name, description, price, stock, store_id, category_id, auto_deliver, created_at, updated_at
              FROM products WHERE ` + where + `
              ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, listQuery, append(args, page.Limit, page.Offset())...)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, 0, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.StoreID, &p.CategoryID, &p.AutoDeliver, &p.CreatedAt, &p.UpdatedAt); err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// DecrementStock subtracts quantity atomically in SQL. It deliberately
// does not floor at zero: the order engine never re-validates sufficient
// stock, so oversubscription shows up as negative stock for upstream
// guards to catch.
func (r *postgresCatalogRepository) DecrementStock(ctx context.Context, dbops DBTX, productID string, quantity int) error {
	query := `UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2`
	res, err := dbops.ExecContext(ctx, query, quantity, productID)
	if err != nil {
		logger.Error("DecrementStock: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetAvailableKey picks one unsold key for the product, any key will do.
// SKIP LOCKED keeps concurrent allocators from selecting the same row.
// A nil key with nil error means the pool is empty, which is a normal
// outcome, not a failure.
func (r *postgresCatalogRepository) GetAvailableKey(ctx context.Context, dbops DBTX, productID string) (*domain.ProductKey, error) {
	query := `SELECT id, key, product_id, is_sold, order_id, created_at
              FROM product_keys WHERE product_id = $1 AND is_sold = FALSE
              LIMIT 1 FOR UPDATE SKIP LOCKED`
	var k domain.ProductKey
	err := dbops.QueryRowContext(ctx, query, productID).Scan(
		&k.ID, &k.Key, &k.ProductID, &k.IsSold, &k.OrderID, &k.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("GetAvailableKey: query failed", err)
		return nil, err
	}
	return &k, nil
}

func (r *postgresCatalogRepository) MarkKeySold(ctx context.Context, dbops DBTX, keyID, orderID string) error {
	query := `UPDATE product_keys SET is_sold = TRUE, order_id = $1 WHERE id = $2 AND is_sold = FALSE`
	res, err := dbops.ExecContext(ctx, query, orderID, keyID)
	if err != nil {
		logger.Error("MarkKeySold: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrKeyAlreadySold
	}
	return nil
}

// AddProductKeys bulk-loads pre-provisioned keys in one transaction.
func (r *postgresCatalogRepository) AddProductKeys(ctx context.Context, productID string, keys []string) ([]domain.ProductKey, error) {
	tx, err := r.db.Begin()
	if err != nil {
		logger.Error("AddProductKeys: failed to begin tx", err)
		return nil, err
	}
	defer tx.Rollback() // Rollback if not committed

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO product_keys (id, key, product_id, is_sold, created_at)
                                         VALUES ($1, $2, $3, FALSE, $4)`)
	if err != nil {
		logger.Error("AddProductKeys: failed to prepare statement", err)
		return nil, err
	}
	defer stmt.Close()

	created := make([]domain.ProductKey, 0, len(keys))
	for _, key := range keys {
		k := domain.ProductKey{
			ID:        uuid.NewString(),
			Key:       key,
			ProductID: productID,
			CreatedAt: time.Now(),
		}
		if _, err := stmt.ExecContext(ctx, k.ID, k.Key, k.ProductID, k.CreatedAt); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				switch pqErr.Code {
				case "23505": // unique_violation
					return nil, ErrKeyConflict
				case "23503": // foreign_key_violation
					return nil, ErrProductNotFound
				}
			}
			logger.Error("AddProductKeys: failed to insert key", err, map[string]interface{}{"product_id": productID})
			return nil, err
		}
		created = append(created, k)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("AddProductKeys: commit failed", err)
		return nil, err
	}
	return created, nil
}

func (r *postgresCatalogRepository) CountAvailableKeys(ctx context.Context, productID string) (int, error) {
	query := `SELECT COUNT(*) FROM product_keys WHERE product_id = $1 AND is_sold = FALSE`
	var count int
	if err := r.db.QueryRowContext(ctx, query, productID).Scan(&count); err != nil {
		logger.Error("CountAvailableKeys: query failed for product_id "+productID, err)
		return 0, err
	}
	return count, nil
}
