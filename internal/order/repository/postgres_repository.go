package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hartawan/keymart-backend/internal/order/domain"
	"github.com/hartawan/keymart-backend/internal/platform/logger"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
)

var ErrOrderNotFound = errors.New("order not found")

// DBTX can be *sql.DB or *sql.Tx. The order service drives the
// fulfillment transaction through this interface so the catalog
// repository's writes land in the same unit of work.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	Commit() error
	Rollback() error
}

type OrderRepository interface {
	BeginTx(ctx context.Context) (DBTX, error)
	InsertOrder(ctx context.Context, dbops DBTX, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.Order, int, error)
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) BeginTx(ctx context.Context) (DBTX, error) {
	return r.db.BeginTx(ctx, nil)
}

func (r *postgresOrderRepository) InsertOrder(ctx context.Context, dbops DBTX, order *domain.Order) error {
	query := `INSERT INTO orders (id, user_id, product_id, quantity, total, discount_amount, status, promo_code_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	if order.Status == "" {
		order.Status = domain.StatusPending
	}

	_, err := dbops.ExecContext(ctx, query,
		order.ID, order.UserID, order.ProductID, order.Quantity,
		order.Total, order.DiscountAmount, order.Status, order.PromoCodeID,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		logger.Error("InsertOrder: failed to insert order", err)
		return err
	}
	return nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT id, user_id, product_id, quantity, total, discount_amount, status, promo_code_id, created_at, updated_at
              FROM orders WHERE id = $1`
	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.Total, &o.DiscountAmount, &o.Status, &o.PromoCodeID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetOrderByID: query failed", err)
		return nil, err
	}
	return &o, nil
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.Order, int, error) {
	where, args := search.ToSQL(pred, 1)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total); err != nil {
		logger.Error("ListOrders: count query failed", err)
		return nil, 0, err
	}

	listQuery := `SELECT orders.id, orders.user_id, orders.product_id, orders.quantity, orders.total, orders.discount_amount, orders.status, orders.promo_code_id, orders.created_at, orders.updated_at
              FROM orders WHERE ` + where + `
              ORDER BY orders.created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, listQuery, append(args, page.Limit, page.Offset())...)
	if err != nil {
		logger.Error("ListOrders: query failed", err)
		return nil, 0, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.Total, &o.DiscountAmount, &o.Status, &o.PromoCodeID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			logger.Error("ListOrders: scan failed", err)
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, newStatus, orderID)
	if err != nil {
		logger.Error("UpdateOrderStatus: exec failed", err, map[string]interface{}{"order_id": orderID, "new_status": newStatus})
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
