package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hartawan/keymart-backend/internal/platform/logger"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/platform/search"
	"github.com/hartawan/keymart-backend/internal/promo/domain"
	"github.com/lib/pq"
)

var (
	ErrPromoNotFound = errors.New("promo code not found")
	ErrPromoConflict = errors.New("promo code already exists")
)

type PromoRepository interface {
	CreatePromoCode(ctx context.Context, promo *domain.PromoCode) error
	GetPromoCodeByID(ctx context.Context, id string) (*domain.PromoCode, error)
	GetPromoCodeByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	ListPromoCodes(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.PromoCode, int, error)
	DeactivateExpired(ctx context.Context) (int64, error)
}

type postgresPromoRepository struct {
	db *sql.DB
}

func NewPostgresPromoRepository(db *sql.DB) PromoRepository {
	return &postgresPromoRepository{db: db}
}

func (r *postgresPromoRepository) CreatePromoCode(ctx context.Context, p *domain.PromoCode) error {
	query := `INSERT INTO promo_codes (id, code, discount, expires_at, is_active, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`

	p.ID = uuid.NewString()
	p.IsActive = true
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Code, p.Discount, p.ExpiresAt, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrPromoConflict
		}
		logger.Error("CreatePromoCode: failed to insert promo code", err)
		return err
	}
	return nil
}

func (r *postgresPromoRepository) getPromoBy(ctx context.Context, field, value string) (*domain.PromoCode, error) {
	query := `SELECT id, code, discount, expires_at, is_active, created_at, updated_at FROM promo_codes WHERE ` + field + ` = $1`
	var p domain.PromoCode
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&p.ID, &p.Code, &p.Discount, &p.ExpiresAt, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPromoNotFound
		}
		logger.Error("GetPromoBy"+field+": query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresPromoRepository) GetPromoCodeByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	return r.getPromoBy(ctx, "id", id)
}

func (r *postgresPromoRepository) GetPromoCodeByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	return r.getPromoBy(ctx, "code", code)
}

func (r *postgresPromoRepository) ListPromoCodes(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.PromoCode, int, error) {
	where, args := search.ToSQL(pred, 1)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM promo_codes WHERE `+where, args...).Scan(&total); err != nil {
		logger.Error("ListPromoCodes: count query failed", err)
		return nil, 0, err
	}

	listQuery := `SELECT id, code, discount, expires_at, is_active, created_at, updated_at
              FROM promo_codes WHERE ` + where + `
              ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, listQuery, append(args, page.Limit, page.Offset())...)
	if err != nil {
		logger.Error("ListPromoCodes: query failed", err)
		return nil, 0, err
	}
	defer rows.Close()

	promos := []domain.PromoCode{}
	for rows.Next() {
		var p domain.PromoCode
		if err := rows.Scan(&p.ID, &p.Code, &p.Discount, &p.ExpiresAt, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			logger.Error("ListPromoCodes: scan failed", err)
			return nil, 0, err
		}
		promos = append(promos, p)
	}
	return promos, total, rows.Err()
}

// DeactivateExpired flips is_active off for codes past their expiry. Run
// periodically; orders never consult is_active alone, they also check
// expires_at, so the sweep is bookkeeping rather than correctness.
func (r *postgresPromoRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	query := `UPDATE promo_codes SET is_active = FALSE, updated_at = NOW()
              WHERE is_active = TRUE AND expires_at <= NOW()`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.Error("DeactivateExpired: exec failed", err)
		return 0, err
	}
	rowsAffected, _ := res.RowsAffected()
	return rowsAffected, nil
}
