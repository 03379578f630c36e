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
	"github.com/hartawan/keymart-backend/internal/user/domain"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserConflict = errors.New("user with this email or phone number already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.User, int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, phone_number, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	var phoneNumber sql.NullString
	if user.PhoneNumber != nil {
		phoneNumber = sql.NullString{String: *user.PhoneNumber, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, phoneNumber, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// '23505' is unique_violation
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			logger.Error("CreateUser: unique violation", err)
			return ErrUserConflict
		}
		logger.Error("CreateUser: failed to insert user", err)
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, email, phone_number, password_hash, created_at, updated_at FROM users WHERE id = $1`
	user := &domain.User{}
	var phoneNumber sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &phoneNumber, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserByID: query failed", err)
		return nil, err
	}
	if phoneNumber.Valid {
		user.PhoneNumber = &phoneNumber.String
	}
	return user, nil
}

func (r *postgresUserRepository) ListUsers(ctx context.Context, pred search.Predicate, page pagination.Params) ([]domain.User, int, error) {
	where, args := search.ToSQL(pred, 1)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		logger.Error("ListUsers: count query failed", err)
		return nil, 0, err
	}

	listQuery := `SELECT id, email, phone_number, password_hash, created_at, updated_at
              FROM users WHERE ` + where + `
              ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	rows, err := r.db.QueryContext(ctx, listQuery, append(args, page.Limit, page.Offset())...)
	if err != nil {
		logger.Error("ListUsers: query failed", err)
		return nil, 0, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		var phoneNumber sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &phoneNumber, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			logger.Error("ListUsers: scan failed", err)
			return nil, 0, err
		}
		if phoneNumber.Valid {
			u.PhoneNumber = &phoneNumber.String
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
