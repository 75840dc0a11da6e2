// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/repository"
	"coupon-manager/internal/util"
)

const userColumns = `id, username, email, password_hash, enabled, account_non_expired, account_non_locked, credentials_non_expired, created_at`

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	q repository.DBExecutor
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(q repository.DBExecutor) repository.UserRepository {
	return &UserRepository{q: q}
}

// CreateUser inserts a new user. Unique constraints on username and email back the service-level checks.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (username, email, password_hash, enabled, account_non_expired, account_non_locked, credentials_non_expired, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.q.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.Password,
		user.Enabled,
		user.AccountNonExpired,
		user.AccountNonLocked,
		user.CredentialsNonExpired,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapConstraintError(err))
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "id", id)
}

// GetUserByUsername retrieves a user by their username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "username", username)
}

// GetUserByEmail retrieves a user by their email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email", email)
}

// getOne looks a user up by a unique column. column is never caller-controlled.
func (r *UserRepository) getOne(ctx context.Context, column string, value interface{}) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	if err := r.q.GetContext(ctx, &user, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s '%v': %w", column, value, err)
	}
	return &user, nil
}
