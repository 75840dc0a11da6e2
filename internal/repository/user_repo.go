// internal/repository/user_repo.go
package repository

import (
	"context"

	"coupon-manager/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser inserts a new user and sets its ID.
	// A username or email collision is reported as util.ErrDuplicateUsername or util.ErrDuplicateEmail.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	// GetUserByUsername retrieves a user by their username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetUserByEmail retrieves a user by their email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
