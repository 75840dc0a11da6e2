// internal/repository/coupon_repo.go
package repository

import (
	"context"

	"coupon-manager/internal/domain"
)

// CouponRepository defines the interface for coupon data operations.
// Implementations enforce code uniqueness atomically and report a collision as util.ErrDuplicateCode.
type CouponRepository interface {
	// Create inserts a new coupon and sets its ID.
	Create(ctx context.Context, coupon *domain.Coupon) error
	// Update overwrites the stored coupon with the same ID, or returns util.ErrNotFound.
	Update(ctx context.Context, coupon *domain.Coupon) error
	// Delete removes a coupon permanently, or returns util.ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// GetByID retrieves a coupon by ID, or returns util.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Coupon, error)
	// GetByCode retrieves a coupon by exact code, or returns util.ErrNotFound.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	// List returns the coupons matching filter in the filter's order.
	List(ctx context.Context, filter domain.CouponFilter) ([]domain.Coupon, error)
}
