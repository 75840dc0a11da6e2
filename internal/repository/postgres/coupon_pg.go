// internal/repository/postgres/coupon_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/repository"
	"coupon-manager/internal/util"
)

const couponColumns = `id, code, description, store, discount_percentage, category, expiry_date, is_used, notes, created_at`

// CouponRepository implements repository.CouponRepository for PostgreSQL.
type CouponRepository struct {
	q repository.DBExecutor
}

// NewCouponRepository creates a new CouponRepository on top of q (typically *sqlx.DB).
func NewCouponRepository(q repository.DBExecutor) repository.CouponRepository {
	return &CouponRepository{q: q}
}

// Create inserts a new coupon. The coupons_code_key constraint is the authoritative uniqueness check.
func (r *CouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	query := `INSERT INTO coupons (code, description, store, discount_percentage, category, expiry_date, is_used, notes, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.q.QueryRowContext(ctx, query,
		coupon.Code,
		coupon.Description,
		coupon.Store,
		coupon.DiscountPercentage,
		coupon.Category,
		coupon.ExpiryDate,
		coupon.IsUsed,
		coupon.Notes,
		coupon.CreatedAt,
	).Scan(&coupon.ID)
	if err != nil {
		return fmt.Errorf("failed to create coupon: %w", mapConstraintError(err))
	}
	return nil
}

// Update overwrites the mutable columns of a coupon. created_at is never written.
func (r *CouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	query := `UPDATE coupons
              SET code = $1, description = $2, store = $3, discount_percentage = $4,
                  category = $5, expiry_date = $6, is_used = $7, notes = $8
              WHERE id = $9`
	result, err := r.q.ExecContext(ctx, query,
		coupon.Code,
		coupon.Description,
		coupon.Store,
		coupon.DiscountPercentage,
		coupon.Category,
		coupon.ExpiryDate,
		coupon.IsUsed,
		coupon.Notes,
		coupon.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update coupon %d: %w", coupon.ID, mapConstraintError(err))
	}
	return expectOneRow(result, coupon.ID)
}

// Delete removes a coupon by ID.
func (r *CouponRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon %d: %w", id, err)
	}
	return expectOneRow(result, id)
}

// GetByID retrieves a coupon by its ID.
func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	var coupon domain.Coupon
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	if err := r.q.GetContext(ctx, &coupon, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by ID %d: %w", id, err)
	}
	return &coupon, nil
}

// GetByCode retrieves a coupon by its exact code.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	if err := r.q.GetContext(ctx, &coupon, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by code '%s': %w", code, err)
	}
	return &coupon, nil
}

// List retrieves the coupons matching filter.
func (r *CouponRepository) List(ctx context.Context, filter domain.CouponFilter) ([]domain.Coupon, error) {
	coupons := []domain.Coupon{}
	query, args := buildListQuery(filter)
	if err := r.q.SelectContext(ctx, &coupons, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// buildListQuery renders filter as a parameterized SELECT.
// Each predicate mirrors domain.CouponFilter.Matches.
func buildListQuery(filter domain.CouponFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	contains := func(column string, term string) string {
		return fmt.Sprintf("strpos(lower(%s), lower(%s)) > 0", column, arg(term))
	}

	if filter.IsUsed != nil {
		where = append(where, "is_used = "+arg(*filter.IsUsed))
	}
	if filter.NotExpiredOn != nil {
		where = append(where, "(expiry_date IS NULL OR expiry_date >= "+arg(*filter.NotExpiredOn)+")")
	}
	if filter.ExpiresBefore != nil {
		where = append(where, "expiry_date < "+arg(*filter.ExpiresBefore))
	}
	if filter.ExpiresFrom != nil {
		where = append(where, "expiry_date >= "+arg(*filter.ExpiresFrom))
	}
	if filter.ExpiresTo != nil {
		where = append(where, "expiry_date <= "+arg(*filter.ExpiresTo))
	}
	if filter.StoreContains != nil {
		where = append(where, contains("store", *filter.StoreContains))
	}
	if filter.CategoryContains != nil {
		where = append(where, "category IS NOT NULL AND "+contains("category", *filter.CategoryContains))
	}
	if filter.Search != nil {
		term := *filter.Search
		where = append(where, "("+
			contains("code", term)+" OR "+
			contains("description", term)+" OR "+
			contains("store", term)+" OR "+
			"(category IS NOT NULL AND "+contains("category", term)+"))")
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + couponColumns + " FROM coupons")
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	switch filter.OrderBy {
	case domain.OrderByExpiry:
		sb.WriteString(" ORDER BY expiry_date ASC NULLS LAST, id ASC")
	default:
		sb.WriteString(" ORDER BY id ASC")
	}
	return sb.String(), args
}

func expectOneRow(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for coupon %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
