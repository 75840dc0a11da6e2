// Package memory provides in-process implementations of the repository interfaces.
// They back the memory store driver and the service and API tests.
package memory

import (
	"context"
	"sync"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/repository"
	"coupon-manager/internal/util"
)

// CouponRepository implements repository.CouponRepository in memory.
// Code uniqueness is checked and applied under a single lock.
type CouponRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.Coupon
}

// NewCouponRepository creates an empty CouponRepository.
func NewCouponRepository() repository.CouponRepository {
	return &CouponRepository{byID: make(map[int64]domain.Coupon)}
}

func (r *CouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codeTaken(coupon.Code, 0) {
		return util.ErrDuplicateCode
	}
	r.nextID++
	coupon.ID = r.nextID
	r.byID[coupon.ID] = coupon.Clone()
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[coupon.ID]
	if !ok {
		return util.ErrNotFound
	}
	if r.codeTaken(coupon.Code, coupon.ID) {
		return util.ErrDuplicateCode
	}
	stored := coupon.Clone()
	stored.CreatedAt = current.CreatedAt
	r.byID[coupon.ID] = stored
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return util.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	out := c.Clone()
	return &out, nil
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Code == code {
			out := c.Clone()
			return &out, nil
		}
	}
	return nil, util.ErrNotFound
}

func (r *CouponRepository) List(ctx context.Context, filter domain.CouponFilter) ([]domain.Coupon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupons := []domain.Coupon{}
	for _, c := range r.byID {
		if filter.Matches(&c) {
			coupons = append(coupons, c.Clone())
		}
	}
	domain.SortCoupons(coupons, filter.OrderBy)
	return coupons, nil
}

// codeTaken reports whether a coupon other than exceptID already holds code. Callers hold mu.
func (r *CouponRepository) codeTaken(code string, exceptID int64) bool {
	for id, c := range r.byID {
		if id != exceptID && c.Code == code {
			return true
		}
	}
	return false
}
