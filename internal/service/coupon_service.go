// internal/service/coupon_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/repository"
	"coupon-manager/internal/util"
)

// CouponService defines the interface for coupon lifecycle business logic.
type CouponService interface {
	Create(ctx context.Context, draft domain.CouponDraft) (*domain.Coupon, error)
	// GetByID and GetByCode report absence through found=false, not through an error.
	GetByID(ctx context.Context, id int64) (coupon *domain.Coupon, found bool, err error)
	GetByCode(ctx context.Context, code string) (coupon *domain.Coupon, found bool, err error)
	List(ctx context.Context) ([]domain.Coupon, error)
	Update(ctx context.Context, id int64, fields domain.CouponDraft) (*domain.Coupon, error)
	Delete(ctx context.Context, id int64) error
	MarkUsed(ctx context.Context, id int64) (*domain.Coupon, error)

	Active(ctx context.Context) ([]domain.Coupon, error)
	ExpiringSoon(ctx context.Context) ([]domain.Coupon, error)
	Expired(ctx context.Context) ([]domain.Coupon, error)
	Used(ctx context.Context) ([]domain.Coupon, error)
	Unused(ctx context.Context) ([]domain.Coupon, error)
	ByStore(ctx context.Context, store string) ([]domain.Coupon, error)
	ByCategory(ctx context.Context, category string) ([]domain.Coupon, error)
	Search(ctx context.Context, term string) ([]domain.Coupon, error)
}

// couponService implements the CouponService interface.
type couponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

// NewCouponService creates a new instance of CouponService.
// now supplies the current time for createdAt stamping and date-relative views; nil means time.Now.
func NewCouponService(couponRepo repository.CouponRepository, now func() time.Time) CouponService {
	if now == nil {
		now = time.Now
	}
	return &couponService{
		couponRepo: couponRepo,
		now:        now,
	}
}

func (s *couponService) today() domain.Date {
	return domain.DateOf(s.now())
}

// Create stores a new unused coupon. The code lookup is an early exit; the
// repository's uniqueness guarantee settles concurrent creates.
func (s *couponService) Create(ctx context.Context, draft domain.CouponDraft) (*domain.Coupon, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.couponRepo.GetByCode(ctx, draft.Code); err == nil {
		return nil, util.ErrDuplicateCode
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("create coupon: failed to check code '%s': %w", draft.Code, err)
	}

	coupon := domain.NewCoupon(draft, s.today())
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return coupon, nil
}

func (s *couponService) GetByID(ctx context.Context, id int64) (*domain.Coupon, bool, error) {
	return lookup(s.couponRepo.GetByID(ctx, id))
}

func (s *couponService) GetByCode(ctx context.Context, code string) (*domain.Coupon, bool, error) {
	return lookup(s.couponRepo.GetByCode(ctx, code))
}

func lookup(coupon *domain.Coupon, err error) (*domain.Coupon, bool, error) {
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get coupon: %w", err)
	}
	return coupon, true, nil
}

func (s *couponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.list(ctx, "list coupons", domain.CouponFilter{})
}

// Update overwrites every mutable field of the coupon. ID and createdAt are preserved.
func (s *couponService) Update(ctx context.Context, id int64, fields domain.CouponDraft) (*domain.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("update coupon: failed to get coupon %d: %w", id, err)
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	if fields.Code != coupon.Code {
		existing, err := s.couponRepo.GetByCode(ctx, fields.Code)
		switch {
		case err == nil && existing.ID != id:
			return nil, util.ErrDuplicateCode
		case err != nil && !errors.Is(err, util.ErrNotFound):
			return nil, fmt.Errorf("update coupon: failed to check code '%s': %w", fields.Code, err)
		}
	}

	coupon.Apply(fields)
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, fmt.Errorf("update coupon %d: %w", id, err)
	}
	return coupon, nil
}

func (s *couponService) Delete(ctx context.Context, id int64) error {
	if err := s.couponRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrNotFound
		}
		return fmt.Errorf("delete coupon %d: %w", id, err)
	}
	return nil
}

// MarkUsed moves the coupon to the used state. It is idempotent.
func (s *couponService) MarkUsed(ctx context.Context, id int64) (*domain.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("mark used: failed to get coupon %d: %w", id, err)
	}

	coupon.MarkUsed()
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, fmt.Errorf("mark used: coupon %d: %w", id, err)
	}
	return coupon, nil
}

// Active lists unused coupons that have not expired, soonest expiry first.
// Coupons without an expiry date never expire and are listed last.
func (s *couponService) Active(ctx context.Context) ([]domain.Coupon, error) {
	today := s.today()
	unused := false
	return s.list(ctx, "active coupons", domain.CouponFilter{
		IsUsed:       &unused,
		NotExpiredOn: &today,
		OrderBy:      domain.OrderByExpiry,
	})
}

// ExpiringSoon lists coupons expiring between today and a week from today, inclusive.
func (s *couponService) ExpiringSoon(ctx context.Context) ([]domain.Coupon, error) {
	today := s.today()
	until := today.AddDays(domain.ExpiringSoonWindowDays)
	return s.list(ctx, "expiring coupons", domain.CouponFilter{
		ExpiresFrom: &today,
		ExpiresTo:   &until,
		OrderBy:     domain.OrderByExpiry,
	})
}

// Expired lists coupons whose expiry date is before today, used or not.
func (s *couponService) Expired(ctx context.Context) ([]domain.Coupon, error) {
	today := s.today()
	return s.list(ctx, "expired coupons", domain.CouponFilter{ExpiresBefore: &today})
}

func (s *couponService) Used(ctx context.Context) ([]domain.Coupon, error) {
	used := true
	return s.list(ctx, "used coupons", domain.CouponFilter{IsUsed: &used})
}

func (s *couponService) Unused(ctx context.Context) ([]domain.Coupon, error) {
	used := false
	return s.list(ctx, "unused coupons", domain.CouponFilter{IsUsed: &used})
}

func (s *couponService) ByStore(ctx context.Context, store string) ([]domain.Coupon, error) {
	return s.list(ctx, "coupons by store", domain.CouponFilter{StoreContains: &store})
}

func (s *couponService) ByCategory(ctx context.Context, category string) ([]domain.Coupon, error) {
	return s.list(ctx, "coupons by category", domain.CouponFilter{CategoryContains: &category})
}

func (s *couponService) Search(ctx context.Context, term string) ([]domain.Coupon, error) {
	return s.list(ctx, "search coupons", domain.CouponFilter{Search: &term})
}

func (s *couponService) list(ctx context.Context, op string, filter domain.CouponFilter) ([]domain.Coupon, error) {
	coupons, err := s.couponRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return coupons, nil
}
