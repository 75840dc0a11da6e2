package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/util"
)

func newCoupon(code string) *domain.Coupon {
	return domain.NewCoupon(domain.CouponDraft{
		Code:               code,
		Description:        "desc " + code,
		Store:              "Store",
		DiscountPercentage: decimal.NewFromInt(15),
	}, domain.NewDate(2026, time.January, 1))
}

func TestCouponRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository()

	c := newCoupon("A1")
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, int64(1), c.ID)

	got, err := repo.GetByCode(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, *c, *got)

	_, err = repo.GetByCode(ctx, "a1")
	assert.ErrorIs(t, err, util.ErrNotFound, "codes are case-sensitive")

	got.Description = "changed"
	got.CreatedAt = domain.NewDate(1999, time.January, 1)
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", reloaded.Description)
	assert.Equal(t, c.CreatedAt, reloaded.CreatedAt, "created_at is never overwritten")

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), util.ErrNotFound)
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, c), util.ErrNotFound)
}

func TestCouponRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository()

	a := newCoupon("A")
	b := newCoupon("B")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	assert.ErrorIs(t, repo.Create(ctx, newCoupon("A")), util.ErrDuplicateCode)

	b.Code = "A"
	assert.ErrorIs(t, repo.Update(ctx, b), util.ErrDuplicateCode)

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", stored.Code)
}

func TestCouponRepositoryConcurrentCreateSameCode(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository()

	var (
		wg        sync.WaitGroup
		successes int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Create(ctx, newCoupon("RACE")); err == nil {
				atomic.AddInt32(&successes, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes)
	all, err := repo.List(ctx, domain.CouponFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCouponRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository()

	c := newCoupon("COPY")
	cat := "books"
	c.Category = &cat
	require.NoError(t, repo.Create(ctx, c))

	cat = "mutated"
	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "books", *got.Category)

	*got.Category = "mutated again"
	again, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "books", *again.Category)
}

func TestCouponRepositoryListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository()
	today := domain.NewDate(2026, time.June, 10)

	late := newCoupon("LATE")
	lateDate := today.AddDays(20)
	late.ExpiryDate = &lateDate
	soon := newCoupon("SOON")
	soonDate := today.AddDays(2)
	soon.ExpiryDate = &soonDate
	open := newCoupon("OPEN")
	for _, c := range []*domain.Coupon{late, open, soon} {
		require.NoError(t, repo.Create(ctx, c))
	}

	coupons, err := repo.List(ctx, domain.CouponFilter{NotExpiredOn: &today, OrderBy: domain.OrderByExpiry})
	require.NoError(t, err)
	codes := make([]string, 0, len(coupons))
	for _, c := range coupons {
		codes = append(codes, c.Code)
	}
	assert.Equal(t, []string{"SOON", "LATE", "OPEN"}, codes)
}

func TestCouponRepositoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewCouponRepository()
	assert.ErrorIs(t, repo.Create(ctx, newCoupon("X")), context.Canceled)
	_, err := repo.List(ctx, domain.CouponFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	alice := domain.NewUser("alice", "alice@x.com", "hash", now)
	require.NoError(t, repo.CreateUser(ctx, alice))
	assert.Equal(t, int64(1), alice.ID)

	assert.ErrorIs(t, repo.CreateUser(ctx, domain.NewUser("alice", "other@x.com", "h", now)), util.ErrDuplicateUsername)
	assert.ErrorIs(t, repo.CreateUser(ctx, domain.NewUser("bob", "alice@x.com", "h", now)), util.ErrDuplicateEmail)

	byEmail, err := repo.GetUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, *alice, *byEmail)

	byID, err := repo.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = repo.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
