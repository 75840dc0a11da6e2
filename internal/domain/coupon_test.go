// internal/domain/coupon_test.go
package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coupon-manager/internal/util"
)

func strPtr(s string) *string { return &s }

func datePtr(d Date) *Date { return &d }

func validDraft() CouponDraft {
	return CouponDraft{
		Code:               "SAVE10",
		Description:        "Ten percent off",
		Store:              "Acme",
		DiscountPercentage: decimal.NewFromInt(10),
	}
}

func TestCouponDraftValidate(t *testing.T) {
	t.Run("Valid draft", func(t *testing.T) {
		assert.NoError(t, validDraft().Validate())
	})

	cases := map[string]func(d *CouponDraft){
		"Blank code":        func(d *CouponDraft) { d.Code = "  " },
		"Blank description": func(d *CouponDraft) { d.Description = "" },
		"Blank store":       func(d *CouponDraft) { d.Store = "\t" },
		"Zero discount":     func(d *CouponDraft) { d.DiscountPercentage = decimal.Zero },
		"Negative discount": func(d *CouponDraft) { d.DiscountPercentage = decimal.NewFromFloat(-2.5) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := validDraft()
			mutate(&d)
			err := d.Validate()
			assert.ErrorIs(t, err, util.ErrInvalidInput)
		})
	}
}

func TestCouponJSONDiscountIsNumber(t *testing.T) {
	d := validDraft()
	d.DiscountPercentage = decimal.RequireFromString("15.5")
	raw, err := json.Marshal(NewCoupon(d, NewDate(2026, time.June, 1)))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"discountPercentage":15.5,`)

	var back Coupon
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.DiscountPercentage.Equal(back.DiscountPercentage))
}

func TestCouponDraftValidateKeepsPrecision(t *testing.T) {
	for _, v := range []string{"0.001", "12.345", "99999.99", "100000", "250.5"} {
		t.Run(v, func(t *testing.T) {
			d := validDraft()
			d.DiscountPercentage = decimal.RequireFromString(v)
			require.NoError(t, d.Validate())

			c := NewCoupon(d, NewDate(2026, time.June, 1))
			assert.Equal(t, v, c.DiscountPercentage.String())
		})
	}
}

func TestNewCouponStartsUnused(t *testing.T) {
	d := validDraft()
	d.IsUsed = true
	d.Category = strPtr("food")

	c := NewCoupon(d, NewDate(2026, time.March, 1))

	assert.False(t, c.IsUsed)
	assert.Equal(t, CouponStateUnused, c.State())
	assert.Equal(t, NewDate(2026, time.March, 1), c.CreatedAt)
	require.NotNil(t, c.Category)
	assert.Equal(t, "food", *c.Category)

	// The coupon must not alias the draft's optional fields.
	*d.Category = "changed"
	assert.Equal(t, "food", *c.Category)
}

func TestCouponApplyKeepsIdentity(t *testing.T) {
	c := NewCoupon(validDraft(), NewDate(2026, time.January, 5))
	c.ID = 42

	update := validDraft()
	update.Code = "NEW"
	update.IsUsed = true
	update.Notes = strPtr("n")
	c.Apply(update)

	assert.Equal(t, int64(42), c.ID)
	assert.Equal(t, NewDate(2026, time.January, 5), c.CreatedAt)
	assert.Equal(t, "NEW", c.Code)
	assert.True(t, c.IsUsed)
	assert.Equal(t, "n", *c.Notes)
}

func TestCouponMarkUsedIsIdempotent(t *testing.T) {
	c := NewCoupon(validDraft(), NewDate(2026, time.January, 5))
	c.MarkUsed()
	once := c.Clone()
	c.MarkUsed()

	assert.Equal(t, once, *c)
	assert.Equal(t, CouponStateUsed, c.State())
}

func TestCouponExpiry(t *testing.T) {
	today := NewDate(2026, time.June, 10)

	undated := NewCoupon(validDraft(), today)
	assert.False(t, undated.IsExpired(today))
	assert.True(t, undated.IsActive(today))

	yesterday := NewCoupon(validDraft(), today)
	yesterday.ExpiryDate = datePtr(today.AddDays(-1))
	assert.True(t, yesterday.IsExpired(today))
	assert.False(t, yesterday.IsActive(today))

	expiresToday := NewCoupon(validDraft(), today)
	expiresToday.ExpiryDate = datePtr(today)
	assert.False(t, expiresToday.IsExpired(today))
	assert.True(t, expiresToday.IsActive(today))

	expiresToday.MarkUsed()
	assert.False(t, expiresToday.IsActive(today))
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.December, 31)
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-12-31"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))

	assert.Error(t, json.Unmarshal([]byte(`"31/12/2026"`), &back))
	assert.Error(t, json.Unmarshal([]byte(`20261231`), &back))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, time.May, 4, 0, 0, 0, 0, time.FixedZone("X", 3600))))
	assert.Equal(t, "2026-05-04", d.String())

	require.NoError(t, d.Scan([]byte("2026-05-04")))
	assert.Equal(t, NewDate(2026, time.May, 4), d)

	assert.Error(t, d.Scan(42))
}
