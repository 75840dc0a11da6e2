// internal/domain/filter_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestCouponFilterMatches(t *testing.T) {
	today := NewDate(2026, time.June, 10)

	base := Coupon{
		ID:          1,
		Code:        "SUMMER25",
		Description: "Summer sale",
		Store:       "Amazon",
		Category:    strPtr("Electronics"),
		ExpiryDate:  datePtr(today.AddDays(3)),
	}
	undated := base.Clone()
	undated.Category = nil
	undated.ExpiryDate = nil

	tests := []struct {
		name   string
		filter CouponFilter
		coupon Coupon
		want   bool
	}{
		{"Empty filter", CouponFilter{}, base, true},
		{"Used mismatch", CouponFilter{IsUsed: boolPtr(true)}, base, false},
		{"Unused match", CouponFilter{IsUsed: boolPtr(false)}, base, true},
		{"Not expired dated", CouponFilter{NotExpiredOn: &today}, base, true},
		{"Not expired undated", CouponFilter{NotExpiredOn: &today}, undated, true},
		{"Expires before excludes undated", CouponFilter{ExpiresBefore: datePtr(today.AddDays(10))}, undated, false},
		{"Expires before boundary is exclusive", CouponFilter{ExpiresBefore: datePtr(today.AddDays(3))}, base, false},
		{"Range inclusive upper", CouponFilter{ExpiresFrom: &today, ExpiresTo: datePtr(today.AddDays(3))}, base, true},
		{"Range excludes undated", CouponFilter{ExpiresFrom: &today, ExpiresTo: datePtr(today.AddDays(7))}, undated, false},
		{"Store case-insensitive", CouponFilter{StoreContains: strPtr("aMaZ")}, base, true},
		{"Store miss", CouponFilter{StoreContains: strPtr("ebay")}, base, false},
		{"Category on nil category", CouponFilter{CategoryContains: strPtr("")}, undated, false},
		{"Category substring", CouponFilter{CategoryContains: strPtr("TRON")}, base, true},
		{"Search code", CouponFilter{Search: strPtr("summer2")}, base, true},
		{"Search description", CouponFilter{Search: strPtr("SALE")}, base, true},
		{"Search category", CouponFilter{Search: strPtr("electro")}, base, true},
		{"Search miss", CouponFilter{Search: strPtr("winter")}, base, false},
		{"Search nil category", CouponFilter{Search: strPtr("electro")}, undated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(&tt.coupon))
		})
	}
}

func TestSortCouponsByExpiry(t *testing.T) {
	d := NewDate(2026, time.June, 10)
	coupons := []Coupon{
		{ID: 1},
		{ID: 2, ExpiryDate: datePtr(d.AddDays(5))},
		{ID: 3, ExpiryDate: datePtr(d)},
		{ID: 4, ExpiryDate: datePtr(d.AddDays(5))},
		{ID: 0},
	}

	SortCoupons(coupons, OrderByExpiry)

	ids := make([]int64, len(coupons))
	for i, c := range coupons {
		ids[i] = c.ID
	}
	assert.Equal(t, []int64{3, 2, 4, 0, 1}, ids)
}

func TestSortCouponsByID(t *testing.T) {
	coupons := []Coupon{{ID: 3}, {ID: 1}, {ID: 2}}
	SortCoupons(coupons, OrderByID)
	assert.Equal(t, []Coupon{{ID: 1}, {ID: 2}, {ID: 3}}, coupons)
}
