// internal/domain/filter.go
package domain

import (
	"sort"
	"strings"
)

// CouponOrder selects the ordering of a coupon listing.
type CouponOrder int

const (
	// OrderByID sorts by ascending identifier.
	OrderByID CouponOrder = iota
	// OrderByExpiry sorts by ascending expiry date, undated coupons last, ties by ID.
	OrderByExpiry
)

// CouponFilter is a conjunction of optional predicates over coupons.
// A nil field places no constraint.
type CouponFilter struct {
	IsUsed *bool
	// NotExpiredOn keeps coupons with no expiry date or an expiry date on or after the day.
	NotExpiredOn *Date
	// ExpiresBefore keeps dated coupons expiring strictly before the day.
	ExpiresBefore *Date
	// ExpiresFrom and ExpiresTo keep dated coupons inside the inclusive range.
	ExpiresFrom *Date
	ExpiresTo   *Date
	// StoreContains and CategoryContains are case-insensitive substring matches.
	StoreContains    *string
	CategoryContains *string
	// Search is a case-insensitive substring match against code, description, store or category.
	Search  *string
	OrderBy CouponOrder
}

// Matches reports whether c satisfies every predicate of f.
func (f CouponFilter) Matches(c *Coupon) bool {
	if f.IsUsed != nil && c.IsUsed != *f.IsUsed {
		return false
	}
	if f.NotExpiredOn != nil && c.ExpiryDate != nil && c.ExpiryDate.Before(*f.NotExpiredOn) {
		return false
	}
	if f.ExpiresBefore != nil && (c.ExpiryDate == nil || !c.ExpiryDate.Before(*f.ExpiresBefore)) {
		return false
	}
	if f.ExpiresFrom != nil && (c.ExpiryDate == nil || c.ExpiryDate.Before(*f.ExpiresFrom)) {
		return false
	}
	if f.ExpiresTo != nil && (c.ExpiryDate == nil || c.ExpiryDate.After(*f.ExpiresTo)) {
		return false
	}
	if f.StoreContains != nil && !containsFold(c.Store, *f.StoreContains) {
		return false
	}
	if f.CategoryContains != nil && (c.Category == nil || !containsFold(*c.Category, *f.CategoryContains)) {
		return false
	}
	if f.Search != nil {
		term := *f.Search
		hit := containsFold(c.Code, term) ||
			containsFold(c.Description, term) ||
			containsFold(c.Store, term) ||
			(c.Category != nil && containsFold(*c.Category, term))
		if !hit {
			return false
		}
	}
	return true
}

// SortCoupons orders coupons in place according to order.
func SortCoupons(coupons []Coupon, order CouponOrder) {
	switch order {
	case OrderByExpiry:
		sort.SliceStable(coupons, func(i, j int) bool {
			a, b := coupons[i].ExpiryDate, coupons[j].ExpiryDate
			switch {
			case a == nil && b == nil:
				return coupons[i].ID < coupons[j].ID
			case a == nil:
				return false
			case b == nil:
				return true
			case !a.Equal(*b):
				return a.Before(*b)
			default:
				return coupons[i].ID < coupons[j].ID
			}
		})
	default:
		sort.SliceStable(coupons, func(i, j int) bool {
			return coupons[i].ID < coupons[j].ID
		})
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
