// internal/domain/coupon.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"coupon-manager/internal/util"
)

// CouponState is the stored lifecycle state of a coupon.
type CouponState string

const (
	CouponStateUnused CouponState = "UNUSED"
	CouponStateUsed   CouponState = "USED"
)

// ExpiringSoonWindowDays is the inclusive look-ahead of the expiring-soon view.
const ExpiringSoonWindowDays = 7

func init() {
	// discountPercentage goes over the wire as a JSON number, not a string.
	decimal.MarshalJSONWithoutQuotes = true
}

// Coupon represents a discount coupon record.
type Coupon struct {
	ID                 int64           `db:"id" json:"id"`                                   // Primary key, BIGSERIAL in DB
	Code               string          `db:"code" json:"code"`                               // Unique, case-sensitive
	Description        string          `db:"description" json:"description"`                 // Free-form description
	Store              string          `db:"store" json:"store"`                             // Store or website
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discountPercentage"` // Strictly positive
	Category           *string         `db:"category" json:"category"`                       // Optional
	ExpiryDate         *Date           `db:"expiry_date" json:"expiryDate"`                  // Optional calendar date
	IsUsed             bool            `db:"is_used" json:"isUsed"`
	Notes              *string         `db:"notes" json:"notes"`           // Optional
	CreatedAt          Date            `db:"created_at" json:"createdAt"` // Set once at creation
}

// CouponDraft carries the caller-supplied, mutable fields of a coupon.
// It is the payload of both create and full-field update.
type CouponDraft struct {
	Code               string
	Description        string
	Store              string
	DiscountPercentage decimal.Decimal
	Category           *string
	ExpiryDate         *Date
	IsUsed             bool
	Notes              *string
}

// Validate checks the field constraints a coupon must always satisfy.
func (d CouponDraft) Validate() error {
	switch {
	case strings.TrimSpace(d.Code) == "":
		return fmt.Errorf("%w: code is required", util.ErrInvalidInput)
	case strings.TrimSpace(d.Description) == "":
		return fmt.Errorf("%w: description is required", util.ErrInvalidInput)
	case strings.TrimSpace(d.Store) == "":
		return fmt.Errorf("%w: store is required", util.ErrInvalidInput)
	case !d.DiscountPercentage.IsPositive():
		return fmt.Errorf("%w: discount percentage must be positive", util.ErrInvalidInput)
	}
	return nil
}

// NewCoupon builds an unused coupon from a draft, stamped with createdAt.
// The draft's IsUsed flag is ignored: every coupon starts unused.
func NewCoupon(d CouponDraft, createdAt Date) *Coupon {
	c := &Coupon{CreatedAt: createdAt}
	c.Apply(d)
	c.IsUsed = false
	return c
}

// Apply overwrites every mutable field with the draft's values.
// ID and CreatedAt are left untouched.
func (c *Coupon) Apply(d CouponDraft) {
	c.Code = d.Code
	c.Description = d.Description
	c.Store = d.Store
	c.DiscountPercentage = d.DiscountPercentage
	c.Category = cloneString(d.Category)
	c.ExpiryDate = cloneDate(d.ExpiryDate)
	c.IsUsed = d.IsUsed
	c.Notes = cloneString(d.Notes)
}

// MarkUsed moves the coupon to the used state. Calling it on a used coupon is a no-op.
func (c *Coupon) MarkUsed() {
	c.IsUsed = true
}

// State returns the stored lifecycle state.
func (c *Coupon) State() CouponState {
	if c.IsUsed {
		return CouponStateUsed
	}
	return CouponStateUnused
}

// IsExpired reports whether the coupon has an expiry date strictly before today.
func (c *Coupon) IsExpired(today Date) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(today)
}

// IsActive reports whether the coupon is unused and not expired on today.
// Coupons without an expiry date never expire.
func (c *Coupon) IsActive(today Date) bool {
	return !c.IsUsed && !c.IsExpired(today)
}

// Clone returns a deep copy that shares no pointers with c.
func (c Coupon) Clone() Coupon {
	c.Category = cloneString(c.Category)
	c.ExpiryDate = cloneDate(c.ExpiryDate)
	c.Notes = cloneString(c.Notes)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
