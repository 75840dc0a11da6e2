// internal/repository/postgres/errors.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"coupon-manager/internal/util"
)

const (
	uniqueViolation = pq.ErrorCode("23505")
	checkViolation  = pq.ErrorCode("23514")
)

// Unique constraint names declared in pkg/db/schema.sql.
const (
	constraintCouponCode   = "coupons_code_key"
	constraintUserUsername = "users_username_key"
	constraintUserEmail    = "users_email_key"
)

// mapConstraintError translates unique and check violations into domain errors.
// Any other error is returned unchanged.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if pqErr.Code == checkViolation {
		return fmt.Errorf("%w: %s violates %s", util.ErrInvalidInput, pqErr.Table, pqErr.Constraint)
	}
	if pqErr.Code != uniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case constraintCouponCode:
		return util.ErrDuplicateCode
	case constraintUserUsername:
		return util.ErrDuplicateUsername
	case constraintUserEmail:
		return util.ErrDuplicateEmail
	}
	return err
}
