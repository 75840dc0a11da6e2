package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schema string

// Schema returns the DDL applied by EnsureSchema.
func Schema() string { return schema }

// EnsureSchema creates the coupons and users tables if they are missing.
// The DDL runs in one transaction so a partial schema is never left behind.
func EnsureSchema(ctx context.Context, dbConn DBTxBeginner) error {
	tx, err := BeginTx(ctx, dbConn)
	if err != nil {
		return fmt.Errorf("ensure schema: failed to begin transaction: %w", err)
	}
	return applyDDL(ctx, tx, schema)
}

// applyDDL executes ddl on tx and commits. A failed rollback is reported
// alongside the error that caused it.
func applyDDL(ctx context.Context, tx TxController, ddl string) (err error) {
	defer func() {
		if rbErr := RollbackTx(tx); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("ensure schema: failed to roll back: %w", rbErr))
		}
	}()

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: failed to apply DDL: %w", err)
	}
	if err := CommitTx(tx); err != nil {
		return fmt.Errorf("ensure schema: failed to commit: %w", err)
	}
	return nil
}
