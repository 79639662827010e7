package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// esConflictoSerializacion detects a Postgres serialization failure
// (SQLSTATE 40001) or deadlock (40P01). The store guarantees no partial
// commit on these, so the operation may be retried from scratch.
func esConflictoSerializacion(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") || strings.Contains(msg, "40P01")
}

// runTxRetry runs fn like runTx and retries ONCE on a serialization
// conflict. fn must re-read its preconditions on every attempt — nothing from
// the failed attempt was committed.
func runTxRetry(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := runTx(ctx, db, fn)
	if esConflictoSerializacion(err) {
		err = runTx(ctx, db, fn)
		if esConflictoSerializacion(err) {
			return ErrConflicto
		}
	}
	return err
}
