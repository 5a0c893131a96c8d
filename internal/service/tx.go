package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx wraps fn in a database transaction. A nil db runs fn directly with a
// nil tx, which is what the in-memory stub repositories expect in unit tests.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
