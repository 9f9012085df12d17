package pkg

import (
	"context"

	"gorm.io/gorm"
)

// WithTx runs fn in one transaction bound to ctx. fn's error, or a panic,
// rolls everything back; reorders and like toggles rely on that to never
// leave a collection half updated.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
