package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repos fall back to their own handle when Tx is nil, so single-read calls
// work without opening a transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// DB resolves the handle to run against: the bundled transaction when one is
// open, otherwise the fallback.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	if c.Tx != nil {
		return c.Tx
	}
	return fallback
}
