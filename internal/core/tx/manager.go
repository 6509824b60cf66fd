// Package tx decouples the mirror service from the database that backs it.
package tx

import (
	"context"
)

// Manager runs fn inside a transaction. A non-nil error from fn rolls the
// transaction back; nested calls reuse the transaction already in ctx.
//
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for snapshot reads.
type ReadOnlyManager interface {
	Manager
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Func adapts a plain function to Manager. Useful for stores that need no
// transaction, such as in-memory ones.
type Func func(ctx context.Context, fn func(ctx context.Context) error) error

// RunInTransaction calls f.
func (f Func) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// None runs fn directly, without a transaction.
var None Manager = Func(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})
