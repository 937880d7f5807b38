// Package repokit holds the seams repositories bind against and the
// transaction helpers services wrap them with
package repokit

import (
	"context"
	"fmt"
	"time"

	"tubeport/internal/platform/store"
)

type (
	// Queryer is the statement surface a repo is bound to
	Queryer = store.RowQuerier
	// TxRunner runs fn inside a transaction
	TxRunner = store.TxRunner
)

// Binder binds a domain repo to a Queryer, usually the one of the current tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a func to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// DefaultGuardTimeout bounds MustGuard when ctx has no deadline
const DefaultGuardTimeout = 5 * time.Second

// MustGuard panics unless every configured backend of st answers. Process start only
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if _, ok := ctx.Deadline(); !ok {
		c, cancel := context.WithTimeout(ctx, DefaultGuardTimeout)
		defer cancel()
		ctx = c
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Sprintf("store not ready: %v", err))
	}
}
