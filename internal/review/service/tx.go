package service

import (
	"context"
	"sync"
	"time"

	dErrors "aseara/pkg/domain-errors"
)

// StoreTx provides the transactional boundary for a review action: the
// scope check, transition guard and row update commit together or not at
// all. cmd/server wires a database transaction; the default serializes
// actions with a mutex for the in-memory stores.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

const defaultTxTimeout = 5 * time.Second

type inMemoryTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

func newInMemoryTx() *inMemoryTx {
	return &inMemoryTx{timeout: defaultTxTimeout}
}

func (t *inMemoryTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}
