package service

import (
	"context"
	"sync"
	"time"

	dErrors "aseara/pkg/domain-errors"
)

// StoreTx provides the transactional boundary for a submission: field
// writes, document upserts and the status transition commit together or
// not at all. Implementations wrap a database transaction (cmd/server) or,
// in-memory, a coarse lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// defaultTxTimeout bounds a submission transaction.
const defaultTxTimeout = 5 * time.Second

// inMemoryTx serializes submissions with a single mutex. Good enough for
// the in-memory store, where contention is test-only.
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
