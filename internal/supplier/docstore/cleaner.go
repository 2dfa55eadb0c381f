package docstore

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner deletes replaced blobs in the background. Replacement deletes are
// best-effort by contract, but failures must not be silently swallowed:
// they are logged and retried a bounded number of times before being given
// up on (and logged one final time for operator follow-up).
type Cleaner struct {
	blobs      BlobStore
	logger     *slog.Logger
	inbox      chan cleanupJob
	maxRetries int
	retryDelay time.Duration
	reportFail func()
}

type cleanupJob struct {
	key      string
	attempts int
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner)

// WithRetryDelay overrides the delay between delete attempts.
func WithRetryDelay(d time.Duration) CleanerOption {
	return func(c *Cleaner) { c.retryDelay = d }
}

// WithFailureHook registers a callback fired when a delete is abandoned,
// used to feed the cleanup-failure metric.
func WithFailureHook(fn func()) CleanerOption {
	return func(c *Cleaner) { c.reportFail = fn }
}

// NewCleaner builds a cleanup worker over the given blob backend.
func NewCleaner(blobs BlobStore, logger *slog.Logger, opts ...CleanerOption) *Cleaner {
	c := &Cleaner{
		blobs:      blobs,
		logger:     logger,
		inbox:      make(chan cleanupJob, 256),
		maxRetries: 3,
		retryDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enqueue schedules a replaced blob key for deletion. Never blocks the
// request path: when the inbox is full the key is logged and dropped.
func (c *Cleaner) Enqueue(key string) {
	if key == "" {
		return
	}
	select {
	case c.inbox <- cleanupJob{key: key}:
	default:
		c.logger.Warn("blob cleanup queue full, dropping key", "key", key)
		if c.reportFail != nil {
			c.reportFail()
		}
	}
}

// Run processes cleanup jobs until ctx is cancelled.
func (c *Cleaner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-c.inbox:
			c.process(ctx, job)
		}
	}
}

func (c *Cleaner) process(ctx context.Context, job cleanupJob) {
	err := c.blobs.Delete(ctx, job.key)
	if err == nil {
		return
	}
	job.attempts++
	if job.attempts >= c.maxRetries {
		c.logger.Error("abandoning blob cleanup after retries",
			"key", job.key,
			"attempts", job.attempts,
			"error", err,
		)
		if c.reportFail != nil {
			c.reportFail()
		}
		return
	}
	c.logger.Warn("blob cleanup failed, will retry",
		"key", job.key,
		"attempt", job.attempts,
		"error", err,
	)
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
		c.process(ctx, job)
	}
}
