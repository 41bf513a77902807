package app

import (
	"context"
	"io"
	"log"
	"time"
)

const (
	// DefaultMaxRetries is the number of additional attempts after the
	// first failure (3 attempts total).
	DefaultMaxRetries = 2

	// DefaultBackoff is the fixed wait between attempts. Backoff is flat,
	// not exponential.
	DefaultBackoff = 2 * time.Second
)

// Retrier retries a failed call a bounded number of times with fixed backoff.
// On exhaustion the call degrades to "no data" instead of propagating, so a
// flaky page or detail fetch costs one record, not the whole run.
type Retrier struct {
	MaxRetries int
	Backoff    time.Duration
	Logger     *log.Logger
}

// NewRetrier creates a retrier with the default attempt count and backoff.
func NewRetrier(logger *log.Logger) *Retrier {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Retrier{
		MaxRetries: DefaultMaxRetries,
		Backoff:    DefaultBackoff,
		Logger:     logger,
	}
}

// Attempt invokes op up to r.MaxRetries+1 times. It returns the first
// successful value with ok=true. On exhaustion it returns the zero value with
// ok=false and a nil error: the caller must treat that as "no data this call"
// (an empty page, a skipped record).
//
// Two failures are never absorbed: a *QuotaExceededError from the rate
// governor and context cancellation. Both return a non-nil error that aborts
// the run.
func Attempt[T any](ctx context.Context, r *Retrier, desc string, op func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	attempts := r.MaxRetries + 1
	for i := 1; i <= attempts; i++ {
		v, err := op(ctx)
		if err == nil {
			return v, true, nil
		}
		if IsQuotaExceeded(err) {
			return zero, false, err
		}
		if ctx.Err() != nil {
			return zero, false, ctx.Err()
		}
		r.Logger.Printf("WARN %s failed (%d/%d): %v", desc, i, attempts, err)
		if i < attempts {
			if serr := sleepCtx(ctx, r.Backoff); serr != nil {
				return zero, false, serr
			}
		}
	}
	r.Logger.Printf("ERROR %s failed for good, continuing without data", desc)
	return zero, false, nil
}
