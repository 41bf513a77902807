package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

const (
	// DefaultSpacing is the minimum gap between admitted requests,
	// targeting 3 requests per second: ceil(1000/3) milliseconds.
	DefaultSpacing = 334 * time.Millisecond

	// DefaultDailyLimit is the rolling daily request ceiling enforced by
	// the remote API.
	DefaultDailyLimit = 120_000
)

// RateGovernor wraps every outbound API call. It enforces the minimum
// inter-request spacing and the daily request ceiling. Spacing is measured
// from the completion of the previous wrapped call, so a slow call does not
// also pay the spacing penalty.
//
// The governor is an explicit stateful object shared by all call sites of a
// run. The run is single-threaded, so no locking is needed.
type RateGovernor struct {
	spacing time.Duration
	limit   int
	clock   secondary.Clock

	lastDone time.Time  // completion time of the previous wrapped call
	count    int        // admissions on the current UTC day
	day      models.Day // UTC day the counter belongs to
	total    int        // admissions over the governor's lifetime
}

// NewRateGovernor creates a governor with the default spacing and daily
// limit.
func NewRateGovernor(clock secondary.Clock) *RateGovernor {
	return NewRateGovernorWithLimits(clock, DefaultSpacing, DefaultDailyLimit)
}

// NewRateGovernorWithLimits creates a governor with explicit spacing and
// daily limit. Used by tests and by configs that lower the ceiling.
func NewRateGovernorWithLimits(clock secondary.Clock, spacing time.Duration, limit int) *RateGovernor {
	return &RateGovernor{
		spacing: spacing,
		limit:   limit,
		clock:   clock,
	}
}

// Do admits one call and runs it. It suspends the caller until the spacing
// interval from the previous call's completion has elapsed, then invokes fn.
// When the daily ceiling is exceeded it fails with *QuotaExceededError before
// invoking fn; that error is fatal and must terminate the run.
func (g *RateGovernor) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := g.admit(ctx); err != nil {
		return err
	}
	err := fn(ctx)
	g.lastDone = g.clock.Now()
	return err
}

// RequestCount returns the number of admissions over the governor's
// lifetime. Used for the run report.
func (g *RateGovernor) RequestCount() int {
	return g.total
}

func (g *RateGovernor) admit(ctx context.Context) error {
	now := g.clock.Now()

	// The counter resets when the observed UTC calendar day changes,
	// not on a background timer.
	today := models.DayOf(now)
	if !today.Equal(g.day) {
		g.day = today
		g.count = 0
	}

	g.count++
	g.total++
	if g.count > g.limit {
		return &QuotaExceededError{Day: today, Count: g.count, Limit: g.limit}
	}

	if !g.lastDone.IsZero() {
		if next := g.lastDone.Add(g.spacing); now.Before(next) {
			if err := sleepCtx(ctx, next.Sub(now)); err != nil {
				return err
			}
		}
	}
	return nil
}

// QuotaExceededError is returned when a run exhausts the daily request
// ceiling. Unlike transient call failures it is never retried and never
// degraded to "no data": it propagates to the process boundary and the
// checkpoint is not advanced.
type QuotaExceededError struct {
	Day   models.Day
	Count int
	Limit int
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily request limit reached on %s: %d admissions > %d limit",
		e.Day, e.Count, e.Limit)
}

// IsQuotaExceeded reports whether the error is a QuotaExceededError.
// Uses errors.As to handle wrapped errors.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// sleepCtx suspends the caller for d, returning early with the context's
// error on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
