// Package retry implements the bounded fixed-delay retry policy used for
// out-of-band notification dispatch. The policy is plain data so the schedule
// lives in configuration, not in the dispatch logic.
package retry

import (
	"context"
	"time"

	"ticket-gate/internal/pkg/errs"
)

var ErrAttemptsExhausted = errs.New("retry attempts exhausted")

type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs fn up to MaxAttempts times, sleeping Delay between attempts. It stops
// early when fn succeeds or ctx is canceled. The last attempt's error is
// wrapped under ErrAttemptsExhausted.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
	}

	return errs.Mark(lastErr, ErrAttemptsExhausted)
}
