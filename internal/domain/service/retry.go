package service

import (
	"context"
	"time"

	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/errors"
)

// SleepFunc pauses for d or returns early when ctx is canceled. Injected so
// tests exercise the schedule without real waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryResult records what the policy consumed while running one operation.
// The scanner subtracts TotalWait from its pacing interval so backoff time is
// never double-counted.
type RetryResult struct {
	// Attempts is the total number of operation invocations
	Attempts int

	// RateLimitHits counts attempts rejected before a usable payload
	RateLimitHits int

	// TotalWait is the cumulative backoff the policy slept through
	TotalWait time.Duration
}

// WasRateLimited reports whether any attempt hit the rate limiter.
func (r RetryResult) WasRateLimited() bool {
	return r.RateLimitHits > 0
}

// RetryPolicy retries the authenticate step after rate-limited or
// transport-level failures with exponential backoff: base<<n before the n-th
// retry, a fixed number of retries, then exhaustion. It applies to no other
// protocol step.
type RetryPolicy struct {
	base        time.Duration
	maxAttempts int
	sleep       SleepFunc
}

// NewRetryPolicy creates the policy with the fixed production schedule
// (10s, 20s, 40s over 3 attempts).
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		base:        constants.RetryBackoffBase,
		maxAttempts: constants.RetryMaxAttempts,
		sleep:       SleepContext,
	}
}

// NewRetryPolicyWithSleep creates a policy with a custom schedule and sleeper.
func NewRetryPolicyWithSleep(base time.Duration, maxAttempts int, sleep SleepFunc) *RetryPolicy {
	if sleep == nil {
		sleep = SleepContext
	}
	return &RetryPolicy{base: base, maxAttempts: maxAttempts, sleep: sleep}
}

// BackoffSchedule returns the wait applied before each retry, in order.
func (p *RetryPolicy) BackoffSchedule() []time.Duration {
	schedule := make([]time.Duration, 0, p.maxAttempts)
	for i := 0; i < p.maxAttempts; i++ {
		schedule = append(schedule, p.base<<i)
	}
	return schedule
}

// Do runs op, retrying retryable failures per the schedule. It returns the
// last error once the initial attempt and all retries are spent; the caller
// maps that exhaustion to RateLimitExhausted. Non-retryable errors and
// context cancellation return immediately.
func (p *RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) (RetryResult, error) {
	var result RetryResult

	var lastErr error
	for retry := 0; ; retry++ {
		result.Attempts++
		lastErr = op(ctx)
		if lastErr == nil {
			return result, nil
		}
		if errors.IsRateLimited(lastErr) {
			result.RateLimitHits++
		}
		if !errors.IsRetryable(lastErr) || retry >= p.maxAttempts {
			return result, lastErr
		}

		wait := p.base << retry
		if err := p.sleep(ctx, wait); err != nil {
			return result, errors.New(errors.KindInterrupted, "backoff interrupted").WithCause(err)
		}
		result.TotalWait += wait
	}
}

// SleepContext is the production SleepFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
