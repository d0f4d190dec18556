// Package retry retries store calls that fail transiently. The retrier
// travels in the context next to the logger, so one store serves callers
// that want retries and callers that do not:
//
//	ctx = retry.ToContext(ctx, retry.NewExponentialBackoffRetrier().WithMaxAttempts(5))
//	data, err := retry.Do(ctx, func() ([]byte, error) { return store.Get(ctx, id) })
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Retrier decides whether a failed attempt is tried again, and how long to
// wait before it is.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -o mocks/retrier.go . Retrier
type Retrier interface {
	// ShouldRetry reports whether err, returned by the 1-indexed attempt,
	// is worth another try.
	ShouldRetry(err error, attempt int) bool

	// Wait blocks before the attempt that follows attempt. It returns early
	// with the context error when ctx is done.
	Wait(ctx context.Context, attempt int) error

	// MaxAttempts counts the first attempt too. Zero or less means no limit.
	MaxAttempts() int
}

// NoopRetrier runs every call exactly once.
type NoopRetrier struct{}

func (r *NoopRetrier) ShouldRetry(err error, attempt int) bool    { return false }
func (r *NoopRetrier) Wait(ctx context.Context, attempt int) error { return nil }
func (r *NoopRetrier) MaxAttempts() int                            { return 1 }

const (
	defaultAttempts     = 3
	defaultInitialDelay = 100 * time.Millisecond
	defaultMaxDelay     = 5 * time.Second
	defaultMultiplier   = 2.0
	defaultJitter       = 0.5
)

// ExponentialBackoffRetrier retries transient failures (see IsTransient),
// multiplying its delay after every attempt up to MaxDelay.
type ExponentialBackoffRetrier struct {
	// Attempts includes the first one. Zero or less falls back to 3.
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter is the fraction of each delay that is randomized, in [0, 1].
	Jitter float64
}

// NewExponentialBackoffRetrier returns a retrier making 3 attempts, waiting
// 100ms then 200ms with half of each delay randomized.
func NewExponentialBackoffRetrier() *ExponentialBackoffRetrier {
	return &ExponentialBackoffRetrier{
		Attempts:     defaultAttempts,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
		Multiplier:   defaultMultiplier,
		Jitter:       defaultJitter,
	}
}

func (r *ExponentialBackoffRetrier) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt > r.MaxAttempts() {
		return false
	}

	var permanent *PermanentError
	if errors.As(err, &permanent) {
		return false
	}

	return IsTransient(err)
}

// Delay is the upper bound of the wait after attempt, before jitter.
func (r *ExponentialBackoffRetrier) Delay(attempt int) time.Duration {
	multiplier := r.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := float64(r.InitialDelay) * math.Pow(multiplier, float64(attempt-1))
	if r.MaxDelay > 0 && delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}

	return time.Duration(delay)
}

func (r *ExponentialBackoffRetrier) Wait(ctx context.Context, attempt int) error {
	delay := r.Delay(attempt)
	if jitter := min(max(r.Jitter, 0), 1); jitter > 0 {
		delay -= time.Duration(rand.Float64() * jitter * float64(delay))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *ExponentialBackoffRetrier) MaxAttempts() int {
	if r.Attempts <= 0 {
		return defaultAttempts
	}
	return r.Attempts
}

func (r *ExponentialBackoffRetrier) WithMaxAttempts(attempts int) *ExponentialBackoffRetrier {
	r.Attempts = attempts
	return r
}

func (r *ExponentialBackoffRetrier) WithInitialDelay(delay time.Duration) *ExponentialBackoffRetrier {
	r.InitialDelay = delay
	return r
}

func (r *ExponentialBackoffRetrier) WithMaxDelay(delay time.Duration) *ExponentialBackoffRetrier {
	r.MaxDelay = delay
	return r
}

func (r *ExponentialBackoffRetrier) WithMultiplier(multiplier float64) *ExponentialBackoffRetrier {
	r.Multiplier = multiplier
	return r
}

// WithJitter sets the randomized fraction of each delay. Zero makes waits exact.
func (r *ExponentialBackoffRetrier) WithJitter(fraction float64) *ExponentialBackoffRetrier {
	r.Jitter = fraction
	return r
}
