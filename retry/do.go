package retry

import (
	"context"
	"errors"
	"fmt"
)

// Do runs fn until it succeeds, the retrier in the context gives up, or the
// context is cancelled. Without a retrier in the context fn runs once.
func Do[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T

	retrier := FromContextOrNoop(ctx)
	maxAttempts := retrier.MaxAttempts()

	var lastErr error
	for attempt := 1; maxAttempts <= 0 || attempt <= maxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		var permanent *PermanentError
		if errors.As(err, &permanent) {
			return zero, permanent.Err
		}

		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("context cancelled: %w", ctxErr)
		}

		if !retrier.ShouldRetry(err, attempt) {
			return zero, err
		}

		if attempt == maxAttempts {
			break
		}

		if err := retrier.Wait(ctx, attempt); err != nil {
			return zero, fmt.Errorf("context cancelled during retry wait: %w", err)
		}
	}

	return zero, fmt.Errorf("max retry attempts (%d) reached: %w", maxAttempts, lastErr)
}

// DoVoid is Do for functions without a result.
func DoVoid(ctx context.Context, fn func() error) error {
	_, err := Do(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	})

	return err
}
