package storage

import (
	"context"
	"errors"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/retry"
)

// RetryingStorage wraps another storage and retries failed calls with the
// retrier found in the context. Without a retrier in the context every call
// is attempted once.
//
// Not-found and already-exists outcomes are final and are never retried.
type RetryingStorage struct {
	inner ObjectStorage
}

// NewRetryingStorage wraps inner with context-driven retries.
func NewRetryingStorage(inner ObjectStorage) *RetryingStorage {
	return &RetryingStorage{inner: inner}
}

// Unwrap returns the wrapped storage.
func (s *RetryingStorage) Unwrap() ObjectStorage {
	return s.inner
}

func (s *RetryingStorage) Get(ctx context.Context, key hash.Hash) ([]byte, error) {
	return retry.Do(ctx, func() ([]byte, error) {
		data, err := s.inner.Get(ctx, key)
		return data, final(err)
	})
}

func (s *RetryingStorage) Put(ctx context.Context, key hash.Hash, data []byte) error {
	return retry.DoVoid(ctx, func() error {
		return final(s.inner.Put(ctx, key, data))
	})
}

func (s *RetryingStorage) Has(ctx context.Context, key hash.Hash) (bool, error) {
	return retry.Do(ctx, func() (bool, error) {
		return s.inner.Has(ctx, key)
	})
}

func (s *RetryingStorage) Delete(ctx context.Context, key hash.Hash) error {
	return retry.DoVoid(ctx, func() error {
		return s.inner.Delete(ctx, key)
	})
}

func (s *RetryingStorage) Keys(ctx context.Context) ([]hash.Hash, error) {
	return retry.Do(ctx, func() ([]hash.Hash, error) {
		return s.inner.Keys(ctx)
	})
}

// final marks outcomes that no amount of retrying can change.
func final(err error) error {
	if errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrObjectAlreadyExists) {
		return retry.Permanent(err)
	}

	return err
}
