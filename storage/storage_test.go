package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStorageContract checks the behaviour every ObjectStorage must share.
func runStorageContract(t *testing.T, newStore func(t *testing.T) storage.ObjectStorage) {
	ctx := context.Background()
	first := hash.Sum([]byte("first"))
	second := hash.Sum([]byte("second"))

	t.Run("Put and Get", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, first, []byte("blob 5\x00first")))

		got, err := store.Get(ctx, first)
		require.NoError(t, err)
		require.Equal(t, []byte("blob 5\x00first"), got)

		ok, err := store.Has(ctx, first)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		store := newStore(t)
		data := []byte("original")
		require.NoError(t, store.Put(ctx, first, data))
		data[0] = 'X'

		got, err := store.Get(ctx, first)
		require.NoError(t, err)
		got[1] = 'Y'

		again, err := store.Get(ctx, first)
		require.NoError(t, err)
		require.Equal(t, []byte("original"), again)
	})

	t.Run("empty records read back non-nil", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, first, nil))

		got, err := store.Get(ctx, first)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("Get of a missing key", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(ctx, first)
		require.ErrorIs(t, err, storage.ErrObjectNotFound)

		var notFound *storage.ObjectNotFoundError
		require.True(t, errors.As(err, &notFound))
		require.Equal(t, first, notFound.ObjectID)

		ok, err := store.Has(ctx, first)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("Put of identical data is idempotent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, first, []byte("same")))
		require.NoError(t, store.Put(ctx, first, []byte("same")))

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		require.Len(t, keys, 1)
	})

	t.Run("Put of different data under a used key", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, first, []byte("one")))

		err := store.Put(ctx, first, []byte("two"))
		require.ErrorIs(t, err, storage.ErrObjectAlreadyExists)

		var exists *storage.ObjectAlreadyExistsError
		require.True(t, errors.As(err, &exists))
		require.Equal(t, first, exists.ObjectID)

		got, err := store.Get(ctx, first)
		require.NoError(t, err)
		require.Equal(t, []byte("one"), got)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, first, []byte("gone soon")))
		require.NoError(t, store.Delete(ctx, first))

		_, err := store.Get(ctx, first)
		require.ErrorIs(t, err, storage.ErrObjectNotFound)

		require.NoError(t, store.Delete(ctx, first), "deleting a missing key is not an error")
	})

	t.Run("Keys are sorted", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, second, []byte("2")))
		require.NoError(t, store.Put(ctx, first, []byte("1")))

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		require.Len(t, keys, 2)
		assert.Contains(t, keys, first)
		assert.Contains(t, keys, second)
		assert.Negative(t, keys[0].Compare(keys[1]))
	})

	t.Run("Keys of an empty store", func(t *testing.T) {
		keys, err := newStore(t).Keys(ctx)
		require.NoError(t, err)
		require.Empty(t, keys)
	})

	t.Run("cancelled context", func(t *testing.T) {
		store := newStore(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.Get(cancelled, first)
		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, store.Put(cancelled, first, []byte("x")), context.Canceled)
		_, err = store.Has(cancelled, first)
		require.ErrorIs(t, err, context.Canceled)
		_, err = store.Keys(cancelled)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		store := newStore(t)

		var wg sync.WaitGroup
		errs := make([]error, 16)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				data := []byte{byte(i % 4)}
				errs[i] = store.Put(ctx, hash.Sum(data), data)
			}()
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		require.Len(t, keys, 4)
	})
}
