package storage

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/grafana/gitobject/protocol/hash"
)

// InMemoryStorage keeps records in a map guarded by a mutex.
// It is safe for concurrent use.
type InMemoryStorage struct {
	mu      sync.RWMutex
	objects map[hash.Hash][]byte
}

// NewInMemoryStorage creates an empty in-memory storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		objects: make(map[hash.Hash][]byte),
	}
}

func (s *InMemoryStorage) Get(ctx context.Context, key hash.Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, NewObjectNotFoundError(key)
	}

	return bytes.Clone(data), nil
}

func (s *InMemoryStorage) Put(ctx context.Context, key hash.Hash, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.objects[key]; ok {
		if bytes.Equal(existing, data) {
			return nil
		}
		return NewObjectAlreadyExistsError(key)
	}

	// Never keep nil so that an empty record still reads back as non-nil.
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = stored

	return nil
}

func (s *InMemoryStorage) Has(ctx context.Context, key hash.Hash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[key]
	return ok, nil
}

func (s *InMemoryStorage) Delete(ctx context.Context, key hash.Hash) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

func (s *InMemoryStorage) Keys(ctx context.Context) ([]hash.Hash, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	keys := make([]hash.Hash, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	s.mu.RUnlock()

	slices.SortFunc(keys, hash.Hash.Compare)
	return keys, nil
}

// Len returns the number of records held.
func (s *InMemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}
