package storage

import "context"

// objectStorageKey is the key for the object storage in the context.
type objectStorageKey struct{}

// ToContext stores the object storage in the context.
func ToContext(ctx context.Context, storage ObjectStorage) context.Context {
	return context.WithValue(ctx, objectStorageKey{}, storage)
}

// FromContext gets the object storage from the context.
func FromContext(ctx context.Context) ObjectStorage {
	storage, ok := ctx.Value(objectStorageKey{}).(ObjectStorage)
	if !ok {
		return nil
	}

	return storage
}

// FromContextOrInMemory returns the storage found in the context. When there
// is none, a new in-memory storage is created and attached to the returned context.
func FromContextOrInMemory(ctx context.Context) (context.Context, ObjectStorage) {
	if storage := FromContext(ctx); storage != nil {
		return ctx, storage
	}

	storage := NewInMemoryStorage()
	return ToContext(ctx, storage), storage
}
