// Package storage holds the byte-level stores that back an object database.
//
// A store maps an object id to an opaque record. It never interprets the
// record: encoding, hashing and verification happen one layer up. Every
// implementation must treat a key as immutable once written, because keys are
// derived from the content they address.
package storage

import (
	"context"

	"github.com/grafana/gitobject/protocol/hash"
)

// ObjectStorage is a content-addressed key/value store.
//
// Put must be idempotent: writing the same bytes under an existing key
// succeeds, while writing different bytes fails with ErrObjectAlreadyExists.
// Get returns ErrObjectNotFound for missing keys. Delete of a missing key is
// not an error.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -o mocks/object_storage.go . ObjectStorage
type ObjectStorage interface {
	// Get returns a copy of the record stored under key.
	Get(ctx context.Context, key hash.Hash) ([]byte, error)
	// Put stores data under key.
	Put(ctx context.Context, key hash.Hash, data []byte) error
	// Has reports whether key is present.
	Has(ctx context.Context, key hash.Hash) (bool, error)
	// Delete removes key.
	Delete(ctx context.Context, key hash.Hash) error
	// Keys returns every key in ascending byte order.
	Keys(ctx context.Context) ([]hash.Hash, error)
}
