package gitobject

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/grafana/gitobject/log"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/grafana/gitobject/storage"
	"golang.org/x/sync/errgroup"
)

// ObjectDB reads and writes typed objects through an ObjectStorage.
//
// Each object is stored as "<type> <size>\x00<encoding>" under the hash of
// its encoding. Reads check that hash by default, so a corrupted or
// misplaced record is reported as ErrHashMismatch instead of being returned.
// Objects of different kinds with equal encodings share one record.
type ObjectDB struct {
	store       storage.ObjectStorage
	logger      log.Logger
	verify      bool
	concurrency int
}

// NewObjectDB creates an ObjectDB on top of store.
func NewObjectDB(store storage.ObjectStorage, options ...Option) (*ObjectDB, error) {
	if store == nil {
		return nil, errors.New("storage cannot be nil")
	}

	db := &ObjectDB{
		store:       store,
		logger:      log.Noop(),
		verify:      true,
		concurrency: runtime.GOMAXPROCS(0),
	}

	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Storage returns the underlying store.
func (db *ObjectDB) Storage() storage.ObjectStorage {
	return db.store
}

// getLogger prefers the logger carried by ctx.
func (db *ObjectDB) getLogger(ctx context.Context) log.Logger {
	if logger := log.GetContextLogger(ctx); logger != nil {
		return logger
	}

	return db.logger
}

// Write validates, encodes and stores obj, returning its id. Writing an
// object whose encoding is already present is a no-op, whatever kind the
// existing record was written as.
func (db *ObjectDB) Write(ctx context.Context, obj Object) (hash.Hash, error) {
	if v, ok := obj.(validator); ok {
		if err := v.Validate(); err != nil {
			return hash.Zero, fmt.Errorf("invalid %s: %w", obj.Type().Bytes(), err)
		}
	}

	body := obj.Bytes()
	id := hash.Sum(body)

	err := db.store.Put(ctx, id, encodeRecord(obj.Type(), body))
	if errors.Is(err, ErrObjectAlreadyExists) {
		err = db.matchStored(ctx, id, body, err)
	}
	if err != nil {
		return hash.Zero, fmt.Errorf("store %s %s: %w", obj.Type().Bytes(), id, err)
	}

	db.getLogger(ctx).Debug("Object written", "id", id.String(), "type", obj.Type().String(), "size", len(body))

	return id, nil
}

// matchStored resolves a conflicting put. Records of different kinds may share
// an encoding, and then they are the same object.
func (db *ObjectDB) matchStored(ctx context.Context, id hash.Hash, body []byte, conflict error) error {
	t, stored, err := db.readRecord(ctx, id)
	if err != nil || !bytes.Equal(stored, body) {
		return conflict
	}

	db.getLogger(ctx).Debug("Object already stored", "id", id.String(), "stored_type", t.String())
	return nil
}

// WriteAll writes objs in parallel and returns their ids in the same order.
// It stops at the first failure.
func (db *ObjectDB) WriteAll(ctx context.Context, objs ...Object) ([]hash.Hash, error) {
	ids := make([]hash.Hash, len(objs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(db.concurrency)
	for i, obj := range objs {
		g.Go(func() error {
			id, err := db.Write(ctx, obj)
			if err != nil {
				return fmt.Errorf("object %d: %w", i, err)
			}
			ids[i] = id
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ids, nil
}

// Has reports whether id is present in the store.
func (db *ObjectDB) Has(ctx context.Context, id hash.Hash) (bool, error) {
	return db.store.Has(ctx, id)
}

// ReadHeader returns the kind and encoded size of the object stored under id
// without decoding it.
func (db *ObjectDB) ReadHeader(ctx context.Context, id hash.Hash) (object.Type, int, error) {
	t, body, err := db.readRecord(ctx, id)
	if err != nil {
		return object.TypeInvalid, 0, err
	}

	return t, len(body), nil
}

// ReadRaw returns the kind and canonical encoding of the object stored under id.
func (db *ObjectDB) ReadRaw(ctx context.Context, id hash.Hash) (object.Type, []byte, error) {
	t, body, err := db.readRecord(ctx, id)
	if err != nil {
		return object.TypeInvalid, nil, err
	}

	if db.verify {
		if actual := hash.Sum(body); !actual.Is(id) {
			return object.TypeInvalid, nil, NewHashMismatchError(id, actual)
		}
	}

	return t, body, nil
}

func (db *ObjectDB) readRecord(ctx context.Context, id hash.Hash) (object.Type, []byte, error) {
	record, err := db.store.Get(ctx, id)
	if err != nil {
		return object.TypeInvalid, nil, fmt.Errorf("load %s: %w", id, err)
	}

	t, body, err := decodeRecord(record)
	if err != nil {
		return object.TypeInvalid, nil, fmt.Errorf("load %s: %w", id, err)
	}

	return t, body, nil
}

// Read loads and decodes the object stored under id.
func (db *ObjectDB) Read(ctx context.Context, id hash.Hash) (Object, error) {
	t, body, err := db.readRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	return db.decode(ctx, id, t, body)
}

func (db *ObjectDB) decode(ctx context.Context, id hash.Hash, t object.Type, body []byte) (Object, error) {
	var (
		obj Object
		err error
	)
	if db.verify {
		obj, err = DecodeObjectVerified(t, id, body)
	} else {
		obj, err = DecodeObject(t, body)
	}
	if err != nil {
		db.getLogger(ctx).Debug("Object decode failed", "id", id.String(), "type", t.String(), "error", err)
		return nil, fmt.Errorf("decode %s %s: %w", t.Bytes(), id, err)
	}

	return obj, nil
}

// readAs loads the object stored under id as kind want. A record written as
// another kind is decoded as want when its encoding allows it, and fails with
// ErrUnexpectedObjectType otherwise.
func (db *ObjectDB) readAs(ctx context.Context, id hash.Hash, want object.Type) (Object, error) {
	t, body, err := db.readRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if t != want && !decodesAs(want, body) {
		return nil, NewUnexpectedObjectTypeError(id, want, t)
	}

	return db.decode(ctx, id, want, body)
}

// decodesAs reports whether body is a valid encoding of kind t.
func decodesAs(t object.Type, body []byte) bool {
	_, err := DecodeObject(t, body)
	return err == nil
}

// ReadBlob loads the blob stored under id.
func (db *ObjectDB) ReadBlob(ctx context.Context, id hash.Hash) (*Blob, error) {
	obj, err := db.readAs(ctx, id, object.TypeBlob)
	if err != nil {
		return nil, err
	}

	return obj.(*Blob), nil
}

// ReadTree loads the tree stored under id.
func (db *ObjectDB) ReadTree(ctx context.Context, id hash.Hash) (*Tree, error) {
	obj, err := db.readAs(ctx, id, object.TypeTree)
	if err != nil {
		return nil, err
	}

	return obj.(*Tree), nil
}

// ReadCommit loads the commit stored under id.
func (db *ObjectDB) ReadCommit(ctx context.Context, id hash.Hash) (*Commit, error) {
	obj, err := db.readAs(ctx, id, object.TypeCommit)
	if err != nil {
		return nil, err
	}

	return obj.(*Commit), nil
}

// ReadTag loads the tag stored under id.
func (db *ObjectDB) ReadTag(ctx context.Context, id hash.Hash) (*Tag, error) {
	obj, err := db.readAs(ctx, id, object.TypeTag)
	if err != nil {
		return nil, err
	}

	return obj.(*Tag), nil
}

// PeelToTree follows tags and commits from id until it reaches a tree.
func (db *ObjectDB) PeelToTree(ctx context.Context, id hash.Hash) (hash.Hash, error) {
	current := id
	for {
		t, body, err := db.readRecord(ctx, current)
		if err != nil {
			return hash.Zero, err
		}

		switch t {
		case object.TypeTree:
			return current, nil
		case object.TypeCommit:
			commit, err := db.ReadCommit(ctx, current)
			if err != nil {
				return hash.Zero, err
			}
			current = commit.Tree
		case object.TypeTag:
			tag, err := db.ReadTag(ctx, current)
			if err != nil {
				return hash.Zero, err
			}
			current = tag.Object
		default:
			// A referenced tree may have been stored first as a blob.
			if current != id && decodesAs(object.TypeTree, body) {
				return current, nil
			}
			return hash.Zero, NewUnexpectedObjectTypeError(current, object.TypeTree, t)
		}
	}
}
