package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/multierr"
)

const (
	objectsDir   = "objects"
	lockFileName = ".lock"
	tempPattern  = ".tmp-*"
)

// LooseStorage stores each record as a zlib-compressed file under a two
// character fan-out directory: <root>/objects/ab/cdef0123...
//
// Writes go to a temporary file first and are renamed into place, so readers
// never observe a partial record.
type LooseStorage struct {
	root  string
	level int
}

// LooseOption configures a LooseStorage.
type LooseOption func(*LooseStorage)

// WithCompressionLevel sets the zlib level used for new records.
// Valid values range from zlib.HuffmanOnly to zlib.BestCompression.
func WithCompressionLevel(level int) LooseOption {
	return func(s *LooseStorage) {
		s.level = level
	}
}

// NewLooseStorage creates a LooseStorage rooted at root. The directory layout
// is created lazily on first write; use InitLoose to create it up front.
func NewLooseStorage(root string, opts ...LooseOption) *LooseStorage {
	s := &LooseStorage{
		root:  root,
		level: zlib.DefaultCompression,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// InitLoose creates the directory layout of a loose store at root. It holds a
// file lock while doing so, which makes concurrent initialization safe.
// Initializing an existing store is a no-op.
func InitLoose(ctx context.Context, root string) (retErr error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create store root: %w", err)
	}

	lock := flock.New(filepath.Join(root, lockFileName))
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock store %q: %w", root, err)
	}
	if !locked {
		return fmt.Errorf("could not lock store %q", root)
	}
	defer func() {
		retErr = multierr.Append(retErr, lock.Unlock())
	}()

	if err := os.MkdirAll(filepath.Join(root, objectsDir), 0o755); err != nil {
		return fmt.Errorf("create objects directory: %w", err)
	}

	return nil
}

// Root returns the directory the store lives in.
func (s *LooseStorage) Root() string {
	return s.root
}

func (s *LooseStorage) objectPath(key hash.Hash) string {
	hex := key.String()
	return filepath.Join(s.root, objectsDir, hex[:2], hex[2:])
}

func (s *LooseStorage) Get(ctx context.Context, key hash.Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.objectPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewObjectNotFoundError(key)
		}
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress object %s: %w", key, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress object %s: %w", key, err)
	}

	return data, nil
}

func (s *LooseStorage) Put(ctx context.Context, key hash.Hash, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := s.Get(ctx, key)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			return nil
		}
		return NewObjectAlreadyExistsError(key)
	case !errors.Is(err, ErrObjectNotFound):
		return err
	}

	dest := s.objectPath(key)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := s.compress(tmp, data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("object write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("object write rename: %w", err)
	}

	return nil
}

func (s *LooseStorage) compress(w io.Writer, data []byte) error {
	zw, err := zlib.NewWriterLevel(w, s.level)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return err
	}

	return zw.Close()
}

func (s *LooseStorage) Has(ctx context.Context, key hash.Hash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.objectPath(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat object %s: %w", key, err)
	}
}

func (s *LooseStorage) Delete(ctx context.Context, key hash.Hash) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.objectPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

func (s *LooseStorage) Keys(ctx context.Context) ([]hash.Hash, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := filepath.Join(s.root, objectsDir)
	fanout, err := os.ReadDir(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []hash.Hash{}, nil
		}
		return nil, fmt.Errorf("list objects: %w", err)
	}

	keys := make([]hash.Hash, 0)
	for _, dir := range fanout {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !dir.IsDir() || len(dir.Name()) != 2 {
			continue
		}

		files, err := os.ReadDir(filepath.Join(base, dir.Name()))
		if err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", dir.Name(), err)
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			// Leftover temporary files and anything else foreign fail to parse.
			key, err := hash.FromHex(dir.Name() + file.Name())
			if err != nil {
				continue
			}
			keys = append(keys, key)
		}
	}

	slices.SortFunc(keys, hash.Hash.Compare)
	return keys, nil
}
