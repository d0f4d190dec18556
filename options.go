package gitobject

import (
	"errors"

	"github.com/grafana/gitobject/log"
)

// Option configures an ObjectDB during creation.
type Option func(*ObjectDB) error

// WithLogger configures a custom logger for the ObjectDB.
// A logger found in the context of a call takes precedence over this one.
// If not provided, a no-op logger will be used by default.
func WithLogger(logger log.Logger) Option {
	return func(db *ObjectDB) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		db.logger = logger
		return nil
	}
}

// WithVerification controls whether reads check that a record hashes to
// the id it was requested under. Verification is on by default.
func WithVerification(enabled bool) Option {
	return func(db *ObjectDB) error {
		db.verify = enabled
		return nil
	}
}

// WithConcurrency bounds the number of store calls WriteAll and Verify run in parallel.
func WithConcurrency(n int) Option {
	return func(db *ObjectDB) error {
		if n < 1 {
			return errors.New("concurrency must be at least 1")
		}
		db.concurrency = n
		return nil
	}
}
