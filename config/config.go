// Package config loads and stores the settings of a gitobject store from a
// TOML file.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/log"
	"github.com/grafana/gitobject/retry"
	"github.com/grafana/gitobject/storage"
	"github.com/klauspost/compress/zlib"
)

// FileName is the name of the config file inside a store directory.
const FileName = "config.toml"

const (
	StorageLoose  = "loose"
	StorageMemory = "memory"
)

// Config holds every setting of a store.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Retry   RetryConfig   `toml:"retry"`
	DB      DBConfig      `toml:"db"`
}

type StorageConfig struct {
	// Kind is either "loose" or "memory".
	Kind string `toml:"kind"`
	// Path is the root of a loose store. A relative path read from a file
	// is resolved against the directory of that file.
	Path             string `toml:"path"`
	CompressionLevel int    `toml:"compression_level"`
}

type LogConfig struct {
	Level string `toml:"level"`
	// Format is either "console" or "json".
	Format string `toml:"format"`
}

type RetryConfig struct {
	// MaxAttempts includes the first attempt. One or less disables retries.
	MaxAttempts  int      `toml:"max_attempts"`
	InitialDelay Duration `toml:"initial_delay"`
	MaxDelay     Duration `toml:"max_delay"`
}

type DBConfig struct {
	Verify bool `toml:"verify"`
	// Concurrency bounds parallel store calls. Zero uses GOMAXPROCS.
	Concurrency int `toml:"concurrency"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Kind:             StorageLoose,
			Path:             ".gitobject",
			CompressionLevel: zlib.DefaultCompression,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: Duration(100 * time.Millisecond),
			MaxDelay:     Duration(5 * time.Second),
		},
		DB: DBConfig{
			Verify: true,
		},
	}
}

// Load reads the file at path on top of the defaults. A missing file yields
// the defaults. Unknown keys are an error so that typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("read config: unknown key %q", undecoded[0].String())
	}

	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(filepath.Dir(path), cfg.Storage.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return cfg, nil
}

// Write atomically writes cfg to path.
func Write(path string, cfg *Config) error {
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}

	return nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	switch c.Storage.Kind {
	case StorageLoose:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for a loose store")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("storage.kind must be %q or %q, got %q", StorageLoose, StorageMemory, c.Storage.Kind)
	}

	if c.Storage.CompressionLevel < zlib.HuffmanOnly || c.Storage.CompressionLevel > zlib.BestCompression {
		return fmt.Errorf("storage.compression_level must be between %d and %d", zlib.HuffmanOnly, zlib.BestCompression)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be \"console\" or \"json\", got %q", c.Log.Format)
	}

	if c.Retry.MaxAttempts < 0 {
		return errors.New("retry.max_attempts cannot be negative")
	}
	if c.Retry.InitialDelay < 0 || c.Retry.MaxDelay < 0 {
		return errors.New("retry delays cannot be negative")
	}

	if c.DB.Concurrency < 0 {
		return errors.New("db.concurrency cannot be negative")
	}

	return nil
}

// Retrier builds the retrier described by the [retry] section.
func (c *Config) Retrier() retry.Retrier {
	if c.Retry.MaxAttempts <= 1 {
		return &retry.NoopRetrier{}
	}

	retrier := retry.NewExponentialBackoffRetrier().WithMaxAttempts(c.Retry.MaxAttempts)
	if c.Retry.InitialDelay > 0 {
		retrier = retrier.WithInitialDelay(time.Duration(c.Retry.InitialDelay))
	}
	if c.Retry.MaxDelay > 0 {
		retrier = retrier.WithMaxDelay(time.Duration(c.Retry.MaxDelay))
	}

	return retrier
}

// OpenStorage opens the store described by the [storage] section, creating
// the layout of a loose store if needed. Calls to it are retried with the
// retrier found in the context of each call.
func (c *Config) OpenStorage(ctx context.Context) (storage.ObjectStorage, error) {
	switch c.Storage.Kind {
	case StorageMemory:
		return storage.NewRetryingStorage(storage.NewInMemoryStorage()), nil
	case StorageLoose:
		if err := storage.InitLoose(ctx, c.Storage.Path); err != nil {
			return nil, err
		}
		loose := storage.NewLooseStorage(c.Storage.Path, storage.WithCompressionLevel(c.Storage.CompressionLevel))
		return storage.NewRetryingStorage(loose), nil
	default:
		return nil, fmt.Errorf("unknown storage kind %q", c.Storage.Kind)
	}
}

// DBOptions translates the [db] section into ObjectDB options.
func (c *Config) DBOptions(logger log.Logger) []gitobject.Option {
	options := []gitobject.Option{gitobject.WithVerification(c.DB.Verify)}
	if c.DB.Concurrency > 0 {
		options = append(options, gitobject.WithConcurrency(c.DB.Concurrency))
	}
	if logger != nil {
		options = append(options, gitobject.WithLogger(logger))
	}

	return options
}
