// Package kvforge provides a single-file, embeddable key/value store with
// durable append-only on-disk storage and an in-memory open-addressed hash
// index, inspired by Bitcask. It supports put, get, and delete over opaque
// byte-string keys and values, with delete implemented as a tombstone
// record, and rebuilds its index by replaying the log on open.
//
// Store is the primary entry point for interacting with a kvforge
// database, providing methods for putting, getting, and deleting
// key-value pairs.
package kvforge

import (
	"path/filepath"

	"github.com/nilfade/kvforge/internal/store"
	"github.com/nilfade/kvforge/pkg/filesys"
	"github.com/nilfade/kvforge/pkg/options"
	"go.uber.org/zap"
)

// Store represents an instance of the kvforge key/value data store. It
// encapsulates the internal facade responsible for coordinating the log
// and index, and the configuration options for this specific instance.
type Store struct {
	s       *store.Store
	options *options.Options
	log     *zap.SugaredLogger
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		// Fall back to a no-op logger rather than fail Open/Create over a
		// logging misconfiguration.
		logger = zap.NewNop()
	}
	return logger.Sugar().Named("kvforge")
}

// Create initializes a brand-new store, truncating any file already at
// the configured path. Use Open to attach to an existing database.
func Create(opts ...options.OptionFunc) (*Store, error) {
	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	if dir := filepath.Dir(resolved.Path); dir != "." {
		if err := filesys.CreateDir(dir, 0755, true); err != nil {
			return nil, err
		}
	}

	log := newLogger()
	s, err := store.New(&store.Config{Options: &resolved, Logger: log})
	if err != nil {
		return nil, err
	}
	return &Store{s: s, options: &resolved, log: log}, nil
}

// Open attaches to an existing database file and rebuilds its index by
// replaying the log from offset zero. If the file does not exist, Open
// fails; use Create instead.
func Open(opts ...options.OptionFunc) (*Store, error) {
	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	log := newLogger()
	s, err := store.Open(&store.Config{Options: &resolved, Logger: log})
	if err != nil {
		return nil, err
	}
	return &Store{s: s, options: &resolved, log: log}, nil
}

// OpenOrCreate attaches to the database at the configured path if it
// exists, or creates a fresh one if it doesn't.
func OpenOrCreate(opts ...options.OptionFunc) (*Store, error) {
	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	exists, err := filesys.Exists(resolved.Path)
	if err != nil {
		return nil, err
	}
	if exists {
		return Open(opts...)
	}
	return Create(opts...)
}

// Put stores a key-value pair in the database. If the key already exists,
// its value is overwritten. Both key and value are copied; callers may
// reuse their buffers after Put returns.
func (s *Store) Put(key, value []byte) error {
	return s.s.Put(key, value)
}

// Get retrieves the value associated with key. ok is false if the key has
// never been put, or was last deleted.
func (s *Store) Get(key []byte) (value []byte, ok bool, err error) {
	return s.s.Get(key)
}

// Delete removes a key-value pair from the database by appending a
// tombstone record. Subsequent Get calls for key return not-found until a
// later Put.
func (s *Store) Delete(key []byte) error {
	return s.s.Delete(key)
}

// GetLinearScan is the legacy, index-bypassing lookup described by
// SPEC_FULL.md: a full scan of the log from offset zero. It exists as an
// oracle for verifying the indexed Get against the raw log, not for
// production lookups.
func (s *Store) GetLinearScan(key []byte) (value []byte, ok bool, err error) {
	return s.s.GetLinearScan(key)
}

// Close gracefully shuts down the store, closing the log file and
// releasing the index's memory. It is idempotent.
func (s *Store) Close() error {
	return s.s.Close()
}

// Path returns the filesystem path of the store's log file.
func (s *Store) Path() string {
	return s.options.Path
}

// Size returns the number of live keys currently held in the index.
func (s *Store) Size() int {
	return s.s.Size()
}

// Capacity returns the index's current slot array capacity.
func (s *Store) Capacity() int {
	return s.s.Capacity()
}
