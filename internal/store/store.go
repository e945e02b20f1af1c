// Package store provides the KV facade that coordinates kvforge's three
// subsystems — the on-disk log, the record codec, and the in-memory index —
// into the put/get/delete/replay operations the public API exposes.
//
// The facade owns no bytes of its own: every call either drives logio for
// positioned I/O, index for the key→offset mapping, or record for the
// header layout, in the order the durability contract requires.
package store

import (
	stdErrors "errors"
	"sync"
	"sync/atomic"

	"github.com/nilfade/kvforge/internal/index"
	"github.com/nilfade/kvforge/internal/logio"
	"github.com/nilfade/kvforge/internal/record"
	"github.com/nilfade/kvforge/pkg/kverrors"
	"github.com/nilfade/kvforge/pkg/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrStoreClosed is returned when attempting to perform operations on a
// closed Store.
var ErrStoreClosed = stdErrors.New("operation failed: cannot access closed store")

// Store is the central coordinator for a kvforge database: it serializes
// records, drives the log and index in the order §4.3 of the design
// requires, and rebuilds the index from the log on open.
type Store struct {
	mu     sync.Mutex
	opts   *options.Options
	log    *zap.SugaredLogger
	closed atomic.Bool

	l   *logio.Log
	idx *index.Index
}

// Config holds the parameters needed to initialize a new Store.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates a fresh store at config.Options.Path, truncating any
// existing file. Use Open to attach to an existing file and replay it.
func New(config *Config) (*Store, error) {
	idx, err := index.New(&index.Config{
		Logger:             config.Logger,
		InitialCapacity:    config.Options.InitialCapacity,
		DisableBloomFilter: config.Options.DisableBloomFilter,
	})
	if err != nil {
		return nil, err
	}

	l, err := logio.Create(config.Options.Path, config.Logger)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}
	l.SetSyncOnAppend(!config.Options.DisableSyncOnAppend)

	return &Store{opts: config.Options, log: config.Logger, l: l, idx: idx}, nil
}

// Open attaches to an existing log file at config.Options.Path and
// rebuilds the index by replaying it from offset zero, per spec.md §4.3.
func Open(config *Config) (*Store, error) {
	idx, err := index.New(&index.Config{
		Logger:             config.Logger,
		InitialCapacity:    config.Options.InitialCapacity,
		DisableBloomFilter: config.Options.DisableBloomFilter,
	})
	if err != nil {
		return nil, err
	}

	l, err := logio.Open(config.Options.Path, config.Logger)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}
	l.SetSyncOnAppend(!config.Options.DisableSyncOnAppend)

	s := &Store{opts: config.Options, log: config.Logger, l: l, idx: idx}
	if err := s.replay(); err != nil {
		_ = l.Close()
		_ = idx.Close()
		return nil, err
	}
	return s, nil
}

// Close shuts the store down, closing the log and destroying the index.
// It is idempotent: a second Close is a no-op that returns nil.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return multierr.Combine(s.l.Close(), s.idx.Close())
}

// Size returns the number of live keys currently held in the index.
func (s *Store) Size() int {
	return s.idx.Size()
}

// Capacity returns the index's current slot array capacity.
func (s *Store) Capacity() int {
	return s.idx.Capacity()
}

func (s *Store) checkOpen() error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return nil
}

// Put writes key→value, making it immediately visible to Get. Per
// spec.md §4.3, the index is updated before the record is appended: if
// the index insert fails, the log is never touched; if the append fails
// after a successful index insert, the two are left inconsistent for
// that key, corrected by a later successful put or a clean replay.
func (s *Store) Put(key, value []byte) error {
	if key == nil {
		return kverrors.NewNilArgumentError("key")
	}
	if len(key) == 0 {
		return kverrors.NewEmptyKeyError()
	}
	if value == nil {
		return kverrors.NewNilArgumentError("value")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	offset, err := s.l.CurrentAppendOffset()
	if err != nil {
		return err
	}

	if err := s.idx.Insert(key, offset); err != nil {
		return err
	}

	header := record.NewPutHeader(len(key), len(value))
	buf := make([]byte, 0, record.HeaderSize+len(key)+len(value))
	buf = append(buf, record.Encode(header)...)
	buf = append(buf, key...)
	buf = append(buf, value...)

	return s.l.AppendRaw(buf)
}

// Get returns the value most recently Put for key, or ok=false if the
// key is absent or was last deleted. It follows spec.md §4.3's defensive
// sequence: index lookup, header read, tombstone check, key re-check,
// value read.
func (s *Store) Get(key []byte) (value []byte, ok bool, err error) {
	if key == nil {
		return nil, false, kverrors.NewNilArgumentError("key")
	}
	if len(key) == 0 {
		return nil, false, kverrors.NewEmptyKeyError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, false, err
	}

	offset, found := s.idx.Lookup(key)
	if !found {
		return nil, false, nil
	}

	headerBuf := make([]byte, record.HeaderSize)
	n, err := s.l.ReadAt(offset, headerBuf)
	if err != nil {
		return nil, false, err
	}
	if n != record.HeaderSize {
		return nil, false, nil
	}

	h := record.Decode(headerBuf)
	if h.Type == record.TypeTombstone {
		s.log.Warnw("index pointed at a tombstone, treating as not-found", "offset", offset)
		return nil, false, nil
	}

	storedKey := make([]byte, h.KeyLen)
	n, err = s.l.ReadAt(offset+record.HeaderSize, storedKey)
	if err != nil {
		return nil, false, err
	}
	if n != int(h.KeyLen) || string(storedKey) != string(key) {
		s.log.Warnw("stored key mismatch at indexed offset, treating as not-found", "offset", offset)
		return nil, false, nil
	}

	val := make([]byte, h.ValLen)
	n, err = s.l.ReadAt(offset+record.HeaderSize+int64(h.KeyLen), val)
	if err != nil {
		return nil, false, err
	}
	if n != int(h.ValLen) {
		return nil, false, nil
	}

	return val, true, nil
}

// Delete removes key, making subsequent Get calls return not-found.
// Per spec.md §4.3, the index is mutated first and the tombstone record
// appended second; a crash in between loses the delete until the next
// successful delete or replay corrects it.
func (s *Store) Delete(key []byte) error {
	if key == nil {
		return kverrors.NewNilArgumentError("key")
	}
	if len(key) == 0 {
		return kverrors.NewEmptyKeyError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	if err := s.idx.Delete(key); err != nil {
		return err
	}

	header := record.NewTombstoneHeader(len(key))
	buf := make([]byte, 0, record.HeaderSize+len(key))
	buf = append(buf, record.Encode(header)...)
	buf = append(buf, key...)

	return s.l.AppendRaw(buf)
}

// GetLinearScan is the legacy lookup from spec.md §4.3: it ignores the
// index entirely and scans the log from offset zero, keeping the most
// recent value seen for key and returning ok=false if the latest record
// for key is a tombstone. It exists as a reference oracle for property
// tests against the indexed Get, not for production lookups.
func (s *Store) GetLinearScan(key []byte) (value []byte, ok bool, err error) {
	if key == nil {
		return nil, false, kverrors.NewNilArgumentError("key")
	}
	if len(key) == 0 {
		return nil, false, kverrors.NewEmptyKeyError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, false, err
	}

	var (
		offset int64
		found  bool
		result []byte
	)

	headerBuf := make([]byte, record.HeaderSize)
	for {
		n, err := s.l.ReadAt(offset, headerBuf)
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			break
		}
		if n != record.HeaderSize {
			break
		}

		h := record.Decode(headerBuf)

		keyBuf := make([]byte, h.KeyLen)
		n, err = s.l.ReadAt(offset+record.HeaderSize, keyBuf)
		if err != nil {
			return nil, false, err
		}
		if n != int(h.KeyLen) {
			break
		}

		if string(keyBuf) == string(key) {
			switch h.Type {
			case record.TypePut:
				valBuf := make([]byte, h.ValLen)
				n, err = s.l.ReadAt(offset+record.HeaderSize+int64(h.KeyLen), valBuf)
				if err != nil {
					return nil, false, err
				}
				if n == int(h.ValLen) {
					result, found = valBuf, true
				}
			case record.TypeTombstone:
				result, found = nil, false
			}
		}

		offset += int64(h.RecordLen)
	}

	return result, found, nil
}

// replay rebuilds the index from the log's contents, per spec.md §4.3.
// It is only ever called by Open, immediately after Open has created a
// fresh, empty index.
func (s *Store) replay() error {
	if err := s.l.Rewind(); err != nil {
		return err
	}

	var offset int64
	headerBuf := make([]byte, record.HeaderSize)

	for {
		p := offset
		n, err := s.l.ReadAt(p, headerBuf)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if n != record.HeaderSize {
			s.log.Warnw("truncated record header at tail of log, stopping replay", "offset", p)
			return nil
		}

		h := record.Decode(headerBuf)
		if h.RecordLen != uint32(record.HeaderSize)+uint32(h.KeyLen)+h.ValLen {
			return kverrors.NewStorageError(nil, kverrors.ErrorCodeRecordCorrupted, "record_len inconsistent with key_len/val_len during replay").
				WithOffset(p).WithDetail("recordLen", h.RecordLen)
		}

		keyBuf := make([]byte, h.KeyLen)
		n, err = s.l.ReadAt(p+record.HeaderSize, keyBuf)
		if err != nil {
			return err
		}
		if n != int(h.KeyLen) {
			return kverrors.NewStorageError(nil, kverrors.ErrorCodeReplayFailed, "short read of key bytes during replay").
				WithOffset(p)
		}

		switch h.Type {
		case record.TypePut:
			if err := s.idx.Insert(keyBuf, p); err != nil {
				return err
			}
		case record.TypeTombstone:
			if err := s.idx.Delete(keyBuf); err != nil && kverrors.GetErrorCode(err) != kverrors.ErrorCodeIndexKeyNotFound {
				return err
			}
		default:
			return kverrors.NewStorageError(nil, kverrors.ErrorCodeRecordCorrupted, "unknown record type during replay").
				WithOffset(p).WithDetail("type", h.Type)
		}

		offset = p + int64(h.RecordLen)
	}
}
