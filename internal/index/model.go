package index

import (
	"sync"
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
	"go.uber.org/zap"
)

// slotState is the logical state of one slot in the table, as defined by
// spec.md §3: a slot with no key is empty; a slot with a key and the
// tombstone flag clear is live; a slot with a key and the tombstone flag
// set is deleted but still participates in probe chains.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotLive
	slotDeleted
)

// slot is one cell of the open-addressed hash table. The key field doubles
// as the empty/non-empty discriminant: a nil key means the slot has never
// been occupied, while a non-nil key with tombstone set means "deleted",
// per spec.md §9's "deleted flag must share a slot with the key pointer"
// guidance.
type slot struct {
	key       []byte
	offset    int64
	tombstone bool
}

func (s *slot) state() slotState {
	if s.key == nil {
		return slotEmpty
	}
	if s.tombstone {
		return slotDeleted
	}
	return slotLive
}

// Config bundles the dependencies an Index needs to operate.
type Config struct {
	Logger *zap.SugaredLogger

	// InitialCapacity overrides the default initial slot count (31) when
	// positive; see pkg/options.WithInitialCapacity.
	InitialCapacity int

	// DisableBloomFilter turns off the optional negative-lookup
	// accelerator described in SPEC_FULL.md §4, falling back to pure
	// probing on every Lookup.
	DisableBloomFilter bool
}

// Index is the in-memory, open-addressed hash table mapping key bytes to
// file offsets, per spec.md §4.2. It owns every key buffer it stores; a
// re-Insert of a tombstoned key reuses that slot's buffer, a rehash drops
// the buffers of tombstoned slots, and Close releases them all.
type Index struct {
	mu       sync.RWMutex
	log      *zap.SugaredLogger
	slots    []slot
	size     int                // count of live slots only
	capacity int                // len(slots)
	filter   *bloom.BloomFilter // optional negative-lookup accelerator; nil when disabled
	closed   atomic.Bool
}
