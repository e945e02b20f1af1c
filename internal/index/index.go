// Package index implements the in-memory key index for the kvforge
// key-value store: an open-addressed hash table with quadratic probing,
// tombstone-aware delete, and live doubling resize, exactly as specified in
// spec.md §4.2. It embodies the core Bitcask architectural principle of
// keeping every live key in memory while the value itself lives on disk.
//
// The table never shrinks; it only grows, when the live-slot load factor
// exceeds 0.7 or when an Insert finds its probe chain exhausted. Deleted
// (tombstoned) slots participate in probe chains but are dropped during
// rehash.
package index

import (
	"bytes"
	stdErrors "errors"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/nilfade/kvforge/pkg/kverrors"
	"go.uber.org/zap"
)

// ErrIndexClosed is returned when attempting to use a closed Index.
var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// DefaultInitialCapacity is the slot count a fresh Index starts with, per
// spec.md §4.2's init().
const DefaultInitialCapacity = 31

// maxLoadFactor is the live-slot / capacity ratio above which Insert
// rehashes before probing, per spec.md §4.2.
const maxLoadFactor = 0.7

// New allocates and initializes a fresh Index. Fails only if the initial
// slot array cannot be allocated.
func New(config *Config) (*Index, error) {
	if config == nil {
		config = &Config{}
	}

	capacity := DefaultInitialCapacity
	if config.InitialCapacity > 0 {
		capacity = config.InitialCapacity
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	slots, err := allocSlots(capacity)
	if err != nil {
		return nil, kverrors.NewIndexError(err, kverrors.ErrorCodeInternal, "failed to allocate initial slot array").
			WithOperation("Init").WithCapacity(capacity)
	}

	idx := &Index{log: logger, slots: slots, capacity: capacity}
	if !config.DisableBloomFilter {
		idx.filter = newFilter(capacity)
	}

	logger.Infow("index initialized", "capacity", capacity, "bloomFilter", idx.filter != nil)
	return idx, nil
}

// allocSlots allocates a slot array of size n, reporting an allocation
// failure instead of letting the runtime panic propagate — Go's make()
// panics rather than returning an error on true OOM, so this recovers that
// panic to honor spec.md §7's "allocation failure is reported, not
// unwound across the boundary."
func allocSlots(n int) (s []slot, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = kverrors.NewBaseError(nil, kverrors.ErrorCodeInternal, "slot array allocation failed")
		}
	}()
	return make([]slot, n), nil
}

func newFilter(capacity int) *bloom.BloomFilter {
	return bloom.NewWithEstimates(uint(capacity), 0.01)
}

// Close frees the index's owned key buffers and resets it to an unusable
// state. Idempotent.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.log.Infow("closing index", "size", idx.size, "capacity", idx.capacity)
	idx.slots = nil
	idx.filter = nil
	idx.size = 0
	idx.capacity = 0
	return nil
}

// Size returns the count of live (non-empty, non-tombstoned) slots.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.size
}

// Capacity returns the current slot array length.
func (idx *Index) Capacity() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.capacity
}

// hash computes the DJB2 hash of key over an unsigned 64-bit accumulator,
// per spec.md §4.2: h = 5381; h = h*33 + c for each byte c, wrapping on
// overflow (Go's uint64 arithmetic wraps natively).
func hash(key []byte) uint64 {
	h := uint64(5381)
	for _, c := range key {
		h = h*33 + uint64(c)
	}
	return h
}

func homeBucket(key []byte, capacity int) int {
	return int(hash(key) % uint64(capacity))
}

// probe returns the slot index visited at quadratic-probe step i from home,
// per spec.md §4.2: (start + i*i) mod capacity.
func probe(home, i, capacity int) int {
	return (home + i*i) % capacity
}

// Insert maps key to offset, rehashing first if the current load factor
// (live size / capacity) already exceeds 0.7. Per spec.md §4.2:
//   - an empty slot on the probe chain becomes the key's new home;
//   - a tombstoned slot with a matching key is reinstalled in place;
//   - a tombstoned slot with a different key does not terminate the probe
//     (this is the "probe through tombstones" policy spec.md documents as
//     its reference insert behavior, chosen over immediate tombstone reuse
//     so a key never appears twice on the same probe chain);
//   - a live slot with a matching key is overwritten in place, leaving
//     size unchanged;
//   - exhausting all capacity probes without a home (possible when
//     tombstones fill the chain) triggers one doubling rehash, which drops
//     the tombstones, and a second probe; only if that also fails is
//     ErrorCodeIndexFull returned.
func (idx *Index) Insert(key []byte, offset int64) error {
	if key == nil {
		return kverrors.NewNilArgumentError("key")
	}
	if offset < 0 {
		return kverrors.NewNegativeOffsetError(offset)
	}
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if float64(idx.size)/float64(idx.capacity) > maxLoadFactor {
		if err := idx.rehashLocked(idx.capacity * 2); err != nil {
			return err
		}
	}

	rehashed := false
retry:
	home := homeBucket(key, idx.capacity)
	for i := 0; i < idx.capacity; i++ {
		s := &idx.slots[probe(home, i, idx.capacity)]
		switch s.state() {
		case slotEmpty:
			s.key = append([]byte(nil), key...)
			s.offset = offset
			s.tombstone = false
			idx.size++
			idx.addToFilter(key)
			return nil
		case slotDeleted:
			if bytes.Equal(s.key, key) {
				s.offset = offset
				s.tombstone = false
				idx.size++
				idx.addToFilter(key)
				return nil
			}
		case slotLive:
			if bytes.Equal(s.key, key) {
				s.offset = offset
				return nil
			}
		}
	}

	// Tombstones occupy probe positions without counting toward the load
	// factor, so they can exhaust a chain below 0.7; a rehash drops them.
	if !rehashed {
		rehashed = true
		if err := idx.rehashLocked(idx.capacity * 2); err != nil {
			return err
		}
		goto retry
	}
	return kverrors.NewIndexFullError(string(key), idx.capacity, idx.size)
}

// Lookup returns the offset for key and true if key has a live slot. If a
// Bloom filter is enabled and reports key absent, Lookup short-circuits
// without probing (Bloom filters never false-negative). Otherwise it
// probes per spec.md §4.2: an empty slot terminates the chain as
// not-found; a live match returns its offset; a deleted slot or a
// mismatching live slot does not terminate the chain.
func (idx *Index) Lookup(key []byte) (int64, bool) {
	if idx.closed.Load() {
		return 0, false
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.filter != nil && !idx.filter.Test(key) {
		return 0, false
	}

	home := homeBucket(key, idx.capacity)
	for i := 0; i < idx.capacity; i++ {
		s := &idx.slots[probe(home, i, idx.capacity)]
		switch s.state() {
		case slotEmpty:
			return 0, false
		case slotLive:
			if bytes.Equal(s.key, key) {
				return s.offset, true
			}
		case slotDeleted:
			// Tombstoned matches are treated as not-found; keep probing.
		}
	}
	return 0, false
}

// Delete marks key's slot as tombstoned and decrements size, returning an
// error if key has no live slot. The key buffer is retained in the slot
// (it still participates in probe chains) until overwritten by a later
// Insert or dropped by a rehash.
func (idx *Index) Delete(key []byte) error {
	if key == nil {
		return kverrors.NewNilArgumentError("key")
	}
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	home := homeBucket(key, idx.capacity)
	for i := 0; i < idx.capacity; i++ {
		s := &idx.slots[probe(home, i, idx.capacity)]
		switch s.state() {
		case slotEmpty:
			return kverrors.NewKeyNotFoundError(string(key)).WithOperation("Delete")
		case slotLive:
			if bytes.Equal(s.key, key) {
				s.tombstone = true
				idx.size--
				return nil
			}
		case slotDeleted:
			// Already gone; keep probing in case a live duplicate exists
			// further down the chain (it shouldn't under correct Insert
			// behavior, but Delete doesn't rely on that invariant).
		}
	}
	return kverrors.NewKeyNotFoundError(string(key)).WithOperation("Delete")
}

// rehashLocked grows the table to newCapacity, transferring every live
// slot's key buffer (never reallocating it) to its new home under the same
// probing rule. Tombstoned slots are dropped. idx.mu must be held for
// writing. If the new array cannot be allocated, idx is left unmodified.
func (idx *Index) rehashLocked(newCapacity int) error {
	newSlots, err := allocSlots(newCapacity)
	if err != nil {
		return kverrors.NewRehashFailedError(err, idx.capacity, newCapacity)
	}

	var liveCount int
	var newFilterInstance *bloom.BloomFilter
	if idx.filter != nil {
		newFilterInstance = newFilter(newCapacity)
	}

	for i := range idx.slots {
		old := &idx.slots[i]
		if old.state() != slotLive {
			continue
		}

		home := homeBucket(old.key, newCapacity)
		placed := false
		for step := 0; step < newCapacity; step++ {
			dst := &newSlots[probe(home, step, newCapacity)]
			if dst.state() == slotEmpty {
				dst.key = old.key
				dst.offset = old.offset
				dst.tombstone = false
				placed = true
				break
			}
		}
		if !placed {
			// Unreachable under the 0.7 load-factor rule that triggered
			// this rehash (the new capacity is always double the old),
			// but guarded rather than silently dropping data.
			return kverrors.NewIndexFullError(string(old.key), newCapacity, liveCount)
		}

		liveCount++
		if newFilterInstance != nil {
			newFilterInstance.Add(old.key)
		}
	}

	idx.log.Infow("index rehashed", "oldCapacity", idx.capacity, "newCapacity", newCapacity, "liveCount", liveCount)

	idx.slots = newSlots
	idx.capacity = newCapacity
	idx.size = liveCount
	idx.filter = newFilterInstance
	return nil
}

func (idx *Index) addToFilter(key []byte) {
	if idx.filter != nil {
		idx.filter.Add(key)
	}
}
