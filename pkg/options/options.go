// Package options provides data structures and functions for configuring a
// kvforge store. It defines the parameters that control index sizing, the
// optional Bloom-filter negative-lookup accelerator, and durability policy,
// following the functional-options pattern.
package options

import "strings"

// Options configures a kvforge store.
type Options struct {
	// Path is the filesystem path to the store's single log file.
	//
	// Default: "kvforge.db"
	Path string `json:"path"`

	// InitialCapacity sets the index's initial slot count. Must be
	// positive; spec.md §4.2 fixes the reference value at 31.
	//
	// Default: 31
	InitialCapacity int `json:"initialCapacity"`

	// DisableBloomFilter turns off the index's optional negative-lookup
	// accelerator (SPEC_FULL.md §4), falling back to pure probing.
	//
	// Default: false
	DisableBloomFilter bool `json:"disableBloomFilter"`

	// DisableSyncOnAppend turns off the log's Sync (fsync) call after every
	// append. This never changes the store's documented durability
	// contract silently — it exists for benchmark harnesses that want to
	// measure raw append throughput; see DESIGN.md's sync-policy decision.
	//
	// Default: false
	DisableSyncOnAppend bool `json:"disableSyncOnAppend"`
}

// OptionFunc is a function that modifies an Options value.
type OptionFunc func(*Options)

// WithDefaultOptions applies NewDefaultOptions' values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithPath sets the path to the store's log file.
func WithPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.Path = path
		}
	}
}

// WithInitialCapacity sets the index's initial slot count.
func WithInitialCapacity(capacity int) OptionFunc {
	return func(o *Options) {
		if capacity > 0 {
			o.InitialCapacity = capacity
		}
	}
}

// WithBloomFilterDisabled disables the index's Bloom-filter accelerator.
func WithBloomFilterDisabled() OptionFunc {
	return func(o *Options) {
		o.DisableBloomFilter = true
	}
}

// WithSyncOnAppendDisabled disables the log's per-append Sync call.
func WithSyncOnAppendDisabled() OptionFunc {
	return func(o *Options) {
		o.DisableSyncOnAppend = true
	}
}
