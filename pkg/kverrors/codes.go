package kverrors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system.
const (
	// ErrorCodeIO represents failures in input/output operations: opening,
	// seeking, reading, writing, or flushing the log file.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents a caller-supplied argument that
	// violates the contract: a nil key/value, an empty key, a negative
	// offset passed to Insert.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes cover the log file's failure modes.
const (
	// ErrorCodeRecordCorrupted indicates a record read during replay whose
	// declared record_len is inconsistent with its key_len/val_len, or whose
	// record_type is neither TypePut nor TypeTombstone.
	ErrorCodeRecordCorrupted ErrorCode = "RECORD_CORRUPTED"

	// ErrorCodeHeaderReadFailure occurs when fewer than record.HeaderSize
	// bytes could be read where a full header was expected.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates the key or value bytes following
	// a header could not be read in full.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeReplayFailed indicates that rebuilding the index from the log
	// on open did not complete.
	ErrorCodeReplayFailed ErrorCode = "REPLAY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access
	// the log file or its parent directory.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes.
const (
	// ErrorCodeIndexKeyNotFound indicates Lookup/Delete found no live slot
	// for the requested key.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexFull indicates Insert exhausted capacity probes without
	// finding a home for the key. Should be unreachable given the 0.7 load
	// factor rehash rule; retained as a defensive terminator per spec.md §7.
	ErrorCodeIndexFull ErrorCode = "INDEX_FULL"

	// ErrorCodeIndexRehashFailed indicates the new slot array for a rehash
	// could not be allocated; the old array is left intact.
	ErrorCodeIndexRehashFailed ErrorCode = "INDEX_REHASH_FAILED"

	// ErrorCodeTombstoneHit indicates Get's index lookup returned an offset
	// that, on read, turned out to point at a tombstone record — a sign of
	// index/log inconsistency. Treated as not-found, never surfaced as a
	// hard failure, but recorded for observability.
	ErrorCodeTombstoneHit ErrorCode = "INDEX_TOMBSTONE_HIT"
)
