package kverrors

// IndexError provides specialized error handling for index-related
// operations. This structure extends the base error system with
// index-specific context while properly supporting method chaining through
// all base error methods.
type IndexError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// Identifies which key was being processed when the error occurred.
	key string

	// Describes what index operation was being performed when the
	// error occurred (e.g. "Insert", "Lookup", "Delete", "Rehash").
	operation string

	// Captures the size (live-slot count) of the index at the time of
	// the error, and its capacity, for diagnosing load-factor issues.
	indexSize int
	capacity  int
}

// NewIndexError creates a new index-specific error with the provided context.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{
		baseError: NewBaseError(err, code, msg),
	}
}

// Override base error methods to return *IndexError instead of *baseError
// so that method chaining preserves the concrete type.

// WithMessage updates the error message while maintaining the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithCode sets the error code while preserving the IndexError type.
func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// WithKey records which key was being processed when the error occurred.
func (ie *IndexError) WithKey(key string) *IndexError {
	ie.key = key
	return ie
}

// WithOperation records what index operation was being performed.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// WithIndexSize captures the live-slot count of the index when the error occurred.
func (ie *IndexError) WithIndexSize(size int) *IndexError {
	ie.indexSize = size
	return ie
}

// WithCapacity captures the slot array capacity when the error occurred.
func (ie *IndexError) WithCapacity(capacity int) *IndexError {
	ie.capacity = capacity
	return ie
}

// Key returns the key that was being processed when the error occurred.
func (ie *IndexError) Key() string {
	return ie.key
}

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string {
	return ie.operation
}

// IndexSize returns the live-slot count of the index when the error occurred.
func (ie *IndexError) IndexSize() int {
	return ie.indexSize
}

// Capacity returns the slot array capacity when the error occurred.
func (ie *IndexError) Capacity() int {
	return ie.capacity
}

// NewKeyNotFoundError creates a specialized error for a key absent from the
// index (not-found on Lookup, failure on Delete per spec.md §7).
func NewKeyNotFoundError(key string) *IndexError {
	return NewIndexError(nil, ErrorCodeIndexKeyNotFound, "key not found in index").
		WithKey(key).
		WithOperation("Lookup")
}

// NewIndexFullError creates an error for the defensive table-full outcome:
// all capacity probes were exhausted without finding a home for key.
func NewIndexFullError(key string, capacity, size int) *IndexError {
	return NewIndexError(nil, ErrorCodeIndexFull, "index probe chain exhausted without a free slot").
		WithKey(key).
		WithOperation("Insert").
		WithCapacity(capacity).
		WithIndexSize(size)
}

// NewRehashFailedError creates an error for a failed slot-array allocation
// during rehash. The caller must leave the old array intact.
func NewRehashFailedError(cause error, oldCapacity, newCapacity int) *IndexError {
	return NewIndexError(cause, ErrorCodeIndexRehashFailed, "failed to allocate new slot array for rehash").
		WithOperation("Rehash").
		WithCapacity(oldCapacity).
		WithDetail("requestedCapacity", newCapacity)
}
