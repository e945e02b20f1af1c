// Package kverrors centralizes kvforge's structured error handling. Every
// subsystem (the log, the index, the KV facade) fails by returning one of
// the three error types defined in this package rather than a bare
// errors.New, so callers can recover structured context (which key, which
// offset, which field) instead of parsing a message string. The one
// exception is the package-level closed sentinels (index.ErrIndexClosed,
// store.ErrStoreClosed), which are plain errors.
//
// The system is built around a baseError that every specialized error type
// embeds, so all of them support the same fluent With* chaining and the
// same Code()/Details() accessors while adding their own domain-specific
// fields: a ValidationError knows which field and rule were violated, a
// StorageError knows which file and offset were involved, and an
// IndexError knows which key and operation were being processed.
package kverrors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsStorageError reports whether err is, or wraps, a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return stdErrors.As(err, &se)
}

// IsIndexError reports whether err is, or wraps, a *IndexError.
func IsIndexError(err error) bool {
	var ie *IndexError
	return stdErrors.As(err, &ie)
}

// AsValidationError extracts a *ValidationError from err's chain, if present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorageError extracts a *StorageError from err's chain, if present.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsIndexError extracts a *IndexError from err's chain, if present.
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or
// returns ErrorCodeInternal for errors that don't carry one.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if se, ok := AsStorageError(err); ok {
		return se.Code()
	}
	if ie, ok := AsIndexError(err); ok {
		return ie.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports
// them, returning an empty map for errors without details.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		if details := ve.Details(); details != nil {
			return details
		}
	}
	if se, ok := AsStorageError(err); ok {
		if details := se.Details(); details != nil {
			return details
		}
	}
	if ie, ok := AsIndexError(err); ok {
		if details := ie.Details(); details != nil {
			return details
		}
	}
	return make(map[string]any)
}

// ClassifyFileOpenError analyzes a failure to open the log file and returns
// an appropriately coded StorageError, so callers can distinguish a
// permissions problem from a full disk from a read-only filesystem instead
// of a generic I/O error.
func ClassifyFileOpenError(err error, path string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodePermissionDenied, "insufficient permissions to open log file",
		).WithPath(path).WithDetail("operation", "file_open")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull, "insufficient disk space to create log file",
				).WithPath(path).WithDetail("operation", "file_open")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly, "cannot create log file on read-only filesystem",
				).WithPath(path).WithDetail("operation", "file_open")
			}
		}
	}

	return NewStorageError(err, ErrorCodeIO, "failed to open log file").
		WithPath(path).WithDetail("operation", "file_open")
}

// ClassifySyncError analyzes a failure to flush the log file to the OS and
// returns an appropriately coded StorageError.
func ClassifySyncError(err error, path string, offset int64) error {
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull, "cannot flush log file: insufficient disk space",
				).WithPath(path).WithOffset(offset).WithDetail("operation", "file_sync")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly, "cannot flush log file: filesystem is read-only",
				).WithPath(path).WithOffset(offset).WithDetail("operation", "file_sync")
			case syscall.EIO:
				return NewStorageError(
					err, ErrorCodeIO, "I/O error while flushing log file",
				).WithPath(path).WithOffset(offset).WithDetail("operation", "file_sync")
			}
		}
	}

	return NewStorageError(err, ErrorCodeIO, "failed to flush log file").
		WithPath(path).WithOffset(offset).WithDetail("operation", "file_sync")
}
