// Package logio owns the single on-disk log file that backs a kvforge
// store and provides byte-exact positioned I/O over it: create/open/close,
// append raw bytes, read exactly N bytes at an absolute offset, rewind, and
// report the current append offset.
//
// The package deliberately knows nothing about records, keys, or the
// index — it is the lowest of the three subsystems and every byte that
// crosses the file boundary for any other package flows through here.
package logio

import (
	"io"
	"os"

	"github.com/nilfade/kvforge/pkg/kverrors"
	"go.uber.org/zap"
)

// Log owns exactly one open file handle in read/write binary mode.
type Log struct {
	f    *os.File
	path string
	log  *zap.SugaredLogger
	sync bool
}

// SetSyncOnAppend toggles whether AppendRaw calls Sync after every write.
// It defaults to true; callers such as a benchmark harness may disable it
// for throughput testing, per DESIGN.md's sync-policy decision — the
// store's own durability contract is never changed silently, only an
// explicit opt-out.
func (l *Log) SetSyncOnAppend(enabled bool) {
	l.sync = enabled
}

// Create opens path for read/write, truncating it (creating it if absent),
// and returns a new Log holding that handle.
func Create(path string, logger *zap.SugaredLogger) (*Log, error) {
	return open(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, logger)
}

// Open opens path for read/write without truncating. It fails if path does
// not already exist.
func Open(path string, logger *zap.SugaredLogger) (*Log, error) {
	return open(path, os.O_RDWR, logger)
}

func open(path string, flag int, logger *zap.SugaredLogger) (*Log, error) {
	logger.Infow("opening log file", "path", path, "flag", flag)

	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, kverrors.ClassifyFileOpenError(err, path)
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return nil, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to seek to end of log file").
			WithPath(path)
	}

	logger.Infow("log file opened", "path", path)
	return &Log{f: f, path: path, log: logger, sync: true}, nil
}

// Close releases the file handle. It is idempotent: closing an already
// closed (or never opened) Log is a no-op.
func (l *Log) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	if err != nil {
		return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to close log file").
			WithPath(l.path)
	}
	return nil
}

// AppendRaw seeks to the end of the file and writes buf in full; the write
// itself hands the bytes to the OS. When sync-on-append is enabled (the
// default), it then calls (*os.File).Sync, which also commits the file to
// stable storage (fsync).
func (l *Log) AppendRaw(buf []byte) error {
	if l.f == nil {
		return kverrors.NewStorageError(nil, kverrors.ErrorCodeIO, "log file is not open").
			WithPath(l.path)
	}

	offset, err := l.f.Seek(0, io.SeekEnd)
	if err != nil {
		return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to seek to end before append").
			WithPath(l.path)
	}

	n, err := l.f.Write(buf)
	if err != nil {
		return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to write record").
			WithPath(l.path).WithOffset(offset)
	}
	if n != len(buf) {
		return kverrors.NewStorageError(nil, kverrors.ErrorCodeIO, "short write").
			WithPath(l.path).WithOffset(offset).
			WithDetail("wanted", len(buf)).WithDetail("wrote", n)
	}

	if l.sync {
		if err := l.f.Sync(); err != nil {
			return kverrors.ClassifySyncError(err, l.path, offset)
		}
	}
	return nil
}

// ReadAt seeks absolute to offset and reads up to len(buf) bytes into buf.
// It returns the actual byte count read. A return of (0, nil) means clean
// EOF at offset. The file position is left undefined on return, matching
// spec.md §4.1.
func (l *Log) ReadAt(offset int64, buf []byte) (int, error) {
	if l.f == nil {
		return 0, kverrors.NewStorageError(nil, kverrors.ErrorCodeIO, "log file is not open").
			WithPath(l.path)
	}

	if _, err := l.f.Seek(offset, io.SeekStart); err != nil {
		return 0, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to seek to offset").
			WithPath(l.path).WithOffset(offset)
	}

	n, err := l.f.Read(buf)
	if err != nil {
		if err == io.EOF {
			return n, nil
		}
		return n, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to read at offset").
			WithPath(l.path).WithOffset(offset)
	}
	return n, nil
}

// Rewind seeks the file back to offset 0.
func (l *Log) Rewind() error {
	if l.f == nil {
		return kverrors.NewStorageError(nil, kverrors.ErrorCodeIO, "log file is not open").
			WithPath(l.path)
	}
	if _, err := l.f.Seek(0, io.SeekStart); err != nil {
		return kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to rewind log file").
			WithPath(l.path)
	}
	return nil
}

// CurrentAppendOffset returns the current absolute end-of-file position.
// Callers must not interleave reads between this call and the append it
// precedes, so that the offset recorded in the index matches where the
// next record actually begins.
func (l *Log) CurrentAppendOffset() (int64, error) {
	if l.f == nil {
		return 0, kverrors.NewStorageError(nil, kverrors.ErrorCodeIO, "log file is not open").
			WithPath(l.path)
	}
	offset, err := l.f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, kverrors.NewStorageError(err, kverrors.ErrorCodeIO, "failed to determine append offset").
			WithPath(l.path)
	}
	return offset, nil
}

// Path returns the filesystem path the log was opened from.
func (l *Log) Path() string {
	return l.path
}
