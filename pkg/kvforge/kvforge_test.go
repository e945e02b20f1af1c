package kvforge

import (
	"path/filepath"
	"testing"

	"github.com/nilfade/kvforge/pkg/options"
	"github.com/stretchr/testify/require"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "kvforge.db")
}

func TestCreatePutGetDelete(t *testing.T) {
	path := tempPath(t)

	s, err := Create(options.WithPath(path))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put([]byte("hello"), []byte("world")))

	val, ok, err := s.Get([]byte("hello"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "world", string(val))

	require.NoError(t, s.Delete([]byte("hello")))

	_, ok, err = s.Get([]byte("hello"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenOrCreateCreatesThenReopens(t *testing.T) {
	path := tempPath(t)

	s, err := OpenOrCreate(options.WithPath(path))
	require.NoError(t, err)
	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	require.NoError(t, s.Close())

	reopened, err := OpenOrCreate(options.WithPath(path))
	require.NoError(t, err)
	defer reopened.Close()

	val, ok, err := reopened.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", string(val))
}

func TestOpenMissingFileFails(t *testing.T) {
	_, err := Open(options.WithPath(tempPath(t)))
	require.Error(t, err)
}

func TestDeleteNeverInsertedKeyFails(t *testing.T) {
	s, err := Create(options.WithPath(tempPath(t)))
	require.NoError(t, err)
	defer s.Close()

	require.Error(t, s.Delete([]byte("nope")))

	_, ok, err := s.Get([]byte("nope"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetLinearScanAgreesWithIndexedGet(t *testing.T) {
	s, err := Create(options.WithPath(tempPath(t)))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put([]byte("a"), []byte("1")))
	require.NoError(t, s.Put([]byte("a"), []byte("2")))

	indexed, indexedOK, err := s.Get([]byte("a"))
	require.NoError(t, err)
	scanned, scannedOK, err := s.GetLinearScan([]byte("a"))
	require.NoError(t, err)

	require.Equal(t, indexedOK, scannedOK)
	require.Equal(t, string(indexed), string(scanned))
}

func TestPathReturnsConfiguredPath(t *testing.T) {
	path := tempPath(t)
	s, err := Create(options.WithPath(path))
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, path, s.Path())
}

func TestSizeTracksLiveKeys(t *testing.T) {
	s, err := Create(options.WithPath(tempPath(t)))
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, 0, s.Size())

	require.NoError(t, s.Put([]byte("a"), []byte("1")))
	require.NoError(t, s.Put([]byte("b"), []byte("2")))
	require.Equal(t, 2, s.Size())

	require.NoError(t, s.Delete([]byte("a")))
	require.Equal(t, 1, s.Size())
	require.GreaterOrEqual(t, s.Capacity(), 1)
}
