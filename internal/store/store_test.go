package store

import (
	"path/filepath"
	"testing"

	"github.com/nilfade/kvforge/pkg/options"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.Path = filepath.Join(dir, "kvforge.db")
	return &Config{Options: &opts, Logger: zap.NewNop().Sugar()}
}

func TestPutThenGetReadsBackSameValue(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Put([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	val, ok, err := s.Get([]byte("k1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(val) != "v1" {
		t.Fatalf("Get(k1) = (%q, %v), want (v1, true)", val, ok)
	}
}

func TestDeleteHidesKeyUntilNextPut(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Put([]byte("k"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete([]byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := s.Get([]byte("k")); err != nil || ok {
		t.Fatalf("Get(k) after Delete = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := s.Put([]byte("k"), []byte("v2")); err != nil {
		t.Fatalf("re-Put: %v", err)
	}
	val, ok, err := s.Get([]byte("k"))
	if err != nil || !ok || string(val) != "v2" {
		t.Fatalf("Get(k) after re-Put = (%q, %v, %v), want (v2, true, nil)", val, ok, err)
	}
}

func TestLastWriterWins(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	for _, v := range []string{"v1", "v2", "v3"} {
		if err := s.Put([]byte("k"), []byte(v)); err != nil {
			t.Fatalf("Put(%s): %v", v, err)
		}
	}
	val, ok, err := s.Get([]byte("k"))
	if err != nil || !ok || string(val) != "v3" {
		t.Fatalf("Get(k) = (%q, %v, %v), want (v3, true, nil)", val, ok, err)
	}
}

func TestDeleteNeverInsertedKeyFails(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Delete([]byte("nope")); err == nil {
		t.Fatal("Delete(nope) succeeded, want not-found failure")
	}
	if _, ok, err := s.Get([]byte("nope")); err != nil || ok {
		t.Fatalf("Get(nope) = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

func TestReplayReconstructsIndexAfterReopen(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := s.Put([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("Put b: %v", err)
	}
	if err := s.Put([]byte("a"), []byte("3")); err != nil {
		t.Fatalf("Put a overwrite: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	val, ok, err := reopened.Get([]byte("a"))
	if err != nil || !ok || string(val) != "3" {
		t.Fatalf("Get(a) after reopen = (%q, %v, %v), want (3, true, nil)", val, ok, err)
	}
	val, ok, err = reopened.Get([]byte("b"))
	if err != nil || !ok || string(val) != "2" {
		t.Fatalf("Get(b) after reopen = (%q, %v, %v), want (2, true, nil)", val, ok, err)
	}
}

func TestTombstoneSurvivesReopen(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Put([]byte("k"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := reopened.Delete([]byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := reopened.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	final, err := Open(cfg)
	if err != nil {
		t.Fatalf("re-Open: %v", err)
	}
	defer final.Close()

	if _, ok, err := final.Get([]byte("k")); err != nil || ok {
		t.Fatalf("Get(k) after tombstone reopen = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

func TestRoundTripsArbitraryBytesIncludingEmbeddedZeros(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	key := []byte{0x00, 0x01, 0x00, 0xff}
	value := []byte{0xff, 0x00, 0x00, 0x01, 0x00}

	if err := s.Put(key, value); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get = (ok=%v, err=%v), want (true, nil)", ok, err)
	}
	if string(got) != string(value) {
		t.Fatalf("Get = %v, want %v", got, value)
	}
}

func TestGetLinearScanAgreesWithIndexedGet(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Put([]byte("x"), []byte("1")); err != nil {
		t.Fatalf("Put x: %v", err)
	}
	if err := s.Put([]byte("y"), []byte("2")); err != nil {
		t.Fatalf("Put y: %v", err)
	}
	if err := s.Put([]byte("x"), []byte("3")); err != nil {
		t.Fatalf("Put x overwrite: %v", err)
	}
	if err := s.Delete([]byte("y")); err != nil {
		t.Fatalf("Delete y: %v", err)
	}

	for _, key := range [][]byte{[]byte("x"), []byte("y"), []byte("z")} {
		indexed, indexedOK, err := s.Get(key)
		if err != nil {
			t.Fatalf("Get(%s): %v", key, err)
		}
		scanned, scannedOK, err := s.GetLinearScan(key)
		if err != nil {
			t.Fatalf("GetLinearScan(%s): %v", key, err)
		}
		if indexedOK != scannedOK || string(indexed) != string(scanned) {
			t.Fatalf("Get(%s)=(%q,%v) disagrees with GetLinearScan=(%q,%v)",
				key, indexed, indexedOK, scanned, scannedOK)
		}
	}
}

func TestPutRejectsEmptyKey(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Put([]byte(""), []byte("v")); err == nil {
		t.Fatal("Put with empty key succeeded, want validation error")
	}
}

func TestOperationsFailAfterClose(t *testing.T) {
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := s.Put([]byte("k"), []byte("v")); err != ErrStoreClosed {
		t.Fatalf("Put after Close = %v, want ErrStoreClosed", err)
	}
}
