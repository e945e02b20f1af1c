package options

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultOptions(t *testing.T) {
	opts := NewDefaultOptions()
	if opts.Path != DefaultPath {
		t.Fatalf("Path = %q, want %q", opts.Path, DefaultPath)
	}
	if opts.InitialCapacity != DefaultInitialCapacity {
		t.Fatalf("InitialCapacity = %d, want %d", opts.InitialCapacity, DefaultInitialCapacity)
	}
	if opts.DisableBloomFilter || opts.DisableSyncOnAppend {
		t.Fatal("default options must not disable any durability or accelerator feature")
	}
}

func TestOptionFuncsApplyOverDefaults(t *testing.T) {
	opts := NewDefaultOptions()
	WithPath("custom.db")(&opts)
	WithInitialCapacity(128)(&opts)
	WithBloomFilterDisabled()(&opts)
	WithSyncOnAppendDisabled()(&opts)

	if opts.Path != "custom.db" {
		t.Fatalf("Path = %q, want custom.db", opts.Path)
	}
	if opts.InitialCapacity != 128 {
		t.Fatalf("InitialCapacity = %d, want 128", opts.InitialCapacity)
	}
	if !opts.DisableBloomFilter || !opts.DisableSyncOnAppend {
		t.Fatal("With* toggles did not apply")
	}
}

func TestWithPathIgnoresBlank(t *testing.T) {
	opts := NewDefaultOptions()
	WithPath("   ")(&opts)
	if opts.Path != DefaultPath {
		t.Fatalf("Path = %q, want unchanged default %q", opts.Path, DefaultPath)
	}
}

func TestWithInitialCapacityIgnoresNonPositive(t *testing.T) {
	opts := NewDefaultOptions()
	WithInitialCapacity(0)(&opts)
	WithInitialCapacity(-5)(&opts)
	if opts.InitialCapacity != DefaultInitialCapacity {
		t.Fatalf("InitialCapacity = %d, want unchanged default %d", opts.InitialCapacity, DefaultInitialCapacity)
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	opts, err := LoadFile(filepath.Join(dir, "absent.hujson"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if opts != NewDefaultOptions() {
		t.Fatalf("LoadFile(missing) = %+v, want defaults", opts)
	}
}

func TestSaveThenLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvforge.hujson")

	want := NewDefaultOptions()
	WithPath("round.db")(&want)
	WithInitialCapacity(64)(&want)
	WithBloomFilterDisabled()(&want)

	if err := SaveFile(path, want); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != want {
		t.Fatalf("LoadFile round trip = %+v, want %+v", got, want)
	}
}

func TestLoadFileAcceptsCommentsAndTrailingCommas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvforge.hujson")
	body := `{
		// path to the log file
		"path": "commented.db",
		"initialCapacity": 17,
		"disableBloomFilter": true,
		"disableSyncOnAppend": false, // trailing comma above is allowed too
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Path != "commented.db" || got.InitialCapacity != 17 || !got.DisableBloomFilter {
		t.Fatalf("LoadFile = %+v, want fields from commented hujson", got)
	}
}
