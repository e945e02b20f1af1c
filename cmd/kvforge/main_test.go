package main

import (
	"path/filepath"
	"testing"
)

func TestPutGetDeleteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvforge.db")

	if err := run([]string{"--db", path, "put", "k", "v"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := run([]string{"--db", path, "get", "k"}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := run([]string{"--db", path, "delete", "k"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := run([]string{"--db", path, "scan", "k"}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if err := run([]string{"--db", path, "stats"}); err != nil {
		t.Fatalf("stats: %v", err)
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvforge.db")
	if err := run([]string{"--db", path, "bogus"}); err == nil {
		t.Fatal("run(bogus) succeeded, want unknown-command error")
	}
}

func TestPutRequiresTwoArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvforge.db")
	if err := run([]string{"--db", path, "put", "onlykey"}); err == nil {
		t.Fatal("put with one arg succeeded, want usage error")
	}
}

func TestNoArgsPrintsUsage(t *testing.T) {
	if err := run(nil); err != nil {
		t.Fatalf("run(nil) = %v, want nil (prints usage)", err)
	}
}
