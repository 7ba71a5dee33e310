package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer c.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	for i := 0; i < 3; i++ {
		c, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		c.Close()
	}
}

func TestAddList_RoundTrip(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	e := Entry{
		Path:     "/data/orbit.bin",
		RunID:    "0198f1e2-0000-7000-8000-000000000001",
		Name:     "kirkwood",
		Nblob:    5,
		Dt:       0.25,
		Interval: 10,
		TMax:     60,
		Size:     880,
	}
	if err := c.Add(ctx, e); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0] != e {
		t.Errorf("round trip mismatch: got %+v, want %+v", entries[0], e)
	}
}

func TestAdd_UpsertsByPath(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	e := Entry{Path: "/data/orbit.bin", Name: "first", Nblob: 2}
	if err := c.Add(ctx, e); err != nil {
		t.Fatalf("first Add() failed: %v", err)
	}
	e.Name = "second"
	e.Nblob = 5
	if err := c.Add(ctx, e); err != nil {
		t.Fatalf("second Add() failed: %v", err)
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after upsert, got %d", len(entries))
	}
	if entries[0].Name != "second" || entries[0].Nblob != 5 {
		t.Errorf("entry was not updated: %+v", entries[0])
	}
}

func TestAdd_NormalizesName(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	// "e" plus combining acute (U+0065 U+0301) must store as NFC U+00E9.
	if err := c.Add(ctx, Entry{Path: "/data/a.bin", Name: "me\u0301thode"}); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if got, want := entries[0].Name, "m\u00e9thode"; got != want {
		t.Errorf("name not normalized: got %q, want %q", got, want)
	}
}

func TestList_OrderedByPath(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	for _, p := range []string{"/data/c.bin", "/data/a.bin", "/data/b.bin"} {
		if err := c.Add(ctx, Entry{Path: p}); err != nil {
			t.Fatalf("Add(%s) failed: %v", p, err)
		}
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	want := []string{"/data/a.bin", "/data/b.bin", "/data/c.bin"}
	for i, w := range want {
		if entries[i].Path != w {
			t.Errorf("entry %d: got %q, want %q", i, entries[i].Path, w)
		}
	}
}
