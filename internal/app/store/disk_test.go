package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*diskStore, string) {
	t.Helper()

	dir := t.TempDir()
	d, err := newDiskStore(dir)
	if err != nil {
		t.Fatalf("newDiskStore failed: %v", err)
	}
	return d, dir
}

func TestWriteReadRoundTrip(t *testing.T) {
	d, _ := newTestStore(t)
	ctx := context.Background()

	content := []byte{0x00, 0xDE, 0xAD, 0xBE, 0xEF}
	if err := d.Write(ctx, "blob.bin", content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := d.Read(ctx, "blob.bin")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("round trip = %v, want %v", got, content)
	}
}

func TestWriteOverwritesExisting(t *testing.T) {
	d, _ := newTestStore(t)
	ctx := context.Background()

	if err := d.Write(ctx, "a.txt", []byte("old")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := d.Write(ctx, "a.txt", []byte("new")); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, err := d.Read(ctx, "a.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "new" {
		t.Fatalf("content = %q, want %q", got, "new")
	}
}

func TestReadMissingFileIsNotFound(t *testing.T) {
	d, _ := newTestStore(t)

	_, err := d.Read(context.Background(), "nope.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListMissingRootIsEmpty(t *testing.T) {
	dir := t.TempDir()
	d, err := newDiskStore(dir)
	if err != nil {
		t.Fatalf("newDiskStore failed: %v", err)
	}

	// The root vanishing underneath the store is an empty listing, not an error.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	names, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("listing = %v, want empty", names)
	}
}

func TestListSkipsDirectories(t *testing.T) {
	d, dir := newTestStore(t)
	ctx := context.Background()

	if err := d.Write(ctx, "a.txt", []byte("a")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	names, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 || names[0] != "a.txt" {
		t.Fatalf("listing = %v, want [a.txt]", names)
	}
}

func TestNestedNamesCreateParentDirectories(t *testing.T) {
	d, _ := newTestStore(t)
	ctx := context.Background()

	if err := d.Write(ctx, filepath.Join("nested", "deep", "f.txt"), []byte("x")); err != nil {
		t.Fatalf("nested Write failed: %v", err)
	}

	got, err := d.Read(ctx, filepath.Join("nested", "deep", "f.txt"))
	if err != nil {
		t.Fatalf("nested Read failed: %v", err)
	}
	if string(got) != "x" {
		t.Fatalf("content = %q, want %q", got, "x")
	}
}

func TestTraversalNamesAreRejected(t *testing.T) {
	d, _ := newTestStore(t)
	ctx := context.Background()

	bad := []string{
		"",
		"../escape.txt",
		"../../etc/passwd",
		"sub/../../escape.txt",
		string(filepath.Separator) + "abs.txt",
	}

	for _, name := range bad {
		if err := d.Write(ctx, name, []byte("x")); err == nil {
			t.Fatalf("Write(%q) should be rejected", name)
		}
		if _, err := d.Read(ctx, name); err == nil {
			t.Fatalf("Read(%q) should be rejected", name)
		}
	}
}

func TestFactorySelectsBackend(t *testing.T) {
	s, err := NewFileStore(ServiceConfig{Backend: BackendDisk, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("disk backend failed: %v", err)
	}
	if _, ok := s.(*diskStore); !ok {
		t.Fatalf("backend = %T, want *diskStore", s)
	}

	if _, err := NewFileStore(ServiceConfig{Backend: "tape"}); err == nil {
		t.Fatal("unknown backend should fail")
	}
}
