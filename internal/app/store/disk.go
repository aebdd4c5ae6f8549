package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// diskStore implements FileStore on a local directory.
type diskStore struct {
	root string
}

// newDiskStore creates the storage root if it does not exist yet.
func newDiskStore(root string) (*diskStore, error) {
	if root == "" {
		root = "uploads"
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}

	return &diskStore{root: root}, nil
}

// resolve maps a client-supplied file name to a path under the storage root.
// Absolute paths and names that traverse above the root are rejected; relative
// subdirectory names are allowed.
func (d *diskStore) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty file name")
	}

	if filepath.IsAbs(name) {
		return "", fmt.Errorf("absolute file name %q not allowed", name)
	}

	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file name %q escapes storage root", name)
	}

	return filepath.Join(d.root, clean), nil
}

// List returns the names of the regular files directly under the storage root.
func (d *diskStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list storage root: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (d *diskStore) Read(_ context.Context, name string) ([]byte, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Write stores the content under a temporary name first and renames it into
// place, so a concurrent Read sees either the old content or the complete new
// content, never an interleaving.
func (d *diskStore) Write(_ context.Context, name string, data []byte) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directories for %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store %s: %w", name, err)
	}

	return nil
}
