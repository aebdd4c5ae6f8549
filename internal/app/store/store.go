/*
Package store provides the file content repository used by the transfer commands.

This file defines the FileStore interface and the factory that selects a
concrete backend from configuration: a local directory (the default) or an
S3-compatible bucket.
*/
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound signals that the named file does not exist in the store.
// Callers distinguish it from I/O failures via errors.Is.
var ErrNotFound = errors.New("file not found")

// Backend identifiers accepted by the factory.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// ServiceConfig holds the configuration required to construct a FileStore.
type ServiceConfig struct {
	// Backend selects the implementation: "disk" or "s3".
	Backend string

	// Dir is the storage root directory for the disk backend.
	Dir string

	// S3 connection settings, used only by the s3 backend.
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// FileStore is a mapping from file name to byte content. Whole files are read
// and written in single operations; concurrent writers of the same name are
// last-writer-wins, and a concurrent reader never observes a partial write.
type FileStore interface {
	// List returns the file names present in the store. A missing storage
	// root is an empty listing, not an error.
	List(ctx context.Context) ([]string, error)

	// Read returns the named file's content, or an error wrapping ErrNotFound.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores data under name, creating parent directories as needed and
	// overwriting existing content.
	Write(ctx context.Context, name string, data []byte) error
}

// NewFileStore constructs the FileStore implementation selected by cfg.Backend.
func NewFileStore(cfg ServiceConfig) (FileStore, error) {
	switch cfg.Backend {
	case BackendDisk, "":
		return newDiskStore(cfg.Dir)
	case BackendS3:
		return newS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
