// Package objectstore stages report tables as CSV files and uploads them to
// a bucket-like object store.
package objectstore

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("object not found")

// Object describes a stored object.
type Object struct {
	Key     string
	Size    int64
	Updated time.Time
}

// Uploader stores the content of r under key and returns the object location
// (for example "gs://bucket/reports/file.csv").
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type Downloader interface {
	Download(ctx context.Context, key string, w io.Writer) error
}

// Lister lists objects whose key starts with prefix, ordered by key.
type Lister interface {
	List(ctx context.Context, prefix string) ([]Object, error)
}

type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Checker verifies the store is reachable and writable by this account.
type Checker interface {
	Check(ctx context.Context) error
}

// Store is the full set of operations a backend offers.
type Store interface {
	Uploader
	Downloader
	Lister
	Deleter
	Checker
	Location(key string) string
}
