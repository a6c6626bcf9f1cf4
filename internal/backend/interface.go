package backend

import (
	"context"

	"obras/internal/amqp"
	"obras/internal/gcpauth"
	"obras/internal/history"
	"obras/internal/objectstore"
	"obras/internal/sheets"
)

// Components holds the adapters a run is wired with. Mirror, Publisher and
// History are nil when their feature is not configured.
type Components struct {
	Store     objectstore.Store
	Mirror    sheets.TableWriter
	Publisher *amqp.Client
	History   *history.SQLiteRepository
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the components and their cleanup function
type BackendResult struct {
	Components
	Cleanup CleanupFunc
}

// Factory creates components based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Object storage
	Type     StorageType
	Bucket   string
	LocalDir string

	// Shared by Cloud Storage and Sheets
	Credentials gcpauth.Source

	// Sheets mirror
	SpreadsheetID string
	SheetPrefix   string

	// AMQP notifications
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	AMQPRetries  int

	// Run history
	SQLiteDBPath string
}

// StorageType selects the object store implementation
type StorageType string

const (
	GCSStorage   StorageType = "gcs"
	LocalStorage StorageType = "local"
)

// String implements fmt.Stringer
func (st StorageType) String() string {
	return string(st)
}

// IsValid returns true if the storage type is known
func (st StorageType) IsValid() bool {
	switch st {
	case GCSStorage, LocalStorage:
		return true
	default:
		return false
	}
}
