package backend

import (
	"context"
	"errors"
	"fmt"

	"obras/internal/amqp"
	"obras/internal/history"
	"obras/internal/log"
	"obras/internal/objectstore"
	"obras/internal/objectstore/gcs"
	"obras/internal/objectstore/local"
	gsheet "obras/internal/sheets/google"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend builds the object store and every optional component that
// is configured. A failing store or history database is fatal; a failing
// mirror or broker only disables that feature.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(ctx, config)
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Components: Components{Store: store}}

	if config.SQLiteDBPath != "" {
		repo, err := history.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize run history: %w", err)
		}
		result.History = repo
		f.logger.Info("Initialized run history", "db_path", config.SQLiteDBPath)
	}

	if config.SpreadsheetID != "" {
		mirror, err := gsheet.NewFromSource(ctx, config.SpreadsheetID, config.SheetPrefix, config.Credentials)
		if err != nil {
			f.logger.Warn("Failed to initialize Sheets mirror, continuing without it", log.FieldError, err)
		} else {
			result.Mirror = mirror
			f.logger.Info("Initialized Sheets mirror", "sheet_prefix", config.SheetPrefix)
		}
	}

	if config.AMQPURL != "" {
		publisher, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, config.AMQPRetries, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without notifications", log.FieldError, err)
		} else {
			result.Publisher = publisher
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	result.Cleanup = result.close
	return result, nil
}

func (f *DefaultFactory) createStore(ctx context.Context, config Config) (objectstore.Store, error) {
	switch config.Type {
	case GCSStorage:
		store, err := gcs.NewFromSource(ctx, config.Bucket, config.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Cloud Storage client: %w", err)
		}
		f.logger.Info("Initialized Cloud Storage backend", "bucket", store.Bucket())
		return store, nil
	case LocalStorage:
		store, err := local.New(config.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		f.logger.Info("Initialized local storage backend", "root", store.Root())
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}

func (r *BackendResult) close() error {
	var errs []error
	if r.Publisher != nil {
		if err := r.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close AMQP client: %w", err))
		}
	}
	if r.History != nil {
		if err := r.History.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close run history: %w", err))
		}
	}
	return errors.Join(errs...)
}
