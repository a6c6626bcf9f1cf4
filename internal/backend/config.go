package backend

import (
	"errors"
	"fmt"
	"strings"

	"obras/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	storageType := StorageType(appConfig.StorageBackend)
	if !storageType.IsValid() {
		return Config{}, fmt.Errorf("invalid storage backend in config: %s (valid: %s)",
			appConfig.StorageBackend, strings.Join(GetStorageTypeStrings(), ", "))
	}

	return Config{
		Type:     storageType,
		Bucket:   appConfig.StorageBucket,
		LocalDir: appConfig.StorageLocalDir,

		Credentials: appConfig.GoogleCredentials(),

		SpreadsheetID: appConfig.GoogleSpreadsheetID,
		SheetPrefix:   appConfig.GoogleSheetName,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
		AMQPRetries:  appConfig.AMQPRetries,

		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid storage type: %s", c.Type)
	}

	switch c.Type {
	case GCSStorage:
		if c.Bucket == "" {
			return errors.New("bucket is required for gcs storage")
		}
		if c.Credentials.IsZero() {
			return errors.New("service account credentials are required for gcs storage")
		}
	case LocalStorage:
		if c.LocalDir == "" {
			return errors.New("local directory is required for local storage")
		}
	}

	if c.SpreadsheetID != "" && c.Credentials.IsZero() {
		return errors.New("service account credentials are required for the sheets mirror")
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return errors.New("AMQP exchange and queue are required when AMQP is enabled")
	}
	return nil
}

// GetStorageTypes returns all valid storage types
func GetStorageTypes() []StorageType {
	return []StorageType{GCSStorage, LocalStorage}
}

// GetStorageTypeStrings returns all valid storage type strings
func GetStorageTypeStrings() []string {
	types := GetStorageTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
