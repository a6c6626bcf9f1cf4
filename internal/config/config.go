package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"obras/internal/core"
	"obras/internal/gcpauth"
	"obras/internal/report"
)

const (
	DefaultBaseURL = "https://sistema.harcaengenharia.com.br/api"

	StorageGCS   = "gcs"
	StorageLocal = "local"
)

type Config struct {
	// Platform API
	BaseURL     string
	Email       string
	Password    string
	HTTPTimeout time.Duration

	// Report
	ReportMode     string
	ReferenceMonth string // MM/YYYY, empty means the current month

	// Object storage
	StorageBackend  string
	StorageBucket   string
	StorageFolder   string
	StorageLocalDir string
	WorkDir         string

	// Google service account, shared by Cloud Storage and Sheets
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Sheets mirror (optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// AMQP notifications (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	AMQPRetries  int

	// Run history (optional)
	SQLiteDBPath string

	LogLevel string
}

func Load() *Config {
	creds := gcpauth.SourceFromEnv()
	cfg := &Config{
		BaseURL:     getEnv("BASE_URL", DefaultBaseURL),
		Email:       getEnv("EMAIL", ""),
		Password:    getEnv("PASSWORD", ""),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		ReportMode:     getEnv("REPORT_MODE", string(report.ModeSingle)),
		ReferenceMonth: getEnv("REFERENCE_MONTH", ""),

		StorageBackend:  getEnv("STORAGE_BACKEND", StorageGCS),
		StorageBucket:   getEnv("STORAGE_BUCKET", "sistema-harca"),
		StorageFolder:   getEnv("STORAGE_FOLDER", "reports"),
		StorageLocalDir: getEnv("STORAGE_LOCAL_DIR", "./data/reports"),
		WorkDir:         getEnv("WORK_DIR", ""),

		GoogleServiceAccountJSON: creds.JSON,
		GoogleServiceAccountFile: creds.File,

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Relatorios"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "obras"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "reports_published"),
		AMQPRetries:  getEnvInt("AMQP_PUBLISH_RETRIES", 3),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Platform API
	if parsedURL, err := url.Parse(c.BaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid BASE_URL '%s': %v", c.BaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid BASE_URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}
	if c.Email == "" {
		errors = append(errors, "EMAIL is required")
	}
	if c.Password == "" {
		errors = append(errors, "PASSWORD is required")
	}
	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 10 minutes", c.HTTPTimeout))
	}

	// Report
	if !report.Mode(c.ReportMode).IsValid() {
		errors = append(errors, fmt.Sprintf("invalid report mode '%s': must be one of [single monthly]", c.ReportMode))
	}
	if c.ReferenceMonth != "" {
		if _, err := core.ParseMonth(c.ReferenceMonth); err != nil {
			errors = append(errors, fmt.Sprintf("invalid REFERENCE_MONTH '%s': must be MM/YYYY", c.ReferenceMonth))
		}
	}

	// Object storage
	switch c.StorageBackend {
	case StorageGCS:
		if c.StorageBucket == "" {
			errors = append(errors, "storage bucket cannot be empty when using gcs backend")
		}
		if c.GoogleCredentials().IsZero() {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for gcs backend")
		}
	case StorageLocal:
		if c.StorageLocalDir == "" {
			errors = append(errors, "local storage directory cannot be empty when using local backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be one of [gcs local]", c.StorageBackend))
	}

	// Service account file must exist when given
	if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}

	// Sheets mirror
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleCredentials().IsZero() {
			errors = append(errors, "Google service account credentials are required when GOOGLE_SPREADSHEET_ID is set")
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRetries < 1 || c.AMQPRetries > 10 {
			errors = append(errors, fmt.Sprintf("invalid AMQP publish retries %d: must be between 1 and 10", c.AMQPRetries))
		}
	}

	// Run history database directory must exist or be creatable
	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Mode returns the configured report mode.
func (c *Config) Mode() report.Mode {
	return report.Mode(c.ReportMode)
}

// Reference returns REFERENCE_MONTH, or the month of now when unset.
func (c *Config) Reference(now time.Time) (core.Month, error) {
	if c.ReferenceMonth == "" {
		return core.MonthOf(now), nil
	}
	return core.ParseMonth(c.ReferenceMonth)
}

// GoogleCredentials returns where the service account key comes from.
func (c *Config) GoogleCredentials() gcpauth.Source {
	return gcpauth.Source{
		JSON: c.GoogleServiceAccountJSON,
		File: c.GoogleServiceAccountFile,
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
