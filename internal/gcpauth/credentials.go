// Package gcpauth resolves Google service account credentials from the
// environment for the Cloud Storage and Sheets clients.
package gcpauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/option"
)

// ErrMissingCredentials is returned when none of the credential variables is set.
var ErrMissingCredentials = errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")

// Source names where the credentials come from.
type Source struct {
	JSON string
	File string
}

// SourceFromEnv reads GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// and, as a fallback for the file, GOOGLE_APPLICATION_CREDENTIALS.
func SourceFromEnv() Source {
	src := Source{
		JSON: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")),
		File: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")),
	}
	if src.JSON == "" && src.File == "" {
		src.File = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	return src
}

func (s Source) IsZero() bool {
	return s.JSON == "" && s.File == ""
}

// CredentialsJSON returns the raw service account key. Inline JSON wins over
// the file.
func (s Source) CredentialsJSON(ctx context.Context) ([]byte, error) {
	switch {
	case s.JSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials", "json_length", len(s.JSON))
		return []byte(s.JSON), nil
	case s.File != "":
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.DebugContext(ctx, "Read credentials file", "path", s.File, "size", len(data))
		return data, nil
	default:
		return nil, ErrMissingCredentials
	}
}

// ClientOptions builds the client options for a Google API service limited
// to the given scopes.
func (s Source) ClientOptions(ctx context.Context, scopes ...string) ([]option.ClientOption, error) {
	creds, err := s.CredentialsJSON(ctx)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{
		option.WithCredentialsJSON(creds),
		option.WithScopes(scopes...),
	}, nil
}
