package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"obras/internal/log"
	"obras/internal/report"
)

const csvContentType = "text/csv; charset=utf-8"

// Gateway writes report tables to a staging file and uploads them under a
// fixed folder of the store.
type Gateway struct {
	store   Uploader
	folder  string
	workDir string
	logger  *log.Logger
}

// NewGateway creates a gateway. An empty workDir stages files in the OS
// temporary directory.
func NewGateway(store Uploader, folder, workDir string, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Gateway{
		store:   store,
		folder:  strings.Trim(folder, "/"),
		workDir: workDir,
		logger:  logger.WithComponent(log.ComponentStorage),
	}
}

// Key returns the object key a file named name is uploaded to.
func (g *Gateway) Key(name string) string {
	return JoinKey(g.folder, name)
}

// WriteAndUpload writes t as a CSV to a staging file and uploads it as
// <folder>/<name>. The staging file is removed once the upload succeeds and
// kept for inspection when it fails.
func (g *Gateway) WriteAndUpload(ctx context.Context, t report.Table, name string) (string, error) {
	if g.workDir != "" {
		if err := os.MkdirAll(g.workDir, 0o755); err != nil {
			return "", fmt.Errorf("create work dir: %w", err)
		}
	}
	f, err := os.CreateTemp(g.workDir, "*-"+filepath.Base(name))
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	staged := f.Name()

	if err := WriteCSV(f, t); err != nil {
		f.Close()
		os.Remove(staged)
		return "", fmt.Errorf("write csv: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		os.Remove(staged)
		return "", fmt.Errorf("rewind staging file: %w", err)
	}

	key := g.Key(name)
	location, err := g.store.Upload(ctx, key, f, csvContentType)
	f.Close()
	if err != nil {
		g.logger.WarnContext(ctx, "Upload failed, staging file kept",
			log.FieldOperation, log.OpUpload, "key", key, "staged", staged, log.FieldError, err)
		return "", fmt.Errorf("upload %s (staged at %s): %w", key, staged, err)
	}

	if err := os.Remove(staged); err != nil {
		g.logger.WarnContext(ctx, "Failed to remove staging file", "staged", staged, log.FieldError, err)
	}
	g.logger.InfoContext(ctx, "Report uploaded",
		log.FieldOperation, log.OpUpload, log.FieldLocation, location, log.FieldRows, t.Len())
	return location, nil
}

// JoinKey joins object key segments with "/".
func JoinKey(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}
