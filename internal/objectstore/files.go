package objectstore

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
)

// UploadFile uploads the local file at src under key.
func UploadFile(ctx context.Context, store Uploader, src, key string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(src))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return store.Upload(ctx, key, f, contentType)
}

// DownloadFile downloads key into the local file dst. A partial file is
// removed when the download fails.
func DownloadFile(ctx context.Context, store Downloader, key, dst string) (err error) {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()
	return store.Download(ctx, key, f)
}

// DownloadResult reports the outcome of one object in DownloadAll.
type DownloadResult struct {
	Key   string
	Path  string
	Error error
}

// DownloadAll lists every object under prefix and downloads each into dir,
// named after the last segment of its key. Individual failures are reported
// in the results and do not stop the batch.
func DownloadAll(ctx context.Context, store interface {
	Lister
	Downloader
}, prefix, dir string) ([]DownloadResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	objects, err := store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}

	results := make([]DownloadResult, 0, len(objects))
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		dst := filepath.Join(dir, path.Base(obj.Key))
		results = append(results, DownloadResult{
			Key:   obj.Key,
			Path:  dst,
			Error: DownloadFile(ctx, store, obj.Key, dst),
		})
	}
	return results, nil
}

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
