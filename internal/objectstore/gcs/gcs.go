// Package gcs implements the object store on Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gstorage "google.golang.org/api/storage/v1"

	"obras/internal/gcpauth"
	"obras/internal/objectstore"
)

type Store struct {
	svc    *gstorage.Service
	bucket string
}

var _ objectstore.Store = (*Store)(nil)

// New creates a store for bucket using the given client options.
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Store, error) {
	if bucket == "" {
		return nil, errors.New("missing bucket name")
	}
	svc, err := gstorage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &Store{svc: svc, bucket: bucket}, nil
}

// NewFromSource authenticates with the service account described by src.
func NewFromSource(ctx context.Context, bucket string, src gcpauth.Source) (*Store, error) {
	opts, err := src.ClientOptions(ctx, gstorage.DevstorageReadWriteScope)
	if err != nil {
		return nil, err
	}
	return New(ctx, bucket, opts...)
}

func (s *Store) Bucket() string {
	return s.bucket
}

// Location returns the gs:// URL of key.
func (s *Store) Location(key string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, key)
}

func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	obj := &gstorage.Object{Name: key, ContentType: contentType}
	_, err := s.svc.Objects.Insert(s.bucket, obj).
		Media(r, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", key, mapError(err, key))
	}
	return s.Location(key), nil
}

func (s *Store) Download(ctx context.Context, key string, w io.Writer) error {
	resp, err := s.svc.Objects.Get(s.bucket, key).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("get %s: %w", key, mapError(err, key))
	}
	defer resp.Body.Close()
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]objectstore.Object, error) {
	call := s.svc.Objects.List(s.bucket).Context(ctx)
	if prefix != "" {
		call = call.Prefix(prefix)
	}

	var objects []objectstore.Object
	err := call.Pages(ctx, func(page *gstorage.Objects) error {
		for _, item := range page.Items {
			obj := objectstore.Object{Key: item.Name, Size: int64(item.Size)}
			if t, err := time.Parse(time.RFC3339, item.Updated); err == nil {
				obj.Updated = t
			}
			objects = append(objects, obj)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, mapError(err, prefix))
	}
	return objects, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.svc.Objects.Delete(s.bucket, key).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s: %w", key, mapError(err, key))
	}
	return nil
}

// Check confirms the bucket exists and is visible to the account.
func (s *Store) Check(ctx context.Context) error {
	if _, err := s.svc.Buckets.Get(s.bucket).Context(ctx).Do(); err != nil {
		return fmt.Errorf("bucket %s: %w", s.bucket, mapError(err, s.bucket))
	}
	return nil
}

func mapError(err error, name string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", objectstore.ErrNotFound, name)
	}
	return err
}
