package gcs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"obras/internal/objectstore"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := New(context.Background(), "sistema-harca",
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":{"code":404,"message":"No such object"}}`))
}

func TestLocation(t *testing.T) {
	s := &Store{bucket: "sistema-harca"}
	if got := s.Location("reports/a.csv"); got != "gs://sistema-harca/reports/a.csv" {
		t.Fatalf("Location = %q", got)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.HasSuffix(r.URL.Path, "/b/sistema-harca/o") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("prefix"); got != "reports/" {
			t.Errorf("prefix = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"kind": "storage#objects",
			"items": [
				{"name": "reports/a.csv", "size": "120", "updated": "2025-03-14T10:00:00Z"},
				{"name": "reports/b.csv", "size": "64", "updated": "not a time"}
			]
		}`))
	})

	objects, err := s.List(context.Background(), "reports/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}
	if objects[0].Key != "reports/a.csv" || objects[0].Size != 120 || objects[0].Updated.Year() != 2025 {
		t.Errorf("unexpected first object %+v", objects[0])
	}
	if !objects[1].Updated.IsZero() {
		t.Errorf("unparseable time should stay zero")
	}
}

func TestDeleteNotFound(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		writeNotFound(w)
	})

	err := s.Delete(context.Background(), "a.csv")
	if !errors.Is(err, objectstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || !strings.HasSuffix(r.URL.Path, "/o/a.csv") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := s.Delete(context.Background(), "a.csv"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestCheck(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/b/sistema-harca") {
			writeNotFound(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"storage#bucket","name":"sistema-harca"}`))
	})
	if err := s.Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestCheckMissingBucket(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})
	if err := s.Check(context.Background()); !errors.Is(err, objectstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") != "media" {
			t.Errorf("expected media download, got query %q", r.URL.RawQuery)
		}
		if strings.HasSuffix(r.URL.Path, "/o/missing.csv") {
			writeNotFound(w)
			return
		}
		_, _ = w.Write([]byte("Item;Serviço\n"))
	})

	var buf strings.Builder
	if err := s.Download(context.Background(), "a.csv", &buf); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if buf.String() != "Item;Serviço\n" {
		t.Errorf("content = %q", buf.String())
	}
	if err := s.Download(context.Background(), "missing.csv", &buf); !errors.Is(err, objectstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "", option.WithoutAuthentication()); err == nil {
		t.Fatalf("expected error for empty bucket")
	}
}
