package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf})

	logger.WithComponent(ComponentJob).Info("report uploaded", FieldRows, 3)

	out := buf.String()
	if !strings.Contains(out, "component=report_job") {
		t.Errorf("expected component in output, got %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Errorf("component must appear once, got %q", out)
	}
	if !strings.Contains(out, "rows=3") {
		t.Errorf("expected rows field, got %q", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := New(Config{Component: ComponentAPI, Output: &bytes.Buffer{}})
	ctx := NewContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatalf("expected logger from context")
	}
	if got := FromContext(context.Background()); got.Component() != ComponentApp {
		t.Fatalf("fallback component = %q", got.Component())
	}
}

func TestTransportLogsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf})
	client := &http.Client{Transport: NewTransport(nil, logger)}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/client/report/summary/7", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "status_code=404") {
		t.Errorf("expected warn record with status, got %q", out)
	}
	if strings.Contains(out, "secret-token") {
		t.Errorf("headers must not be logged: %q", out)
	}
}

func TestTransportUsesContextLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	ctx := NewContext(context.Background(), New(Config{Output: &buf}))
	client := &http.Client{Transport: NewTransport(nil, nil)}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/health", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "component=transport") {
		t.Errorf("expected error record from the context logger, got %q", out)
	}
}
