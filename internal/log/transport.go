package log

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport is an http.RoundTripper that logs every outbound request with
// its status and duration. Headers are never logged.
type Transport struct {
	Base   http.RoundTripper
	Logger *Logger
}

// NewTransport wraps base, or http.DefaultTransport when base is nil. A nil
// logger means the logger carried by each request context.
func NewTransport(base http.RoundTripper, logger *Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{Base: base}
	if logger != nil {
		t.Logger = logger.WithComponent(ComponentTransport)
	}
	return t
}

func (t *Transport) logger(req *http.Request) *Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return FromContext(req.Context()).WithComponent(ComponentTransport)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		fields := NewFields().
			WithHTTP(req.Method, req.URL.Path, 0, elapsed).
			WithError(err, ErrorTypeNetwork)
		t.logger(req).WarnContext(req.Context(), "HTTP request failed", fields.ToSlice()...)
		return nil, err
	}

	level := slog.LevelDebug
	switch {
	case resp.StatusCode >= 500:
		level = slog.LevelError
	case resp.StatusCode >= 400:
		level = slog.LevelWarn
	}
	fields := NewFields().WithHTTP(req.Method, req.URL.Path, resp.StatusCode, elapsed)
	t.logger(req).LogContext(req.Context(), level, "HTTP request completed", fields.ToSlice()...)
	return resp, nil
}
