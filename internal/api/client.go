// Package api talks to the construction management platform: it opens a
// client session and fetches the report summary of each construction.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"obras/internal/log"
)

const maxBodyBytes = 32 << 20

var (
	// ErrUnauthorized means the platform rejected the credentials.
	ErrUnauthorized = errors.New("authentication rejected")
	// ErrNoReport means the platform returned no report for a construction.
	ErrNoReport = errors.New("no report available")
)

// Credentials authenticate a client session.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a platform client rooted at baseURL, for example
// "https://sistema.example.com/api".
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentAPI)

	httpClient := newHTTPClientWithPooling(timeout)
	httpClient.Transport = log.NewTransport(httpClient.Transport, logger)

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// newHTTPClientWithPooling creates an HTTP client with connection pooling
// and keep-alive. timeout bounds every request end to end.
func newHTTPClientWithPooling(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// FetchSession authenticates and returns the access token together with
// the constructions visible to the account. Any status other than 200 or
// 201 yields ErrUnauthorized.
func (c *Client) FetchSession(ctx context.Context, creds Credentials) (*Session, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	resp, err := c.post(ctx, "/client/sessions", bytes.NewReader(body), "")
	if err != nil {
		return nil, fmt.Errorf("request session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		drain(resp.Body)
		err := fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
		c.logger.WarnContext(ctx, "Session rejected", log.NewFields().
			WithOperation(log.OpAuthenticate).
			With(log.FieldStatusCode, resp.StatusCode).
			WithError(err, log.ErrorTypeAuth).ToSlice()...)
		return nil, err
	}

	var s Session
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}

	c.logger.InfoContext(ctx, "Session opened", log.NewFields().
		WithOperation(log.OpAuthenticate).
		With("constructions", len(s.Constructions)).ToSlice()...)
	return &s, nil
}

// FetchProjectReport fetches the report summary of construction id. A
// non-2xx status yields ErrNoReport.
func (c *Client) FetchProjectReport(ctx context.Context, id, token string) (*ProjectPayload, error) {
	resp, err := c.post(ctx, "/client/report/summary/"+id, nil, token)
	if err != nil {
		return nil, fmt.Errorf("request report %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		err := fmt.Errorf("%w: construction %s: status %d", ErrNoReport, id, resp.StatusCode)
		c.logger.DebugContext(ctx, "Report unavailable", log.NewFields().
			WithOperation(log.OpFetch).
			WithProject(id, "").
			WithError(err, log.ErrorTypeNotFound).ToSlice()...)
		return nil, err
	}

	var p ProjectPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = FlexString(id)
	}
	return &p, nil
}

func (c *Client) post(ctx context.Context, path string, body io.Reader, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.httpClient.Do(req)
}

// drain lets the connection be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
}
