// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the LegalEagle backend.
//
// The backend is the source of truth for chats, messages and documents;
// this client only moves JSON (and one multipart upload) over HTTPS and
// translates error responses into the client error taxonomy.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is the backend base URL used when no config overrides it.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for API requests. Ask requests
	// run a full retrieval+generation pipeline server-side, so this is
	// deliberately generous.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxRetries is the number of attempts for transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize caps response bodies to bound memory use.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// requestsPerSecond limits outbound request rate so a stuck retry loop
	// or a hot UI path cannot hammer the backend.
	requestsPerSecond = 5
	requestBurst      = 10
)

// userAgent identifies the client to the backend.
const userAgent = "eagle-tui/0.4.0"

// Client is an HTTP client for the LegalEagle backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter

	// token is the session bearer token; empty means unauthenticated.
	token string
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
		maxRetries: DefaultMaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithMaxRetries sets the maximum number of retry attempts.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	c.maxRetries = maxRetries
	return c
}

// SetToken sets the session bearer token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// SetBaseURL replaces the backend base URL. Used by config hot-reload.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// errorBody is the backend's error response shape.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into out (which may be nil to discard the body).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)

	respBody, err := c.do(ctx, req)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// do executes a request with rate limiting and retries, returning the
// response body on success or a taxonomy error on failure.
//
// Retries apply only to transport failures and 5xx responses; 4xx
// responses are classified and returned immediately. Multipart uploads
// call doOnce directly since their bodies cannot be rewound.
func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		reqCopy := req.Clone(ctx)
		if req.GetBody != nil {
			b, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			reqCopy.Body = b
		}

		body, err := c.doOnce(ctx, reqCopy)
		if err == nil {
			return body, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doOnce executes a single request attempt.
func (c *Client) doOnce(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, parseErrorDetail(body))
	}
	return body, nil
}

// setHeaders sets the common headers for backend requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// parseErrorDetail extracts the detail text from an error body, falling
// back to the raw body when it is not the expected JSON shape.
func parseErrorDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			return eb.Detail
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// unmarshalBody decodes a JSON response body into out.
func unmarshalBody(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// readResponse reads the response body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// isRetryable determines if an error should trigger another attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}

	// Taxonomy errors (quota, auth, not-found) are never retryable.
	if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrAuth) || errors.Is(err, ErrNotFound) {
		return false
	}

	// Remaining errors are transport-level and worth one more try.
	return true
}

// backoffDelay returns the delay before the given retry attempt.
func backoffDelay(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// logRequest logs an API request without headers or body.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("api: %s %s", req.Method, req.URL.Path)
}

// logResponse logs an API response status and duration.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("api: %d %s (%v)", resp.StatusCode, resp.Request.URL.Path, duration)
}
