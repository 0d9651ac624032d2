// Package formio implements an HTTP client for a Form.io-style form service.
//
// A Client is bound to one resource URL (a submission or a submission
// collection) and exposes the three calls the submission store needs.
// Transport, auth headers and JSON handling live here; callers never see
// anything but records and errors.
package formio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pithecene-io/formstate/iox"
	"github.com/pithecene-io/formstate/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// TokenHeader carries the form-service JWT.
const TokenHeader = "x-jwt-token"

// maxErrorBody bounds how much of a non-2xx body is kept on StatusError.
const maxErrorBody = 4 << 10

// Options configures a Client.
type Options struct {
	// Token is sent as the x-jwt-token header when set.
	Token string
	// Headers are custom HTTP headers added to each request.
	Headers map[string]string
	// Timeout is the per-request timeout (default 30s). Ignored when HTTPClient is set.
	Timeout time.Duration
	// HTTPClient overrides the underlying client.
	HTTPClient *http.Client
}

// Client talks to a single form-service resource URL.
type Client struct {
	url    string
	opts   Options
	client *http.Client
}

// New creates a client bound to url.
func New(url string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{url: url, opts: opts, client: hc}
}

// URL returns the resource URL the client is bound to.
func (c *Client) URL() string {
	return c.url
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	Code int
	// Body is the (truncated) response body; the form service puts its
	// human-readable reason here.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

// LoadSubmission fetches the submission at the bound URL.
func (c *Client) LoadSubmission(ctx context.Context) (types.Submission, error) {
	var out types.Submission
	if err := c.do(ctx, http.MethodGet, nil, &out); err != nil {
		return nil, fmt.Errorf("formio: load submission: %w", err)
	}
	return out, nil
}

// SaveSubmission persists data. Records carrying an _id are updated with PUT,
// records without one are created with POST. The bound URL must match.
func (c *Client) SaveSubmission(ctx context.Context, data types.Submission) (types.Submission, error) {
	method := http.MethodPost
	if data.HasID() {
		method = http.MethodPut
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("formio: marshal submission: %w", err)
	}

	var out types.Submission
	if err := c.do(ctx, method, body, &out); err != nil {
		return nil, fmt.Errorf("formio: save submission: %w", err)
	}
	return out, nil
}

// DeleteSubmission removes the submission at the bound URL.
func (c *Client) DeleteSubmission(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, nil, nil); err != nil {
		return fmt.Errorf("formio: delete submission: %w", err)
	}
	return nil
}

// do performs one request. out may be nil; an empty 2xx body leaves it untouched.
func (c *Client) do(ctx context.Context, method string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.opts.Token != "" {
		req.Header.Set(TokenHeader, c.opts.Token)
	}
	for k, v := range c.opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer iox.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: iox.ReadSnippet(resp.Body, maxErrorBody)}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
