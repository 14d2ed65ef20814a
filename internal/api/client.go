// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// retryBackoff is the pause between read attempts. Reads get a small fixed
// number of extra attempts; mutations are never retried.
const retryBackoff = 250 * time.Millisecond

// Client talks to the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Tests use this to
// point at an httptest server with a short timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries sets how many extra attempts a failed read gets.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a backend API client for the given base URL, e.g.
// "http://localhost:8000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		maxRetries: 2,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes a single backend call.
type request struct {
	method  string
	path    string
	query   url.Values
	token   string         // bearer token, empty for anonymous calls
	cookies []*http.Cookie // forwarded cookies (refresh flow)
	body    any            // JSON-encoded when non-nil
	rawBody io.Reader      // used verbatim when set, wins over body
	rawType string         // Content-Type for rawBody
}

// response carries the decoded outcome of a backend call.
type response struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    []byte
}

// do performs one HTTP round trip. Non-2xx statuses become *Error; transport
// failures become *Error with KindUnavailable so the retry policy can treat
// them uniformly.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.rawBody != nil:
		body = req.rawBody
		contentType = req.rawType
	case req.body != nil:
		buf, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for _, ck := range req.cookies {
		httpReq.AddCookie(ck)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{
			Kind:    KindUnavailable,
			Status:  http.StatusBadGateway,
			Message: "Backend is unreachable",
			Details: err.Error(),
		}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, decodeError(httpResp)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &response{
		status:  httpResp.StatusCode,
		header:  httpResp.Header,
		cookies: httpResp.Cookies(),
		body:    respBody,
	}, nil
}

// doRead performs a read with the retry policy: up to maxRetries extra
// attempts with constant backoff. Not-found and auth failures are terminal,
// a retry cannot change them.
func (c *Client) doRead(ctx context.Context, req request) (*response, error) {
	var resp *response

	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewConstant(retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		resp, err = c.do(ctx, req)
		if err == nil {
			return nil
		}
		if IsNotFound(err) || IsUnauthorized(err) {
			return err
		}
		c.log.Warn("backend read failed, retrying",
			"method", req.method, "path", req.path, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// decode unmarshals a response body into v.
func decode[T any](resp *response) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(resp.body, v); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return v, nil
}

// listQuery builds the query string for a filtered, paginated list call.
// Empty filter values and default pagination values are omitted entirely.
func listQuery(filters map[string]string, pageIndex, pageSize, defaultSize int) url.Values {
	q := url.Values{}
	for key, val := range filters {
		if val != "" {
			q.Set(key, val)
		}
	}
	if pageIndex > 1 {
		q.Set("pageIndex", strconv.Itoa(pageIndex))
	}
	if pageSize > 0 && pageSize != defaultSize {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	return q
}
