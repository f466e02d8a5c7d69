// Package api is the HTTP client for the caredash backend. Responses arrive
// wrapped as {"data": ...}; failures as {"error": {"code", "message", "details"}}.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/caredash/caredash/internal/errors"
	"github.com/caredash/caredash/internal/log"
)

const (
	maxResponseBytes = 8 << 20
	maxErrorText     = 200
)

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource supplies the bearer token for each request.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *errorBody      `json:"error"`
}

type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return apperrors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("api request failed", "method", method, "path", path, "error", err)
		return apperrors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Wrapf(err, "read %s", path)
	}
	log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	return decode(resp.StatusCode, raw, out)
}

// decode unwraps the response envelope into out, or returns *Error.
func decode(status int, raw []byte, out any) error {
	var env envelope
	jsonErr := json.Unmarshal(raw, &env)

	if status >= http.StatusBadRequest || env.Error != nil {
		apiErr := &Error{Status: status}
		switch {
		case jsonErr == nil && env.Error != nil:
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		default:
			apiErr.Message = truncate(strings.TrimSpace(string(raw)), maxErrorText)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if jsonErr != nil {
		return apperrors.Wrap(jsonErr, "decode response")
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("decode response: missing data")
	}
	return apperrors.Wrap(json.Unmarshal(env.Data, out), "decode response data")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
