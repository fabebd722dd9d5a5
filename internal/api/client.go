// Package api wraps the outbound HTTP calls made to the HOM Pulse REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"hompulse/console/internal/log"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 8 << 20

// TokenSource supplies the bearer token attached to requests.
// An empty token means the request is sent without Authorization.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() (string, error)

// Token returns the result of f
func (f TokenFunc) Token() (string, error) { return f() }

// Config holds client configuration.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond int
	Burst             int
	HTTPClient        *http.Client
}

// Client issues JSON requests against a single API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// New creates a new API client
func New(cfg Config, tokens TokenSource, logger *log.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		tokens:     tokens,
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// Patch sends a partial update
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out)
}

// Put sends a full replacement
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

// Delete removes the resource at path; out may be nil
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// PostForm sends url-encoded form values, as the login endpoint expects
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	body, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	body, err := c.do(ctx, method, path, reader, contentType)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// do performs one round-trip and returns the body of a 2xx response.
// Non-2xx responses are returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			// Wait fails early, without ctx expiring, when the pacing delay would outlast the deadline
			if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
				return nil, fmt.Errorf("rate limit wait: %w: %v", context.DeadlineExceeded, err)
			}
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "API request failed", log.Fields{
			"method":     method,
			"path":       path,
			"request_id": requestID,
			"error":      err,
		})
		return nil, fmt.Errorf("send request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug(ctx, "API request", log.Fields{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"request_id":  requestID,
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(respBody),
		}
	}
	return respBody, nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func decodeInto(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// IsTimeout reports whether err was caused by an expired deadline
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
