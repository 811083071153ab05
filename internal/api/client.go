// Package api is the HTTP client for the project management backend.
//
// Every remote operation is a method on Client. Failures surface as either
// *APIError (the server answered with a non-2xx status) or
// *ConnectionError (no answer at all).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dori/tablero/internal/health"
	"github.com/dori/tablero/internal/model"
	"github.com/sethvargo/go-retry"
)

const maxResponseBytes = 8 << 20

var errEmptyID = errors.New("empty identifier")

// Options configures a Client
type Options struct {
	BaseURL    string        // e.g. http://localhost:8000/api
	Timeout    time.Duration // transport-level timeout; 0 means none
	MaxRetries int           // retries for GET requests that got no response
	RetryDelay time.Duration // initial backoff between those retries
	Logger     *slog.Logger
	HTTPClient *http.Client // optional; overrides Timeout
}

// Client talks to the backend REST API
type Client struct {
	baseURL    string
	healthURL  string
	http       *http.Client
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

// New creates a client for the API rooted at opts.BaseURL
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 100 * time.Millisecond
	}

	return &Client{
		baseURL:    base,
		healthURL:  health.URL(base),
		http:       httpClient,
		maxRetries: max(opts.MaxRetries, 0),
		retryDelay: retryDelay,
		log:        logger.With("component", "api"),
	}, nil
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckHealth probes the liveness endpoint once. It never fails: an
// unreachable backend yields an unhealthy result.
func (c *Client) CheckHealth(ctx context.Context) health.Result {
	res := health.Probe(ctx, c.http, c.healthURL)
	c.log.Debug("health check", "url", c.healthURL, "status", res.Status, "reason", res.Reason)
	return res
}

// do sends a JSON request and decodes the JSON response into out.
// GET requests that fail to reach the server are retried with exponential
// backoff; nothing else is.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
	}

	if method != http.MethodGet || c.maxRetries == 0 {
		return c.send(ctx, method, path, payload, out)
	}

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewExponential(c.retryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.send(ctx, method, path, payload, out)
		if IsConnection(err) {
			c.log.Warn("request failed, retrying", "method", method, "path", path, "attempt", attempt, "err", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Error("request failed", "method", method, "path", path, "err", err)
		return &ConnectionError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &ConnectionError{URL: c.baseURL, Err: err}
	}

	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, data)
		c.log.Warn("request rejected", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// idPath joins a collection path and an escaped identifier
func idPath(collection string, id model.ID) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%s: %w", collection, errEmptyID)
	}
	return collection + "/" + url.PathEscape(string(id)), nil
}
