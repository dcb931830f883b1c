// Package jira is a small client for the Jira REST API (v2).
//
// It owns the transport concerns of the tap: basic authentication with an
// API token, request rate limiting and bounded retries on throttling and
// server errors. Responses are decoded with json.Number so that values keep
// their original textual form.
package jira

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

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	apiPrefix = "/rest/api/2"

	defaultUserAgent  = "tap-jira"
	defaultMaxRetries = 3
	defaultTimeout    = 60 * time.Second
)

// Config configures a Client
type Config struct {
	BaseURL  string
	Username string
	Password string

	// UserAgent defaults to "tap-jira"
	UserAgent string

	// RequestsPerSecond of zero or less disables rate limiting
	RequestsPerSecond float64

	// MaxRetries on 429 and 5xx responses; defaults to 3, negative disables retries
	MaxRetries int

	// HTTPClient allows injecting a custom client (tests)
	HTTPClient *http.Client
}

// Client is an authenticated session against one Jira instance
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    time.Duration
}

// New creates a client; no request is made until the first call
func New(config Config) *Client {
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaultMaxRetries
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		backoff:    500 * time.Millisecond,
	}
}

// HTTPError is returned for any non-2xx response
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("jira: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// get performs a GET against the API, retrying throttled and failed requests, and decodes the body into target
func (c *Client) get(ctx context.Context, path string, query url.Values, target interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= max(c.config.MaxRetries, 0); attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<uint(attempt-1))
			log.WithFields(log.Fields{
				"path":    path,
				"attempt": attempt,
				"wait":    wait.String(),
				"error":   lastErr,
			}).Warn("retrying jira request")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.getOnce(ctx, path, query)
		if err == nil {
			decoder := json.NewDecoder(bytes.NewReader(body))
			decoder.UseNumber()
			if err := decoder.Decode(target); err != nil {
				return fmt.Errorf("error decoding response from %s: %w", path, err)
			}
			return nil
		}

		lastErr = err
		httpErr, ok := err.(*HTTPError)
		if !ok || !httpErr.retryable() {
			return err
		}
	}

	return fmt.Errorf("max retries exceeded for %s: %w", path, lastErr)
}

func (c *Client) getOnce(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := strings.TrimSuffix(c.config.BaseURL, "/") + apiPrefix + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating get request: %w", err)
	}
	req.SetBasicAuth(c.config.Username, c.config.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	log.WithFields(log.Fields{"url": fullURL}).Debug("jira request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	return body, nil
}
