// Package pypi fetches package release data from the two PyPI data sources:
// the pypi.org JSON API and the pypi-browser.org wheel browser. JSON
// responses become typed structs; scraped METADATA text is handed to
// [metadata.Parse].
package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MohammadRaziei/pip-browse/pkg/httputil"
)

const (
	// DefaultTimeout matches the original tool's request timeout.
	DefaultTimeout = 15 * time.Second

	defaultJSONBaseURL    = "https://pypi.org/pypi"
	defaultBrowserBaseURL = "https://pypi-browser.org/package"

	userAgent = "pip-browse (+https://github.com/MohammadRaziei/pip-browse)"
)

var (
	// ErrNotFound is returned when a package or page doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client talks to pypi.org and pypi-browser.org. Responses are cached
// through an [httputil.Cache] and transient failures retried with backoff.
//
// The zero value is not usable; construct with [NewClient]. A Client is safe
// for concurrent use as long as its cache is.
type Client struct {
	// JSONBaseURL and BrowserBaseURL point at the two data sources and exist
	// so tests can aim the client at an httptest server.
	JSONBaseURL    string
	BrowserBaseURL string

	http  *http.Client
	cache *httputil.Cache
}

// NewClient creates a Client with the given cache and request timeout.
// A zero timeout selects [DefaultTimeout].
func NewClient(cache *httputil.Cache, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		JSONBaseURL:    defaultJSONBaseURL,
		BrowserBaseURL: defaultBrowserBaseURL,
		http:           &http.Client{Timeout: timeout},
		cache:          cache,
	}
}

// cached retrieves key from the cache or runs fetch and stores its result.
// refresh bypasses the cache lookup but still updates the entry.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh && c.cache != nil {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

// getJSON performs a GET request and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// getText performs a GET request and returns the response body as a string.
func (c *Client) getText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
