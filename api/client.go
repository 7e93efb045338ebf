// Package api is the console's client for the product backend. Every call
// goes through the authenticating transport.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"

	"github.com/jrsteele09/product-console/authbackend"
)

// Transporter wraps a base transport with request authentication.
type Transporter interface {
	Transport(base http.RoundTripper) http.RoundTripper
}

// Client calls the dashboard, product and profile endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type clientConfig struct {
	cache    bool
	cacheDir string
	base     http.RoundTripper
}

type Option func(*clientConfig)

// WithResponseCache caches GET responses the backend marks cacheable. An
// empty dir keeps the cache in memory.
func WithResponseCache(dir string) Option {
	return func(c *clientConfig) {
		c.cache = true
		c.cacheDir = dir
	}
}

// WithBaseTransport sets the transport under authentication and caching.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) {
		c.base = rt
	}
}

// NewClient builds a client whose requests are authenticated by auth. The
// cache, when enabled, sits below authentication so cached entries are
// matched against the Authorization header the backend varies on.
func NewClient(baseURL string, auth Transporter, options ...Option) *Client {
	cfg := &clientConfig{base: http.DefaultTransport}
	for _, opt := range options {
		opt(cfg)
	}

	base := cfg.base
	if cfg.cache {
		var cache httpcache.Cache = httpcache.NewMemoryCache()
		if cfg.cacheDir != "" {
			cache = diskcache.New(cfg.cacheDir)
		}
		t := httpcache.NewTransport(cache)
		t.Transport = base
		base = t
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: auth.Transport(base)},
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &authbackend.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}
