// Package backend is the HTTP+JSON client of the game backend.
package backend

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
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds snapshot reads.
	DefaultTimeout = 10 * time.Second

	maxBodySize  = 1 << 20
	maxImageSize = 10 << 20
)

// ErrNotConfigured is returned when no backend URL has been set.
var ErrNotConfigured = errors.New("backend: base url not configured")

// ErrImageHostNotAllowed is returned by FetchImage for a URL on a host that is
// neither the backend nor listed in Config.ImageHosts.
var ErrImageHostNotAllowed = errors.New("backend: image host not allowed")

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string

	// Timeout bounds snapshot reads. Zero means DefaultTimeout.
	Timeout time.Duration
	// GenerationTimeout bounds the image generation call. Zero means no limit.
	GenerationTimeout time.Duration

	// Cache de-duplicates snapshot reads for CacheTTL. Optional.
	Cache    Cache
	CacheTTL time.Duration

	// ImageHosts lists extra hosts (host or host:port) generated images may
	// be fetched from. The backend host is always allowed.
	ImageHosts []string

	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Client reads snapshots from the game backend on behalf of a player.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	genHTTP  *http.Client
	cache    Cache
	cacheTTL time.Duration

	imageHosts map[string]bool
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	// Message is the "error" field of the body, if any.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error: status=%d: %s", e.StatusCode, e.Message)
	}
	if e.Body == "" {
		return fmt.Sprintf("backend error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("backend error: status=%d body=%s", e.StatusCode, e.Body)
}

// New creates a Client. The base URL must be absolute.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrNotConfigured
	}
	u, err := url.ParseRequestURI(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tr := cfg.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}

	hosts := map[string]bool{strings.ToLower(u.Host): true}
	for _, h := range cfg.ImageHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = true
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		http:       &http.Client{Timeout: timeout, Transport: tr},
		genHTTP:    &http.Client{Timeout: cfg.GenerationTimeout, Transport: tr},
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
		imageHosts: hosts,
	}, nil
}

// do sends a JSON request for userID and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, userID int64, in any) ([]byte, error) {
	fullURL, err := c.resolveURL(path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, raw)
	}
	return raw, nil
}

// getJSON reads a snapshot, consulting the cache first when one is configured.
func (c *Client) getJSON(ctx context.Context, path string, userID int64, out any) error {
	key := snapshotKey(userID, path)
	if c.cache != nil && c.cacheTTL > 0 {
		raw, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("snapshot cache read failed", "key", key, "error", err)
		} else if ok {
			return decode(raw, out)
		}
	}

	raw, err := c.do(ctx, c.http, http.MethodGet, path, userID, nil)
	if err != nil {
		return err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil {
			slog.Warn("snapshot cache write failed", "key", key, "error", err)
		}
	}
	return decode(raw, out)
}

func decode(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func newAPIError(status int, raw []byte) *APIError {
	e := &APIError{
		StatusCode: status,
		Body:       strings.TrimSpace(string(raw)),
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		e.Message = body.Error
	}
	return e
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("backend: empty url")
	}
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.baseURL + pathOrURL, nil
}

// imageHostAllowed matches the URL's host, with and without its port.
func (c *Client) imageHostAllowed(u *url.URL) bool {
	host := strings.ToLower(u.Host)
	return c.imageHosts[host] || c.imageHosts[strings.ToLower(u.Hostname())]
}
