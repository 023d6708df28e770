// Package remote resolves autoselect searches against an HTTP endpoint.
//
// The endpoint answers GET <base>/search?term=<term> with
//
//	{"items": [{"id": 1, "title": "..."}]}
package remote

import (
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
	"golang.org/x/sync/singleflight"

	"github.com/kingrea/autoselect/internal/autoselect"
)

const (
	// DefaultTimeout bounds a single search request.
	DefaultTimeout = 10 * time.Second
	// RequestIDHeader carries the per-request id to the server.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 4 << 20
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("remote: unexpected status %d: %s", e.Code, e.Body)
}

// Client implements autoselect.Source over HTTP.
type Client struct {
	base  *url.URL
	http  *http.Client
	group singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New validates baseURL and returns a client for it.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("remote: base url is required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Search implements autoselect.Source. Concurrent calls for the same term
// share one request.
func (c *Client) Search(ctx context.Context, term string) (autoselect.Response, error) {
	v, err, _ := c.group.Do(term, func() (any, error) {
		return c.fetch(ctx, term)
	})
	if err != nil {
		return autoselect.Response{}, err
	}
	return v.(autoselect.Response), nil
}

func (c *Client) fetch(ctx context.Context, term string) (autoselect.Response, error) {
	endpoint := c.base.JoinPath("search")
	query := endpoint.Query()
	query.Set("term", term)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return autoselect.Response{}, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return autoselect.Response{}, fmt.Errorf("remote: search %q: %w", term, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return autoselect.Response{}, fmt.Errorf("remote: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return autoselect.Response{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	var out autoselect.Response
	if err := json.Unmarshal(body, &out); err != nil {
		return autoselect.Response{}, fmt.Errorf("remote: decode response: %w", err)
	}
	if out.Items == nil {
		out.Items = []autoselect.Item{}
	}
	return out, nil
}
