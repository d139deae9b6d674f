// Package catalogapi is an HTTP client for the read-only catalog API.
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

// DefaultBaseURL is where the catalog API listens by default.
const DefaultBaseURL = "http://localhost:3000"

// DefaultTimeout bounds every call.
const DefaultTimeout = 8 * time.Second

// ErrNotFound is returned when a requested id does not exist.
var ErrNotFound = errors.New("not found")

// ServerError is returned for unexpected HTTP statuses.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog API error: status %d", e.StatusCode)
}

// Client talks to the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// NewClient creates a client for baseURL; empty means DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ catalog.Source = (*Client)(nil)

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListTracks(ctx context.Context, q catalog.TrackQuery) (catalog.Page[catalog.Track], error) {
	params := url.Values{}
	setParam(params, "q", q.Q)
	setParam(params, "level", q.Level)
	setParam(params, "tag", q.Tag)
	setInt(params, "page", q.Page)
	setInt(params, "pageSize", q.PageSize)
	return get[catalog.Page[catalog.Track]](ctx, c, "/api/tracks", params)
}

func (c *Client) GetTrack(ctx context.Context, id string) (catalog.TrackDetail, error) {
	return get[catalog.TrackDetail](ctx, c, "/api/tracks/"+url.PathEscape(id), nil)
}

func (c *Client) ListResources(ctx context.Context, q catalog.ResourceQuery) (catalog.Page[catalog.Resource], error) {
	params := url.Values{}
	setParam(params, "q", q.Q)
	setParam(params, "type", q.Type)
	setParam(params, "tag", q.Tag)
	setInt(params, "page", q.Page)
	setInt(params, "pageSize", q.PageSize)
	return get[catalog.Page[catalog.Resource]](ctx, c, "/api/resources", params)
}

func (c *Client) GetResource(ctx context.Context, id string) (catalog.ResourceDetail, error) {
	return get[catalog.ResourceDetail](ctx, c, "/api/resources/"+url.PathEscape(id), nil)
}

func (c *Client) Recommendations(ctx context.Context) (catalog.Recommendations, error) {
	return get[catalog.Recommendations](ctx, c, "/api/recommendations", nil)
}

func (c *Client) Paths(ctx context.Context) (catalog.Paths, error) {
	return get[catalog.Paths](ctx, c, "/api/paths", nil)
}

func get[T any](ctx context.Context, c *Client, path string, params url.Values) (T, error) {
	t := timeout.New[T](timeout.Config{DefaultTimeout: c.timeout})
	return t.Execute(ctx, c.timeout, func(ctx context.Context) (T, error) {
		var out T

		u := c.baseURL + path
		if len(params) > 0 {
			u += "?" + params.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return out, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return out, fmt.Errorf("failed to reach catalog API: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return out, fmt.Errorf("%s: %w", path, ErrNotFound)
		case resp.StatusCode != http.StatusOK:
			return out, &ServerError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return out, fmt.Errorf("failed to decode %s response: %w", path, err)
		}
		return out, nil
	})
}

func readMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(data))
}

func setParam(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}
