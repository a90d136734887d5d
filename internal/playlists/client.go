// Package playlists provides a client for the playlists REST API.
//
// Response bodies are returned as text; callers decide whether to parse them.
package playlists

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

	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

const (
	userIDHeader = "X-User-Id"
	userAgent    = "playlist-editor/1.0"
)

// ErrTransport wraps failures where no usable response was received:
// connection errors, cancelled contexts and unreadable bodies.
var ErrTransport = errors.New("playlists API unreachable")

// Client is a playlists API client. It performs exactly one HTTP request per
// call and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API described by cfg.
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{},
	}
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Create issues POST /playlists.
func (c *Client) Create(ctx context.Context, userID string, req CreateRequest) (*Response, error) {
	if req.CollaboratorIDs == nil {
		req.CollaboratorIDs = []string{}
	}
	if req.Tracks == nil {
		req.Tracks = []tracklist.Track{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding playlist: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/playlists", userID, body)
}

// List issues GET /playlists.
func (c *Client) List(ctx context.Context, userID string) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/playlists", userID, nil)
}

// Get issues GET /playlists/{id}.
func (c *Client) Get(ctx context.Context, userID, id string) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/playlists/"+url.PathEscape(id), userID, nil)
}

// Delete issues DELETE /playlists/{id}.
func (c *Client) Delete(ctx context.Context, userID, id string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, "/playlists/"+url.PathEscape(id), userID, nil)
}

// Health issues GET /health. No identity header is sent.
func (c *Client) Health(ctx context.Context) (*Response, error) {
	return c.send(ctx, http.MethodGet, "/health", nil, nil)
}

// do sends a request carrying the user identity header.
func (c *Client) do(ctx context.Context, method, path, userID string, body []byte) (*Response, error) {
	h := http.Header{}
	h.Set(userIDHeader, strings.TrimSpace(userID))
	if body != nil {
		h.Set("Content-Type", "application/json")
	}
	return c.send(ctx, method, path, h, body)
}

// send performs a single HTTP request and reads the body as text.
func (c *Client) send(ctx context.Context, method, path string, header http.Header, body []byte) (*Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrTransport, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(data)}, nil
}
