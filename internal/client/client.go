// Package client provides the HTTP client for the cirrus admin API,
// used by the status command and by external tooling.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"cirrus/internal/constants"
	cerrors "cirrus/internal/errors"
	"cirrus/internal/server"
	"cirrus/internal/store"
)

// Client represents the HTTP client for the cirrus admin API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new client instance
func New(serverURL string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrInvalidInput, "invalid server URL", err)
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}

	return &Client{
		baseURL: u.String(),
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPClientTimeout,
		},
	}, nil
}

// get performs a GET request and decodes the JSON response into out
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrAPICall, "failed to build request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrNetworkConnection, "failed to reach supervisor", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return cerrors.NewWithDetails(cerrors.ErrAPICall,
			fmt.Sprintf("supervisor returned %d", resp.StatusCode), string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return cerrors.Wrap(cerrors.ErrAPICall, "failed to decode response", err)
	}
	return nil
}

// Health fetches the supervisor health document
func (c *Client) Health(ctx context.Context) (*server.HealthResponse, error) {
	var health server.HealthResponse
	if err := c.get(ctx, "/healthz", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Workers fetches the tracked worker list
func (c *Client) Workers(ctx context.Context) (*server.WorkersResponse, error) {
	var workers server.WorkersResponse
	if err := c.get(ctx, "/api/workers", &workers); err != nil {
		return nil, err
	}
	return &workers, nil
}

// Services fetches the declarative registry view
func (c *Client) Services(ctx context.Context) ([]server.ServiceSummary, error) {
	var services []server.ServiceSummary
	if err := c.get(ctx, "/api/services", &services); err != nil {
		return nil, err
	}
	return services, nil
}

// Events fetches recorded lifecycle events, newest first
func (c *Client) Events(ctx context.Context, service string, limit int) ([]store.WorkerEvent, error) {
	path := fmt.Sprintf("/api/events?limit=%d", limit)
	if service != "" {
		path += "&service=" + url.QueryEscape(service)
	}
	var events []store.WorkerEvent
	if err := c.get(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}
