// Package adminclient is a thin HTTP client for blackboxd's admin API,
// used by the blackboxctl command-line tool.
package adminclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to one blackboxd instance's admin HTTP surface.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client targeting baseURL (e.g. "http://localhost:9090").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// BlockEntry mirrors the admin API's JSON representation of an active block.
type BlockEntry struct {
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Health reports whether /healthz returns 200.
func (c *Client) Health() error {
	return c.checkStatus(http.MethodGet, "/healthz", nil, http.StatusOK)
}

// Ready reports whether /readyz returns 200.
func (c *Client) Ready() error {
	return c.checkStatus(http.MethodGet, "/readyz", nil, http.StatusOK)
}

// ListBlocked returns the currently active blocks.
func (c *Client) ListBlocked() ([]BlockEntry, error) {
	resp, err := c.do(http.MethodGet, "/api/v1/blocklist", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adminclient: list blocked returned HTTP %d", resp.StatusCode)
	}

	var out []BlockEntry
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("adminclient: decode response: %w", err)
	}
	return out, nil
}

// Block installs a manual block for source lasting duration.
func (c *Client) Block(source string, duration time.Duration) error {
	body, _ := json.Marshal(struct {
		Source          string `json:"source"`
		DurationSeconds int    `json:"duration_seconds"`
	}{Source: source, DurationSeconds: int(duration.Seconds())})

	return c.checkStatus(http.MethodPost, "/api/v1/blocklist", bytes.NewReader(body), http.StatusAccepted)
}

// Unblock removes a manual block for source.
func (c *Client) Unblock(source string) error {
	path := "/api/v1/blocklist?" + url.Values{"source": {source}}.Encode()
	return c.checkStatus(http.MethodDelete, path, nil, http.StatusAccepted)
}

func (c *Client) checkStatus(method, path string, body io.Reader, want int) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		return fmt.Errorf("adminclient: %s %s returned HTTP %d, want %d", method, path, resp.StatusCode, want)
	}
	return nil
}

func (c *Client) do(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("adminclient: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adminclient: request failed: %w", err)
	}
	return resp, nil
}
