// Package apiclient talks to a running oracle server.
package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultServerURL = "http://127.0.0.1:8787"
	httpTimeout      = 5 * time.Second
)

// Client talks to the oracle server.
type Client struct {
	http      *http.Client
	serverURL string
}

// NewClient creates a new API client.
// Respects ORACLE_URL env var, falls back to http://127.0.0.1:8787.
func NewClient() *Client {
	url := os.Getenv("ORACLE_URL")
	if url == "" {
		url = defaultServerURL
	}
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		serverURL: url,
	}
}

func (c *Client) do(method, path string, body []byte) ([]byte, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, c.serverURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		return data, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}
	return data, nil
}

// Post sends a POST request with JSON body. Returns response body.
func (c *Client) Post(path string, body []byte) ([]byte, error) {
	return c.do(http.MethodPost, path, body)
}

// Get sends a GET request. Returns response body.
func (c *Client) Get(path string) ([]byte, error) {
	return c.do(http.MethodGet, path, nil)
}

// Healthy checks if the server is reachable.
func (c *Client) Healthy() bool {
	resp, err := c.http.Get(c.serverURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type postingState struct {
	PostingEnabled bool `json:"postingEnabled"`
}

// PostingEnabled reads the auto-posting flag.
func (c *Client) PostingEnabled() (bool, error) {
	data, err := c.Get("/instagram/cron-status")
	if err != nil {
		return false, err
	}
	var st postingState
	if err := json.Unmarshal(data, &st); err != nil {
		return false, fmt.Errorf("decode posting state: %w", err)
	}
	return st.PostingEnabled, nil
}

// SetPostingEnabled flips the auto-posting flag and returns the new value.
func (c *Client) SetPostingEnabled(enabled bool) (bool, error) {
	path := "/instagram/cron-stop"
	if enabled {
		path = "/instagram/cron-start"
	}
	data, err := c.Post(path, nil)
	if err != nil {
		return false, err
	}
	var st postingState
	if err := json.Unmarshal(data, &st); err != nil {
		return false, fmt.Errorf("decode posting state: %w", err)
	}
	return st.PostingEnabled, nil
}
