package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"classifyform/config"
	"classifyform/form"
)

// Client represents a client to communicate with the classify API server.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewBackendClient creates a new Client for the given endpoint. A zero timeout
// leaves requests unbounded.
func NewBackendClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Classify posts the payload and returns the response body as raw JSON.
func (c *Client) Classify(ctx context.Context, payload form.Payload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	// Create a new HTTP request with context.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		var v any
		return nil, &DecodeError{Err: json.Unmarshal(raw, &v)}
	}

	return json.RawMessage(raw), nil
}

// statusText returns the reason phrase of the status line, e.g.
// "Internal Server Error" for "500 Internal Server Error".
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text, ok := strings.CutPrefix(resp.Status, code); ok {
		return strings.TrimSpace(text)
	}
	if resp.Status != "" {
		return resp.Status
	}
	return http.StatusText(resp.StatusCode)
}
