package openmemory

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/habiliai/memoryruntime/errors"
)

// Client is a thin HTTP client for a self-hosted OpenMemory server. The
// server's internals (multi-sector embeddings, decay curves, salience
// interpretation) are opaque; this client only owns the wire exchange.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// AddMemory stores one memory. POST {base}/memory/add.
func (c *Client) AddMemory(ctx context.Context, req *AddMemoryRequest) (*AddMemoryResponse, error) {
	var res AddMemoryResponse
	if err := c.post(ctx, "/memory/add", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Query searches memories. POST {base}/memory/query.
func (c *Client) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	var res QueryResponse
	if err := c.post(ctx, "/memory/query", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health probes GET {base}/health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build health request")
	}
	c.setHeaders(httpReq)

	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reach %s/health", c.baseURL)
	}
	defer httpRes.Body.Close()

	if err := checkStatus(httpRes); err != nil {
		return nil, err
	}

	var status HealthStatus
	if err := json.NewDecoder(httpRes.Body).Decode(&status); err != nil {
		return nil, errors.Wrapf(err, "failed to decode health response")
	}

	return &status, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal request for %s", path)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", path)
	}
	c.setHeaders(httpReq)

	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "failed to call %s%s", c.baseURL, path)
	}
	defer httpRes.Body.Close()

	if err := checkStatus(httpRes); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(httpRes.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", path)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	// Read a bounded slice of the body for the error message
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return errors.Wrapf(errors.ErrUnavailable, "%s %s returned %s: %s",
		res.Request.Method, res.Request.URL.Path, res.Status, strings.TrimSpace(string(snippet)))
}
