// Package client is the Go SDK for the cytodyn simulation API.  It wraps
// the JSON endpoints with typed requests and responses and retries
// transient failures with exponential backoff.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	wire "github.com/turtacn/cytodyn/pkg/types/simulation"
)

const Version = "2.0.0"

// Logger is the minimal logging surface the client needs; a zap
// SugaredLogger satisfies it directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to one cytodyn API server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// APIError is a decoded non-2xx response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Kind       string `json:"kind"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cytodyn: %s (HTTP %d): %s [request_id=%s]",
		e.Code, e.StatusCode, e.Message, e.RequestID)
}

// IsNotFound reports whether the server rejected an unknown resource, such
// as a cell line name absent from the catalog.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsInvalid reports whether the request itself was malformed.
func (e *APIError) IsInvalid() bool {
	return e.StatusCode == http.StatusBadRequest
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient builds a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL must not be empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		userAgent:    fmt.Sprintf("cytodyn-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health probes the server.
func (c *Client) Health(ctx context.Context) (*wire.HealthResponse, error) {
	var out wire.HealthResponse
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCellLines returns the catalog summaries.
func (c *Client) ListCellLines(ctx context.Context) ([]wire.CellLineSummary, error) {
	var out wire.CellLineListResponse
	if err := c.get(ctx, "/api/v1/cell-lines", &out); err != nil {
		return nil, err
	}
	return out.CellLines, nil
}

// GetCellLine returns the full profile of one cell line.
func (c *Client) GetCellLine(ctx context.Context, name string) (*wire.CellLineProfile, error) {
	var out wire.CellLineProfile
	if err := c.get(ctx, "/api/v1/cell-lines/"+url.PathEscape(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Simulate runs a simulation and returns the sampled trajectory.
func (c *Client) Simulate(ctx context.Context, req *wire.SimulateRequest) (*wire.SimulateResponse, error) {
	var out wire.SimulateResponse
	if err := c.post(ctx, "/api/v1/simulate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OptimalDose asks the predictor for a dose achieving the target inhibition.
func (c *Client) OptimalDose(ctx context.Context, req *wire.OptimalDoseRequest) (*wire.OptimalDoseResponse, error) {
	var out wire.OptimalDoseResponse
	if err := c.post(ctx, "/api/v1/predict/optimal-dose", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Growth asks the predictor for an untreated growth forecast.
func (c *Client) Growth(ctx context.Context, req *wire.GrowthRequest) (*wire.GrowthResponse, error) {
	var out wire.GrowthResponse
	if err := c.post(ctx, "/api/v1/predict/growth", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do performs one request with retries on network errors and 5xx responses.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			c.logger.Debugf("retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var rd io.Reader
		if bodyBytes != nil {
			rd = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.New().String()
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Errorf("request failed: %v", err)
			lastErr = err
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
			var envelope wire.ErrorResponse
			if json.Unmarshal(respBody, &envelope) == nil && envelope.Error.Code != "" {
				apiErr.Kind = envelope.Error.Kind
				apiErr.Code = envelope.Error.Code
				apiErr.Message = envelope.Error.Message
			} else {
				apiErr.Message = string(respBody)
			}
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

// backoff grows exponentially from retryWaitMin with up to 25% jitter,
// capped at retryWaitMax.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if d > c.retryWaitMax {
		d = c.retryWaitMax
	}
	return d + time.Duration(rand.Int63n(int64(d/4+1)))
}
