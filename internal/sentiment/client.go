// Package sentiment provides an HTTP client for the optional sentiment
// sidecar. The engine treats its score as advisory: failures surface as
// ErrUnavailable and never block scoring.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// ErrUnavailable indicates the sentiment service is unreachable or
// returned a non-success status.
var ErrUnavailable = errors.New("sentiment service unavailable")

// Client is an HTTP client for the sentiment sidecar.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Score float64 `json:"score"`
}

type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// NewClient creates a sentiment client. timeout of zero uses the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Sentiment scores text in [-1, 1] via POST /analyze.
func (c *Client) Sentiment(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result analyzeResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return 0, fmt.Errorf("decode response: %w", decodeErr)
	}
	return result.Score, nil
}

// Health calls GET /health and returns latency and the reported model
// version. A transport failure wraps ErrUnavailable.
func (c *Client) Health(ctx context.Context) (latencyMs int64, modelVersion string, err error) {
	start := time.Now()

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if reqErr != nil {
		return 0, "", fmt.Errorf("create request: %w", reqErr)
	}

	resp, doErr := c.httpClient.Do(req)
	latencyMs = time.Since(start).Milliseconds()
	if doErr != nil {
		return latencyMs, "", fmt.Errorf("%w: %w", ErrUnavailable, doErr)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return latencyMs, "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var health healthResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&health); decodeErr == nil {
		modelVersion = health.ModelVersion
	}
	return latencyMs, modelVersion, nil
}
