package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"stataid/ports"
)

// HTTPEngine posts assumption tests to a remote statistics service:
// POST {base}/v1/tests/{method} with {"samples": [[...], ...]}.
type HTTPEngine struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPEngine creates an HTTP engine client
func NewHTTPEngine(config Config, logger *zap.Logger) *HTTPEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPEngine{
		baseURL: strings.TrimRight(strings.TrimSpace(config.BaseURL), "/"),
		client:  &http.Client{Timeout: config.Timeout},
		logger:  logger,
	}
}

// Ready implements ports.AssumptionTestEngine
func (e *HTTPEngine) Ready() bool {
	return e.baseURL != ""
}

// Run implements ports.AssumptionTestEngine
func (e *HTTPEngine) Run(ctx context.Context, method string, samples [][]float64) (*ports.EngineOutput, error) {
	type reqBody struct {
		Samples [][]float64 `json:"samples"`
	}
	raw, err := json.Marshal(reqBody{Samples: samples})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := e.baseURL + "/v1/tests/" + url.PathEscape(method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("engine http %d: %s", resp.StatusCode, strings.TrimSpace(string(respRaw)))
	}

	var out ports.EngineOutput
	if len(bytes.TrimSpace(respRaw)) > 0 {
		if err := json.Unmarshal(respRaw, &out); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	e.logger.Debug("engine test finished",
		zap.String("method", method),
		zap.Int("samples", len(samples)),
		zap.Bool("empty", out.IsEmpty()))
	return &out, nil
}
