// Package client provides typed access to the routing services: ingest,
// decision, learner, executor and explain.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/config"
)

// DefaultTimeout is the maximum time to wait for an upstream response.
const DefaultTimeout = 30 * time.Second

// Client provides access to the routing service APIs.
type Client struct {
	httpClient *http.Client
	services   config.ServicesConfig
	logger     *zap.Logger
}

// NewClient creates a client for the configured upstream services.
func NewClient(services config.ServicesConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		services: services,
		logger:   logger.Named("client"),
	}
}

// StatusError is returned for non-2xx upstream responses. It carries the
// status code and response body so callers can distinguish absence (404)
// from failure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// doJSON executes a request with a JSON body (may be nil) and decodes a
// JSON response into out (may be nil). Non-2xx responses become a
// *StatusError.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call upstream: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("Upstream returned error",
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// buildURL constructs a URL by parsing the base, joining path segments and
// attaching query parameters.
func buildURL(baseURL string, query url.Values, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	segments := append([]string{u.Path}, pathSegments...)
	u.Path = path.Join(segments...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}
