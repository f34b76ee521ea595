package client

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/centra-hq/centra-console/pkg/models"
)

// HealthCheckTimeout bounds each individual service health probe.
const HealthCheckTimeout = 5 * time.Second

// CheckAll probes every upstream service concurrently and reports one
// HealthCheck per service, in canonical order. It never returns an error:
// an unreachable service degrades to {healthy: false, status: "unreachable"}
// so one dead upstream cannot take down the status view.
func (c *Client) CheckAll(ctx context.Context) []models.HealthCheck {
	endpoints := c.services.Endpoints()
	checks := make([]models.HealthCheck, len(endpoints))

	g, ctx := errgroup.WithContext(ctx)
	for i, endpoint := range endpoints {
		g.Go(func() error {
			checks[i] = c.check(ctx, endpoint.Name, endpoint.URL)
			return nil
		})
	}
	_ = g.Wait()

	return checks
}

// check probes one service's healthz endpoint with its own timeout.
func (c *Client) check(ctx context.Context, service, baseURL string) models.HealthCheck {
	unreachable := models.HealthCheck{
		Healthy: false,
		Service: service,
		Status:  "unreachable",
		URL:     baseURL,
	}

	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	endpoint, err := buildURL(baseURL, nil, "healthz")
	if err != nil {
		return unreachable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return unreachable
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return unreachable
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	return models.HealthCheck{
		Healthy: resp.StatusCode == http.StatusOK,
		Service: service,
		Status:  body.Status,
		URL:     baseURL,
	}
}
