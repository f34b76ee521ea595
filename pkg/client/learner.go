package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/centra-hq/centra-console/pkg/models"
)

// GetProfiles fetches the ranked candidate profiles for a service from the
// learner.
func (c *Client) GetProfiles(ctx context.Context, service string) (*models.ProfilesResponse, error) {
	query := url.Values{}
	query.Set("service", service)

	endpoint, err := buildURL(c.services.LearnerURL, query, "profiles")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var response models.ProfilesResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get profiles for %s: %w", service, err)
	}
	return &response, nil
}

// GetHumanStats fetches load and outcome statistics for one human from the
// learner.
func (c *Client) GetHumanStats(ctx context.Context, humanID string) (*models.HumanStats, error) {
	query := url.Values{}
	query.Set("human_id", humanID)

	endpoint, err := buildURL(c.services.LearnerURL, query, "stats")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var stats models.HumanStats
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to get stats for %s: %w", humanID, err)
	}
	return &stats, nil
}
