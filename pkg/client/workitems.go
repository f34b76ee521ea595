package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/centra-hq/centra-console/pkg/models"
)

// ListWorkItemsParams filters the work item listing. Zero values are
// omitted from the query.
type ListWorkItemsParams struct {
	Service  string
	Severity string
	Limit    int
	Offset   int
}

// ListWorkItems fetches work items from the ingest service.
func (c *Client) ListWorkItems(ctx context.Context, params ListWorkItemsParams) (*models.WorkItemsResponse, error) {
	query := url.Values{}
	if params.Service != "" {
		query.Set("service", params.Service)
	}
	if params.Severity != "" {
		query.Set("severity", params.Severity)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}

	endpoint, err := buildURL(c.services.IngestURL, query, "work-items")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var response models.WorkItemsResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	return &response, nil
}

// GetWorkItem fetches a single work item by ID.
func (c *Client) GetWorkItem(ctx context.Context, id string) (*models.WorkItem, error) {
	endpoint, err := buildURL(c.services.IngestURL, nil, "work-items", id)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var item models.WorkItem
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &item); err != nil {
		return nil, fmt.Errorf("failed to get work item %s: %w", id, err)
	}
	return &item, nil
}

// CreateWorkItem submits a new work item to the ingest service.
func (c *Client) CreateWorkItem(ctx context.Context, req *models.CreateWorkItemRequest) (*models.WorkItem, error) {
	endpoint, err := buildURL(c.services.IngestURL, nil, "work-items")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var item models.WorkItem
	if err := c.doJSON(ctx, http.MethodPost, endpoint, req, &item); err != nil {
		return nil, fmt.Errorf("failed to create work item: %w", err)
	}
	return &item, nil
}

// RecordOutcome reports a resolution, reassignment or escalation for a
// work item to the ingest service.
func (c *Client) RecordOutcome(ctx context.Context, id string, outcome *models.OutcomeRequest) (*models.OutcomeResponse, error) {
	endpoint, err := buildURL(c.services.IngestURL, nil, "work-items", id, "outcome")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var response models.OutcomeResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, outcome, &response); err != nil {
		return nil, fmt.Errorf("failed to record outcome for %s: %w", id, err)
	}
	return &response, nil
}
