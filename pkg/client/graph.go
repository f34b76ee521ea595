package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/centra-hq/centra-console/pkg/models"
)

// GraphParams filters the graph payload. Zero values are omitted.
type GraphParams struct {
	NodeType  string
	Service   string
	Limit     int
	TimeStart string
	TimeEnd   string
}

func (p GraphParams) query() url.Values {
	query := url.Values{}
	if p.NodeType != "" {
		query.Set("node_type", p.NodeType)
	}
	if p.Service != "" {
		query.Set("service", p.Service)
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.TimeStart != "" {
		query.Set("time_start", p.TimeStart)
	}
	if p.TimeEnd != "" {
		query.Set("time_end", p.TimeEnd)
	}
	return query
}

// GetGraph fetches the assembled knowledge graph from a console instance.
// Tools use this to read the graph the same way browsers do.
func (c *Client) GetGraph(ctx context.Context, consoleURL string, params GraphParams) (*models.GraphData, error) {
	endpoint, err := buildURL(consoleURL, params.query(), "api", "graph")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var data models.GraphData
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to get graph: %w", err)
	}
	return &data, nil
}
