package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/centra-hq/centra-console/pkg/apperrors"
	"github.com/centra-hq/centra-console/pkg/models"
	"github.com/centra-hq/centra-console/pkg/retry"
)

// GetDecision fetches the routing decision for a work item. A work item
// without a decision yet returns ErrNoDecision; absence is not a failure
// and is never retried. Transient failures get one bounded retry.
func (c *Client) GetDecision(ctx context.Context, workItemID string) (*models.Decision, error) {
	endpoint, err := buildURL(c.services.DecisionURL, nil, "decisions", workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	decision, err := retry.DoWithResult(ctx, retry.UpstreamConfig(), func() (*models.Decision, error) {
		var d models.Decision
		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &d); err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
				return nil, apperrors.ErrNoDecision
			}
			return nil, err
		}
		return &d, nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNoDecision) {
			return nil, apperrors.ErrNoDecision
		}
		return nil, fmt.Errorf("failed to get decision for %s: %w", workItemID, err)
	}
	return decision, nil
}

// GetAuditTrail fetches the decision audit trail for a work item.
func (c *Client) GetAuditTrail(ctx context.Context, workItemID string) (*models.AuditTrail, error) {
	endpoint, err := buildURL(c.services.DecisionURL, nil, "audit", workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	var trail models.AuditTrail
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &trail); err != nil {
		return nil, fmt.Errorf("failed to get audit trail for %s: %w", workItemID, err)
	}
	return &trail, nil
}
