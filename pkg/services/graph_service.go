// Package services holds the assembly logic between repositories and handlers.
package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/models"
	"github.com/centra-hq/centra-console/pkg/repositories"
)

// Node display constants. Colors and sizes are fixed per type so every
// client renders the same graph.
var nodeColors = map[string]string{
	models.NodeTypeHuman:    "#3b82f6",
	models.NodeTypeWorkItem: "#ef4444",
	models.NodeTypeService:  "#10b981",
	models.NodeTypeDecision: "#8b5cf6",
	models.NodeTypeOutcome:  "#f59e0b",
}

const (
	workItemNodeSize = 10
	humanNodeSize    = 8
	decisionNodeSize = 6
)

// GraphService assembles the visualizable graph payload.
type GraphService interface {
	Assemble(ctx context.Context, filter repositories.GraphFilter) (*models.GraphData, error)
}

// graphService implements GraphService on top of the graph repository.
type graphService struct {
	repo   repositories.GraphRepository
	logger *zap.Logger
}

// NewGraphService creates a new graph service.
func NewGraphService(repo repositories.GraphRepository, logger *zap.Logger) GraphService {
	return &graphService{
		repo:   repo,
		logger: logger.Named("graph"),
	}
}

// Assemble collects the raw rows and merges them into one payload.
// Merge order is fixed: work item, human, then decision nodes; resolved,
// transferred, co-worked, then assigned edges. Stats are derived from the
// merged node slice so they always match what the caller receives.
func (s *graphService) Assemble(ctx context.Context, filter repositories.GraphFilter) (*models.GraphData, error) {
	started := time.Now()

	rows, err := s.repo.Collect(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to collect graph rows: %w", err)
	}

	nodes := make([]models.GraphNode, 0, len(rows.WorkItems)+len(rows.Humans)+len(rows.Decisions))

	for _, wi := range rows.WorkItems {
		nodes = append(nodes, models.GraphNode{
			ID:    wi.ID,
			Type:  models.NodeTypeWorkItem,
			Name:  wi.Label,
			Label: wi.Label,
			X:     wi.X,
			Y:     wi.Y,
			Z:     wi.Z,
			Color: nodeColors[models.NodeTypeWorkItem],
			Val:   workItemNodeSize,
			Group: models.NodeTypeWorkItem,
			Metadata: map[string]string{
				"service":  wi.Service,
				"severity": wi.Severity,
			},
		})
	}

	for _, h := range rows.Humans {
		nodes = append(nodes, models.GraphNode{
			ID:    h.ID,
			Type:  models.NodeTypeHuman,
			Name:  h.Label,
			Label: h.Label,
			X:     h.X,
			Y:     h.Y,
			Z:     h.Z,
			Color: nodeColors[models.NodeTypeHuman],
			Val:   humanNodeSize,
			Group: models.NodeTypeHuman,
			Metadata: map[string]string{
				"display_name": h.Label,
			},
		})
	}

	for _, d := range rows.Decisions {
		nodes = append(nodes, models.GraphNode{
			ID:    d.ID,
			Type:  models.NodeTypeDecision,
			Name:  d.ID,
			Label: d.ID,
			Color: nodeColors[models.NodeTypeDecision],
			Val:   decisionNodeSize,
			Group: models.NodeTypeDecision,
			Metadata: map[string]string{
				"work_item_id": d.WorkItemID,
			},
		})
	}

	links := make([]models.GraphEdge, 0,
		len(rows.Resolved)+len(rows.Transferred)+len(rows.CoWorked)+len(rows.Assigned))
	for _, edgeSet := range [][]repositories.EdgeRow{rows.Resolved, rows.Transferred, rows.CoWorked, rows.Assigned} {
		for _, e := range edgeSet {
			links = append(links, models.GraphEdge{
				Source:    e.Source,
				Target:    e.Target,
				Type:      e.Type,
				Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			})
		}
	}

	data := &models.GraphData{
		Nodes: nodes,
		Links: links,
		Stats: models.ComputeGraphStats(nodes, links),
	}

	s.logger.Debug("Assembled graph payload",
		zap.Int("nodes", data.Stats.TotalNodes),
		zap.Int("edges", data.Stats.TotalEdges),
		zap.Duration("duration", time.Since(started)))

	return data, nil
}

// Ensure graphService implements GraphService at compile time.
var _ GraphService = (*graphService)(nil)
