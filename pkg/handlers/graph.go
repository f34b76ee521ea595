// Package handlers contains the HTTP handlers for the console API.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/models"
	"github.com/centra-hq/centra-console/pkg/querycache"
	"github.com/centra-hq/centra-console/pkg/repositories"
	"github.com/centra-hq/centra-console/pkg/services"
)

// GraphHandler serves the assembled knowledge graph.
type GraphHandler struct {
	service services.GraphService
	cache   *querycache.Cache
	logger  *zap.Logger
}

// NewGraphHandler creates a new GraphHandler. The cache is shared with the
// query store so outcome mutations invalidate cached graph payloads.
func NewGraphHandler(service services.GraphService, cache *querycache.Cache, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		service: service,
		cache:   cache,
		logger:  logger,
	}
}

// RegisterRoutes registers the graph handler's routes on the given mux.
func (h *GraphHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/graph", h.GetGraph)
}

// GetGraph handles GET /api/graph requests.
// Query parameters: node_type, service, limit, time_start, time_end.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	filter, err := parseGraphFilter(r)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	query := r.URL.Query()
	key := querycache.GraphKey(
		query.Get("node_type"),
		query.Get("service"),
		query.Get("limit"),
		query.Get("time_start"),
		query.Get("time_end"),
	)

	data, err := querycache.FetchGraph(r.Context(), h.cache, key, func(ctx context.Context) (*models.GraphData, error) {
		return h.service.Assemble(ctx, filter)
	})
	if err != nil {
		h.logger.Error("Failed to assemble graph", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "graph_failed", "Failed to fetch graph data")
		return
	}

	if err := WriteJSON(w, http.StatusOK, data); err != nil {
		h.logger.Error("Failed to encode graph response", zap.Error(err))
	}
}

// parseGraphFilter extracts the graph filter from query parameters.
// A time window only takes effect when both bounds parse.
func parseGraphFilter(r *http.Request) (repositories.GraphFilter, error) {
	query := r.URL.Query()
	filter := repositories.GraphFilter{
		NodeType: query.Get("node_type"),
		Service:  query.Get("service"),
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, &paramError{"limit must be a non-negative integer"}
		}
		// An explicit zero is honored as-is and yields an empty graph.
		filter.Limit = &limit
	}

	if raw := query.Get("time_start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, &paramError{"time_start must be RFC 3339"}
		}
		filter.TimeStart = &t
	}
	if raw := query.Get("time_end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, &paramError{"time_end must be RFC 3339"}
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }
