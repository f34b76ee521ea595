package querycache

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/client"
	"github.com/centra-hq/centra-console/pkg/models"
)

// Cache key families. Mutation fan-out is defined in terms of these.
const (
	familyWorkItems = "work-items"
	familyWorkItem  = "work-item"
	familyDecision  = "decision"
	familyAudit     = "audit"
	familyProfiles  = "profiles"
	familyStats     = "stats"
	familyGraph     = "graph"
)

// Upstream is the slice of the typed client the store reads through.
type Upstream interface {
	ListWorkItems(ctx context.Context, params client.ListWorkItemsParams) (*models.WorkItemsResponse, error)
	GetWorkItem(ctx context.Context, id string) (*models.WorkItem, error)
	CreateWorkItem(ctx context.Context, req *models.CreateWorkItemRequest) (*models.WorkItem, error)
	RecordOutcome(ctx context.Context, id string, outcome *models.OutcomeRequest) (*models.OutcomeResponse, error)
	GetDecision(ctx context.Context, workItemID string) (*models.Decision, error)
	GetAuditTrail(ctx context.Context, workItemID string) (*models.AuditTrail, error)
	GetProfiles(ctx context.Context, service string) (*models.ProfilesResponse, error)
	GetHumanStats(ctx context.Context, humanID string) (*models.HumanStats, error)
	CheckAll(ctx context.Context) []models.HealthCheck
}

// Store serves reads through the cache and routes mutations to the
// upstream services with the documented invalidation fan-out.
type Store struct {
	upstream Upstream
	cache    *Cache
	logger   *zap.Logger
}

// NewStore creates a cached query store over the given upstream client.
func NewStore(upstream Upstream, cache *Cache, logger *zap.Logger) *Store {
	return &Store{
		upstream: upstream,
		cache:    cache,
		logger:   logger.Named("querycache"),
	}
}

// WorkItems lists work items, fresh within ListTTL per distinct filter.
func (s *Store) WorkItems(ctx context.Context, params client.ListWorkItemsParams) (*models.WorkItemsResponse, error) {
	key := Key(familyWorkItems, params.Service, params.Severity,
		strconv.Itoa(params.Limit), strconv.Itoa(params.Offset))
	return Fetch(ctx, s.cache, key, ListTTL, func(ctx context.Context) (*models.WorkItemsResponse, error) {
		return s.upstream.ListWorkItems(ctx, params)
	})
}

// WorkItem fetches one work item, fresh within ListTTL.
func (s *Store) WorkItem(ctx context.Context, id string) (*models.WorkItem, error) {
	return Fetch(ctx, s.cache, Key(familyWorkItem, id), ListTTL, func(ctx context.Context) (*models.WorkItem, error) {
		return s.upstream.GetWorkItem(ctx, id)
	})
}

// Decision fetches the routing decision for a work item, fresh within
// ListTTL. Absence (ErrNoDecision) passes through uncached.
func (s *Store) Decision(ctx context.Context, workItemID string) (*models.Decision, error) {
	return Fetch(ctx, s.cache, Key(familyDecision, workItemID), ListTTL, func(ctx context.Context) (*models.Decision, error) {
		return s.upstream.GetDecision(ctx, workItemID)
	})
}

// AuditTrail fetches the decision audit trail, fresh within ListTTL.
func (s *Store) AuditTrail(ctx context.Context, workItemID string) (*models.AuditTrail, error) {
	return Fetch(ctx, s.cache, Key(familyAudit, workItemID), ListTTL, func(ctx context.Context) (*models.AuditTrail, error) {
		return s.upstream.GetAuditTrail(ctx, workItemID)
	})
}

// Profiles fetches candidate profiles for a service, fresh within ListTTL.
func (s *Store) Profiles(ctx context.Context, service string) (*models.ProfilesResponse, error) {
	return Fetch(ctx, s.cache, Key(familyProfiles, service), ListTTL, func(ctx context.Context) (*models.ProfilesResponse, error) {
		return s.upstream.GetProfiles(ctx, service)
	})
}

// HumanStats fetches one human's stats, fresh within ListTTL.
func (s *Store) HumanStats(ctx context.Context, humanID string) (*models.HumanStats, error) {
	return Fetch(ctx, s.cache, Key(familyStats, humanID), ListTTL, func(ctx context.Context) (*models.HumanStats, error) {
		return s.upstream.GetHumanStats(ctx, humanID)
	})
}

// Health probes all upstream services. Health bypasses the cache: the
// caller refetches on its own interval and a stale verdict is worse than
// the five cheap probes.
func (s *Store) Health(ctx context.Context) []models.HealthCheck {
	return s.upstream.CheckAll(ctx)
}

// CreateWorkItem submits a new work item and invalidates the work item
// listings only. Detail, decision, stats, profile and graph views cannot
// be affected by an item nothing has routed yet.
func (s *Store) CreateWorkItem(ctx context.Context, req *models.CreateWorkItemRequest) (*models.WorkItem, error) {
	item, err := s.upstream.CreateWorkItem(ctx, req)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(familyWorkItems)

	return item, nil
}

// RecordOutcome reports an outcome for a work item and invalidates every
// view an outcome can change: the listings, the item itself, its decision,
// all stats and profile queries, and the graph. Outcome recording is the
// one mutation that can move fit scores, load and graph edges at the same
// time, so the fan-out is deliberately broad. The audit trail stays cached;
// it records the original decision and an outcome does not rewrite it.
func (s *Store) RecordOutcome(ctx context.Context, id string, outcome *models.OutcomeRequest) (*models.OutcomeResponse, error) {
	response, err := s.upstream.RecordOutcome(ctx, id, outcome)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(familyWorkItems)
	s.cache.Invalidate(Key(familyWorkItem, id))
	s.cache.Invalidate(Key(familyDecision, id))
	s.cache.InvalidatePrefix(familyStats)
	s.cache.InvalidatePrefix(familyProfiles)
	s.cache.InvalidatePrefix(familyGraph)

	s.logger.Debug("Recorded outcome and invalidated dependent queries",
		zap.String("work_item_id", id),
		zap.String("outcome_type", outcome.Type))

	return response, nil
}

// GraphKey builds the cache key for a graph query. Exposed so the graph
// handler can share the cache for locally assembled payloads.
func GraphKey(params ...string) string {
	return Key(familyGraph, params...)
}

// FetchGraph caches an assembled graph payload under the graph family with
// the longer graph staleness window.
func FetchGraph(ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (*models.GraphData, error)) (*models.GraphData, error) {
	return Fetch(ctx, c, key, GraphTTL, fn)
}
