package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centra-hq/centra-console/pkg/database"
	"github.com/centra-hq/centra-console/pkg/models"
)

// DefaultGraphLimit caps each graph query when the caller does not supply one.
const DefaultGraphLimit = 1000

// GraphFilter narrows the rows collected for a graph payload.
// NodeType gates the node queries only; edge queries always run.
// The time window applies to the RESOLVED, TRANSFERRED, and CO_WORKED edge
// queries, and only when both bounds are present. ASSIGNED edges are derived
// from decisions and are never time-filtered.
// A nil Limit means DefaultGraphLimit; an explicit zero is passed through
// as LIMIT 0 and yields an empty payload.
type GraphFilter struct {
	NodeType  string
	Service   string
	Limit     *int
	TimeStart *time.Time
	TimeEnd   *time.Time
}

// hasTimeWindow reports whether both window bounds were supplied.
func (f GraphFilter) hasTimeWindow() bool {
	return f.TimeStart != nil && f.TimeEnd != nil
}

// wantsNodeType reports whether the filter includes the given node type.
// An empty NodeType includes everything.
func (f GraphFilter) wantsNodeType(t string) bool {
	return f.NodeType == "" || f.NodeType == t
}

// limit returns the effective per-query row cap.
func (f GraphFilter) limit() int {
	if f.Limit == nil || *f.Limit < 0 {
		return DefaultGraphLimit
	}
	return *f.Limit
}

// WorkItemNodeRow is one work item row projected for visualization.
type WorkItemNodeRow struct {
	ID       string
	Label    string
	X, Y, Z  float64
	Service  string
	Severity string
}

// HumanNodeRow is one human row projected for visualization.
type HumanNodeRow struct {
	ID      string
	Label   string
	X, Y, Z float64
}

// DecisionNodeRow is one decision row projected for visualization.
type DecisionNodeRow struct {
	ID         string
	WorkItemID string
}

// EdgeRow is one typed edge row.
type EdgeRow struct {
	Source    string
	Target    string
	Type      string
	Timestamp time.Time
}

// GraphRows holds the raw results of one graph collection pass, before
// assembly into the response payload.
type GraphRows struct {
	WorkItems []WorkItemNodeRow
	Humans    []HumanNodeRow
	Decisions []DecisionNodeRow

	Resolved    []EdgeRow
	Transferred []EdgeRow
	CoWorked    []EdgeRow
	Assigned    []EdgeRow
}

// GraphRepository collects the node and edge rows backing /api/graph.
type GraphRepository interface {
	// Collect runs the node and edge queries for the given filter on a
	// single pooled connection and returns the raw rows. The aggregation
	// either completes fully or fails; partial results are never returned.
	Collect(ctx context.Context, filter GraphFilter) (*GraphRows, error)
}

// graphRepository implements GraphRepository using PostgreSQL.
type graphRepository struct {
	db *database.DB
}

// NewGraphRepository creates a new graph repository.
func NewGraphRepository(db *database.DB) GraphRepository {
	return &graphRepository{db: db}
}

// Collect acquires one connection, issues the queries sequentially, and
// releases the connection on every exit path.
func (r *graphRepository) Collect(ctx context.Context, filter GraphFilter) (*GraphRows, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	rows := &GraphRows{}

	if filter.wantsNodeType(models.NodeTypeWorkItem) {
		rows.WorkItems, err = r.queryWorkItemNodes(ctx, conn, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to query work item nodes: %w", err)
		}
	}

	if filter.wantsNodeType(models.NodeTypeHuman) {
		rows.Humans, err = r.queryHumanNodes(ctx, conn, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to query human nodes: %w", err)
		}
	}

	if filter.wantsNodeType(models.NodeTypeDecision) {
		rows.Decisions, err = r.queryDecisionNodes(ctx, conn, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to query decision nodes: %w", err)
		}
	}

	rows.Resolved, err = r.queryTimestampedEdges(ctx, conn, filter, models.EdgeTypeResolved,
		`SELECT work_item_id, human_id, resolved_at FROM resolved_edges`, "resolved_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query resolved edges: %w", err)
	}

	rows.Transferred, err = r.queryTimestampedEdges(ctx, conn, filter, models.EdgeTypeTransferred,
		`SELECT work_item_id, to_human_id, transferred_at FROM transferred_edges`, "transferred_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query transferred edges: %w", err)
	}

	rows.CoWorked, err = r.queryTimestampedEdges(ctx, conn, filter, models.EdgeTypeCoWorked,
		`SELECT human1_id, human2_id, worked_at FROM co_worked_edges`, "worked_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query co-worked edges: %w", err)
	}

	rows.Assigned, err = r.queryAssignedEdges(ctx, conn, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query assigned edges: %w", err)
	}

	return rows, nil
}

func (r *graphRepository) queryWorkItemNodes(ctx context.Context, conn *pgxpool.Conn, filter GraphFilter) ([]WorkItemNodeRow, error) {
	query := `
		SELECT
			id,
			COALESCE(description, id) AS label,
			COALESCE(embedding_3d_x, 0) AS x,
			COALESCE(embedding_3d_y, 0) AS y,
			COALESCE(embedding_3d_z, 0) AS z,
			service,
			severity
		FROM work_items`

	args := []any{}
	if filter.Service != "" {
		query += ` WHERE service = $1 LIMIT $2`
		args = append(args, filter.Service, filter.limit())
	} else {
		query += ` LIMIT $1`
		args = append(args, filter.limit())
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []WorkItemNodeRow
	for rows.Next() {
		var item WorkItemNodeRow
		if err := rows.Scan(&item.ID, &item.Label, &item.X, &item.Y, &item.Z, &item.Service, &item.Severity); err != nil {
			return nil, fmt.Errorf("failed to scan work item node: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *graphRepository) queryHumanNodes(ctx context.Context, conn *pgxpool.Conn, filter GraphFilter) ([]HumanNodeRow, error) {
	// The service filter deliberately does not apply here: humans are not
	// service-scoped rows.
	query := `
		SELECT
			id,
			display_name AS label,
			COALESCE(embedding_3d_x, 0) AS x,
			COALESCE(embedding_3d_y, 0) AS y,
			COALESCE(embedding_3d_z, 0) AS z
		FROM humans
		LIMIT $1`

	rows, err := conn.Query(ctx, query, filter.limit())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var humans []HumanNodeRow
	for rows.Next() {
		var h HumanNodeRow
		if err := rows.Scan(&h.ID, &h.Label, &h.X, &h.Y, &h.Z); err != nil {
			return nil, fmt.Errorf("failed to scan human node: %w", err)
		}
		humans = append(humans, h)
	}
	return humans, rows.Err()
}

func (r *graphRepository) queryDecisionNodes(ctx context.Context, conn *pgxpool.Conn, filter GraphFilter) ([]DecisionNodeRow, error) {
	query := `SELECT id, work_item_id FROM decisions LIMIT $1`

	rows, err := conn.Query(ctx, query, filter.limit())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []DecisionNodeRow
	for rows.Next() {
		var d DecisionNodeRow
		if err := rows.Scan(&d.ID, &d.WorkItemID); err != nil {
			return nil, fmt.Errorf("failed to scan decision node: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

func (r *graphRepository) queryTimestampedEdges(ctx context.Context, conn *pgxpool.Conn, filter GraphFilter, edgeType, baseQuery, timeColumn string) ([]EdgeRow, error) {
	query := baseQuery
	args := []any{}
	if filter.hasTimeWindow() {
		query += fmt.Sprintf(` WHERE %s >= $1 AND %s <= $2 LIMIT $3`, timeColumn, timeColumn)
		args = append(args, *filter.TimeStart, *filter.TimeEnd, filter.limit())
	} else {
		query += ` LIMIT $1`
		args = append(args, filter.limit())
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []EdgeRow
	for rows.Next() {
		e := EdgeRow{Type: edgeType}
		if err := rows.Scan(&e.Source, &e.Target, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan %s edge: %w", edgeType, err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func (r *graphRepository) queryAssignedEdges(ctx context.Context, conn *pgxpool.Conn, filter GraphFilter) ([]EdgeRow, error) {
	query := `
		SELECT work_item_id, primary_human_id, created_at
		FROM decisions
		LIMIT $1`

	rows, err := conn.Query(ctx, query, filter.limit())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []EdgeRow
	for rows.Next() {
		e := EdgeRow{Type: models.EdgeTypeAssigned}
		if err := rows.Scan(&e.Source, &e.Target, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan assigned edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Ensure graphRepository implements GraphRepository at compile time.
var _ GraphRepository = (*graphRepository)(nil)
