package models

// Graph node types.
const (
	NodeTypeHuman    = "human"
	NodeTypeWorkItem = "work_item"
	NodeTypeService  = "service"
	NodeTypeDecision = "decision"
	NodeTypeOutcome  = "outcome"
)

// Graph edge types.
const (
	EdgeTypeResolved    = "RESOLVED"
	EdgeTypeTransferred = "TRANSFERRED"
	EdgeTypeCoWorked    = "CO_WORKED"
	EdgeTypeAssigned    = "ASSIGNED"
)

// GraphNode is a visualization-only projection of an entity. Coordinates
// come from precomputed embedding columns and default to the origin.
type GraphNode struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Label    string            `json:"label"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Z        float64           `json:"z"`
	Color    string            `json:"color"`
	Val      int               `json:"val"`
	Group    string            `json:"group"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// GraphEdge connects two nodes by ID.
type GraphEdge struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// GraphStats summarizes a graph payload. ByType is always derived from the
// returned node list, so the counts match what the caller actually received
// even when a row limit truncated the queries.
type GraphStats struct {
	TotalNodes int            `json:"total_nodes"`
	TotalEdges int            `json:"total_edges"`
	ByType     GraphTypeCount `json:"by_type"`
}

// GraphTypeCount holds per-node-type counts.
type GraphTypeCount struct {
	Human    int `json:"human"`
	WorkItem int `json:"work_item"`
	Service  int `json:"service"`
	Decision int `json:"decision"`
	Outcome  int `json:"outcome"`
}

// GraphData is the assembled node/edge payload served by /api/graph.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphEdge `json:"links"`
	Stats GraphStats  `json:"stats"`
}

// FilterNodes returns a copy of the graph keeping only nodes accepted by
// keep. Edges are retained only when both endpoints survive the filter;
// this is the display-side inclusion rule and must be re-applied every time
// the visible node set changes. Stats are recomputed for the filtered view.
func (g GraphData) FilterNodes(keep func(GraphNode) bool) GraphData {
	nodes := make([]GraphNode, 0, len(g.Nodes))
	present := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if keep(n) {
			nodes = append(nodes, n)
			present[n.ID] = struct{}{}
		}
	}

	links := make([]GraphEdge, 0, len(g.Links))
	for _, e := range g.Links {
		if _, ok := present[e.Source]; !ok {
			continue
		}
		if _, ok := present[e.Target]; !ok {
			continue
		}
		links = append(links, e)
	}

	return GraphData{
		Nodes: nodes,
		Links: links,
		Stats: ComputeGraphStats(nodes, links),
	}
}

// ComputeGraphStats derives summary counts by scanning the node and edge
// slices. It never queries the store.
func ComputeGraphStats(nodes []GraphNode, links []GraphEdge) GraphStats {
	stats := GraphStats{
		TotalNodes: len(nodes),
		TotalEdges: len(links),
	}
	for _, n := range nodes {
		switch n.Type {
		case NodeTypeHuman:
			stats.ByType.Human++
		case NodeTypeWorkItem:
			stats.ByType.WorkItem++
		case NodeTypeService:
			stats.ByType.Service++
		case NodeTypeDecision:
			stats.ByType.Decision++
		case NodeTypeOutcome:
			stats.ByType.Outcome++
		}
	}
	return stats
}
