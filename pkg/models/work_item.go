package models

// Work item types as produced by the ingest service.
const (
	WorkItemTypeIncident = "incident"
	WorkItemTypeTicket   = "ticket"
	WorkItemTypeAlert    = "alert"
)

// Severity levels, sev1 being the most severe.
const (
	SeveritySev1 = "sev1"
	SeveritySev2 = "sev2"
	SeveritySev3 = "sev3"
	SeveritySev4 = "sev4"
)

// WorkItem is an incident, ticket, or alert requiring assignment.
// Work items are owned by the ingest service; this service only reads them
// (and mirrors a projection of them in the graph store).
type WorkItem struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Service      string  `json:"service"`
	Severity     string  `json:"severity"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
	OriginSystem string  `json:"origin_system"`
	JiraIssueKey string  `json:"jira_issue_key,omitempty"`
	StoryPoints  *int    `json:"story_points,omitempty"`
	Impact       string  `json:"impact,omitempty"`
	RawLog       string  `json:"raw_log,omitempty"`
	CreatorID    string  `json:"creator_id,omitempty"`
}

// WorkItemsResponse is the paginated list shape returned by the ingest service.
type WorkItemsResponse struct {
	WorkItems []WorkItem `json:"work_items"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// CreateWorkItemRequest is the payload for submitting a new work item.
type CreateWorkItemRequest struct {
	Type         string `json:"type"`
	Service      string `json:"service"`
	Severity     string `json:"severity"`
	Description  string `json:"description"`
	OriginSystem string `json:"origin_system"`
	CreatorID    string `json:"creator_id,omitempty"`
	RawLog       string `json:"raw_log,omitempty"`
}

// ValidWorkItemTypes contains all valid work item type values.
var ValidWorkItemTypes = []string{WorkItemTypeIncident, WorkItemTypeTicket, WorkItemTypeAlert}

// ValidSeverities contains all valid severity values.
var ValidSeverities = []string{SeveritySev1, SeveritySev2, SeveritySev3, SeveritySev4}

// IsValidWorkItemType checks if the given type is valid.
func IsValidWorkItemType(t string) bool {
	for _, v := range ValidWorkItemTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValidSeverity checks if the given severity is valid.
func IsValidSeverity(s string) bool {
	for _, v := range ValidSeverities {
		if v == s {
			return true
		}
	}
	return false
}
