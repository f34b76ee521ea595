package models

// ServiceStats is one row of a human's per-service history.
type ServiceStats struct {
	Service        string  `json:"service"`
	FitScore       float64 `json:"fit_score"`
	ResolvesCount  int     `json:"resolves_count"`
	TransfersCount int     `json:"transfers_count"`
	LastResolvedAt string  `json:"last_resolved_at,omitempty"`
}

// Load captures a human's current paging and assignment load.
type Load struct {
	Pages7d     int `json:"pages_7d"`
	ActiveItems int `json:"active_items"`
}

// RecordedOutcome is an outcome as echoed back by the learner in stats views.
type RecordedOutcome struct {
	ID         string `json:"id"`
	WorkItemID string `json:"work_item_id"`
	Type       string `json:"type"`
	ActorID    string `json:"actor_id"`
	Timestamp  string `json:"timestamp"`
	Service    string `json:"service"`
}

// HumanStats is the learner's full stats view for one human.
type HumanStats struct {
	HumanID        string            `json:"human_id"`
	DisplayName    string            `json:"display_name"`
	Services       []ServiceStats    `json:"services"`
	Load           Load              `json:"load"`
	RecentOutcomes []RecordedOutcome `json:"recent_outcomes,omitempty"`
}
