package models

// ScoreBreakdown itemizes the components behind a candidate's fit score.
// Keys beyond the well-known ones are allowed; the learner adds new
// components without a contract change.
type ScoreBreakdown map[string]float64

// SeverityCounts buckets resolution counts per severity level.
type SeverityCounts struct {
	Sev1 int `json:"sev1"`
	Sev2 int `json:"sev2"`
	Sev3 int `json:"sev3"`
	Sev4 int `json:"sev4"`
}

// Candidate is a human's fit projection for a given service, as scored by
// the learner. Used to populate override pickers and audit tables.
type Candidate struct {
	HumanID            string          `json:"human_id"`
	DisplayName        string          `json:"display_name"`
	FitScore           float64         `json:"fit_score"` // 0-1
	ResolvesCount      int             `json:"resolves_count"`
	TransfersCount     int             `json:"transfers_count"`
	LastResolvedAt     string          `json:"last_resolved_at,omitempty"`
	OnCall             bool            `json:"on_call"`
	Pages7d            int             `json:"pages_7d"`
	ActiveItems        int             `json:"active_items"`
	MaxStoryPoints     *int            `json:"max_story_points,omitempty"`
	CurrentStoryPoints *int            `json:"current_story_points,omitempty"`
	ResolvedBySeverity *SeverityCounts `json:"resolved_by_severity,omitempty"`
	Filtered           bool            `json:"filtered,omitempty"`
	FilterReason       string          `json:"filter_reason,omitempty"`
	ScoreBreakdown     ScoreBreakdown  `json:"score_breakdown,omitempty"`
}

// ProfilesResponse is the learner's candidate list for one service.
type ProfilesResponse struct {
	Service string      `json:"service"`
	Humans  []Candidate `json:"humans"`
}
