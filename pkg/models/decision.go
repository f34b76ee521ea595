package models

// ConstraintResult is one named pass/fail check evaluated by the decision
// service before committing to an assignment.
type ConstraintResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

// Decision is the routing engine's chosen primary/backup assignees for a
// work item. Produced by the decision service; read-only here.
//
// BackupHumanIDs is ordered, contains no duplicates, and never includes
// the primary.
type Decision struct {
	ID                 string             `json:"id"`
	WorkItemID         string             `json:"work_item_id"`
	PrimaryHumanID     string             `json:"primary_human_id"`
	BackupHumanIDs     []string           `json:"backup_human_ids"`
	Confidence         float64            `json:"confidence"` // 0-1
	ConstraintsChecked []ConstraintResult `json:"constraints_checked"`
	CreatedAt          string             `json:"created_at"`
}

// DecisionSummary is the condensed decision shape embedded in an audit trail.
type DecisionSummary struct {
	PrimaryHumanID string   `json:"primary_human_id"`
	BackupHumanIDs []string `json:"backup_human_ids"`
	Confidence     float64  `json:"confidence"`
	CreatedAt      string   `json:"created_at"`
}

// AuditTrail is the full candidate list, constraints, and decision summary
// for one work item.
type AuditTrail struct {
	WorkItemID  string             `json:"work_item_id"`
	DecisionID  string             `json:"decision_id"`
	Decision    DecisionSummary    `json:"decision"`
	Candidates  []Candidate        `json:"candidates"`
	Constraints []ConstraintResult `json:"constraints"`
}
