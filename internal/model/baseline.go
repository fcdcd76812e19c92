package model

// IssueTypeInfo describes one issue type available in a project.
type IssueTypeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subtask     bool   `json:"subtask"`
}

// PriorityInfo describes one selectable priority.
type PriorityInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VersionInfo describes one project version that is still open for
// planning (unreleased and not archived).
type VersionInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// RankedUser is an assignable user ranked by recent assignment activity.
type RankedUser struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`

	// RecentAssignments counts appearances as assignee in the sampled
	// recently updated issues. Zero means assignable but not seen.
	RecentAssignments int `json:"recentAssignments"`
}

// SprintInfo describes one active sprint reachable from the project's
// boards.
type SprintInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	State   string `json:"state"`
	BoardID int    `json:"boardId"`

	// Description is a generated human-readable summary of the sprint
	// (name, board, and date range when available).
	Description string `json:"description"`
}

// SeverityContext reports how severity is configured and which values
// are accepted.
type SeverityContext struct {
	Configured bool   `json:"configured"`
	FieldID    string `json:"fieldId,omitempty"`
	JQLField   string `json:"jqlField,omitempty"`
	ValueType  string `json:"valueType,omitempty"`

	// AllowedValues is the deduplicated option catalog collected from
	// field metadata. Empty when unconfigured or free-form.
	AllowedValues []string `json:"allowedValues"`
}

// FieldProfile describes how one business field behaves for one issue
// type.
type FieldProfile struct {
	Field         string   `json:"field"`
	Required      bool     `json:"required"`
	Supported     bool     `json:"supported"`
	AllowedValues []string `json:"allowedValues,omitempty"`
}

// IssueTypeFields is the per-issue-type field profile over the business
// fields (summary, description, versions, priority, severity).
type IssueTypeFields struct {
	IssueType NameRef        `json:"issueType"`
	Fields    []FieldProfile `json:"fields"`
}

// TransitionEdge is one observed workflow transition.
type TransitionEdge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Transition string `json:"transition"`
}

// FlowCoverage quantifies how much of a workflow the sampler was able to
// observe.
type FlowCoverage struct {
	StatusesTotal           int `json:"statusesTotal"`
	StatusesWithSample      int `json:"statusesWithSample"`
	StatusesWithTransitions int `json:"statusesWithTransitions"`
}

// WorkflowFlow is the inferred transition graph for one issue type. It
// is an approximation sampled from recent issue activity, not an
// authoritative state machine.
type WorkflowFlow struct {
	IssueType NameRef          `json:"issueType"`
	Statuses  []string         `json:"statuses"`
	Edges     []TransitionEdge `json:"edges"`
	Coverage  FlowCoverage     `json:"coverage"`
}

// ProjectBaseline is a per-project snapshot of the vocabulary a caller
// needs before reading or writing issues. Sub-lookups that fail are
// recorded in Notes rather than aborting the snapshot.
type ProjectBaseline struct {
	SnapshotID  string `json:"snapshotId"`
	ProjectID   string `json:"projectId"`
	ProjectKey  string `json:"projectKey"`
	ProjectName string `json:"projectName"`

	IssueTypes []IssueTypeInfo `json:"issueTypes"`
	Priorities []PriorityInfo  `json:"priorities"`
	Versions   []VersionInfo   `json:"versions"`

	AssignableUsers []RankedUser `json:"assignableUsers"`
	ActiveSprints   []SprintInfo `json:"activeSprints"`

	Severity SeverityContext   `json:"severity"`
	Fields   []IssueTypeFields `json:"fields"`
	Flows    []WorkflowFlow    `json:"flows"`

	Notes []string `json:"notes"`
}
