package model

// Comment loading modes. See CommentsMeta.Mode.
const (
	CommentModeSkip = "skip"
	CommentModeLast = "last_3"
	CommentModeAll  = "all"
)

// Link directions relative to the issue being described.
const (
	LinkDirectionOutward = "outward"
	LinkDirectionInward  = "inward"
)

// StatusRef is a reduced status reference. Fields are omitted when the
// upstream record does not carry them.
type StatusRef struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

// NameRef is a reduced id/name reference used for priorities and issue
// types.
type NameRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// CompactIssueRef is a best-effort pointer to another issue. Every field
// except Key may be empty when absent upstream.
type CompactIssueRef struct {
	Key       string `json:"key"`
	Summary   string `json:"summary,omitempty"`
	Status    string `json:"status,omitempty"`
	IssueType string `json:"issueType,omitempty"`
}

// LinkedIssueRef is a CompactIssueRef plus the relation it was reached
// through.
type LinkedIssueRef struct {
	CompactIssueRef

	// Relation is the human-readable label (e.g., "blocks",
	// "is blocked by") as seen from the focused issue.
	Relation string `json:"relation"`

	// Direction is "outward" or "inward" relative to the focused issue.
	Direction string `json:"direction"`

	// LinkType is the link type name (e.g., "Blocks").
	LinkType string `json:"linkType,omitempty"`
}

// IssueComment is a single projected comment, body already converted to
// plain text.
type IssueComment struct {
	ID         string  `json:"id"`
	Body       string  `json:"body"`
	AuthorID   string  `json:"authorId,omitempty"`
	AuthorName string  `json:"authorName,omitempty"`
	Created    *string `json:"created"`
	Updated    *string `json:"updated"`
}

// CommentsMeta describes how comments were loaded for a focused issue.
type CommentsMeta struct {
	Mode     string `json:"mode"`
	Total    int    `json:"total"`
	Returned int    `json:"returned"`
}

// FocusedIssue is the adapter's reduced, stable issue representation.
type FocusedIssue struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`

	// Description is plain text unless the caller asked for the raw
	// document, in which case Document carries the rich-text tree.
	Description string `json:"description"`
	Document    any    `json:"document,omitempty"`

	FixVersions      []string `json:"fixVersions"`
	AffectedVersions []string `json:"affectedVersions"`

	Status    *StatusRef `json:"status"`
	Priority  *NameRef   `json:"priority"`
	Severity  *string    `json:"severity"`
	IssueType *NameRef   `json:"issueType"`

	ProjectKey string `json:"projectKey"`

	Parent       *CompactIssueRef  `json:"parent"`
	Subtasks     []CompactIssueRef `json:"subtasks"`
	LinkedIssues []LinkedIssueRef  `json:"linkedIssues"`

	Comments     []IssueComment `json:"comments"`
	CommentsMeta CommentsMeta   `json:"commentsMeta"`
}

// TransitionResult reports the outcome of a requested status transition.
// A missing transition is an expected business condition, so it is
// reported here rather than as an error.
type TransitionResult struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`

	// TransitionID and ToStatus are set when Applied is true.
	TransitionID string `json:"transitionId,omitempty"`
	ToStatus     string `json:"toStatus,omitempty"`
}

// CreatedIssue is the result of a create operation, optionally carrying
// the outcome of a post-create transition attempt.
type CreatedIssue struct {
	Issue      FocusedIssue      `json:"issue"`
	Transition *TransitionResult `json:"transition,omitempty"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Issues []FocusedIssue `json:"issues"`

	// NextToken continues the search when non-nil. In enhanced mode it
	// is the opaque upstream cursor; in legacy mode it encodes the next
	// start offset.
	NextToken *string `json:"nextToken"`

	// Total is the reported total when known (legacy mode); -1 when the
	// endpoint does not report one.
	Total int `json:"total"`

	// Truncated and Notice are set only by the strict safe-list mode.
	Truncated bool    `json:"truncated"`
	Notice    *string `json:"notice"`
}
