package jira

import "encoding/json"

// rawIssue is a Jira issue as returned by the REST API. Fields arrive in
// heterogeneous shapes across instances and API versions, so they are
// kept loosely typed and read through the projection helpers.
type rawIssue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// enhancedSearchResponse is the response of the cursor-paginated search
// endpoint (POST /rest/api/3/search/jql).
type enhancedSearchResponse struct {
	Issues        []rawIssue `json:"issues"`
	NextPageToken string     `json:"nextPageToken"`
	IsLast        bool       `json:"isLast"`
}

// legacySearchResponse is the response of the offset-paginated search
// endpoint (POST /rest/api/2/search).
type legacySearchResponse struct {
	StartAt    int        `json:"startAt"`
	MaxResults int        `json:"maxResults"`
	Total      int        `json:"total"`
	Issues     []rawIssue `json:"issues"`
}

// commentPage holds one page of issue comments.
type commentPage struct {
	StartAt    int          `json:"startAt"`
	MaxResults int          `json:"maxResults"`
	Total      int          `json:"total"`
	Comments   []rawComment `json:"comments"`
}

// rawComment is a single comment. The body is a rich-text document on
// API v3 and a plain string on v2; both are handled by the converter.
type rawComment struct {
	ID      string   `json:"id"`
	Body    any      `json:"body"`
	Author  *rawUser `json:"author"`
	Created string   `json:"created"`
	Updated string   `json:"updated"`
}

// rawUser is a Jira user reference.
type rawUser struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// linkType is a symmetric issue link type.
type linkType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// linkTypesResponse wraps GET /rest/api/3/issueLinkType.
type linkTypesResponse struct {
	IssueLinkTypes []linkType `json:"issueLinkTypes"`
}

// rawStatus is a status record as embedded in transition targets.
type rawStatus struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	StatusCategory struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"statusCategory"`
}

// rawTransition is one available workflow transition.
type rawTransition struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	To   rawStatus `json:"to"`
}

// transitionsResponse wraps the list of transitions returned by the API.
type transitionsResponse struct {
	Transitions []rawTransition `json:"transitions"`
}

// rawProject is the project record from GET /rest/api/3/project/{key}.
type rawProject struct {
	ID         string         `json:"id"`
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	IssueTypes []rawIssueType `json:"issueTypes"`
}

// rawIssueType is one issue type definition.
type rawIssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subtask     bool   `json:"subtask"`
}

// rawPriority is one selectable priority.
type rawPriority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// rawVersion is one project version.
type rawVersion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Released    bool   `json:"released"`
	Archived    bool   `json:"archived"`
	ReleaseDate string `json:"releaseDate"`
}

// assignableUser is one entry from the assignable user search.
type assignableUser struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Active      bool   `json:"active"`
}

// projectStatuses is one entry of GET /rest/api/3/project/{key}/statuses:
// the statuses reachable by one issue type.
type projectStatuses struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subtask  bool   `json:"subtask"`
	Statuses []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"statuses"`
}

// boardsResponse wraps GET /rest/agile/1.0/board.
type boardsResponse struct {
	IsLast bool `json:"isLast"`
	Values []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"values"`
}

// sprintsResponse wraps GET /rest/agile/1.0/board/{id}/sprint.
type sprintsResponse struct {
	IsLast bool        `json:"isLast"`
	Values []rawSprint `json:"values"`
}

// rawSprint is one sprint record from the agile API.
type rawSprint struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	State         string `json:"state"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	OriginBoardID int    `json:"originBoardId"`
}

// createMetaResponse wraps the create-meta lookup with expanded fields.
type createMetaResponse struct {
	Projects []struct {
		Key        string `json:"key"`
		IssueTypes []struct {
			ID     string                  `json:"id"`
			Name   string                  `json:"name"`
			Fields map[string]rawFieldMeta `json:"fields"`
		} `json:"issuetypes"`
	} `json:"projects"`
}

// rawFieldMeta describes one field in create-meta.
type rawFieldMeta struct {
	Required      bool              `json:"required"`
	Name          string            `json:"name"`
	AllowedValues []json.RawMessage `json:"allowedValues"`
}

// createdIssueResponse is the response of POST /rest/api/3/issue.
type createdIssueResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// errorResponse is the standard Jira error response format.
type errorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
