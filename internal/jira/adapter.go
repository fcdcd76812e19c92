package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/jira-lens/internal/model"
)

// issueFetchFields are the Jira fields requested when reading issues.
// The configured severity field is appended at request time.
var issueFetchFields = []string{
	"summary", "description", "status", "priority", "issuetype",
	"project", "fixVersions", "versions", "parent", "subtasks",
	"issuelinks",
}

// Adapter is the translation layer between the focused issue vocabulary
// and the Jira REST API. It is stateless and safe for concurrent use:
// every call reads only the immutable configuration and issues
// independent requests.
type Adapter struct {
	client *Client
	cfg    *model.Config
}

// NewAdapter creates an adapter from the given configuration.
func NewAdapter(cfg *model.Config) *Adapter {
	return &Adapter{
		client: NewClient(
			cfg.BaseURL,
			cfg.Email,
			cfg.APIToken,
			time.Duration(cfg.TimeoutSec)*time.Second,
		),
		cfg: cfg,
	}
}

// GetIssueOptions controls how a single issue is loaded.
type GetIssueOptions struct {
	// CommentMode is one of model.CommentModeSkip / Last / All.
	// Empty selects last_3.
	CommentMode string

	// RawDocument returns the description as the rich-text tree instead
	// of plain text.
	RawDocument bool
}

// ResolveCommentMode maps the caller's comment flags to a loading mode:
// skip wins, then all, otherwise the last-3 window.
func ResolveCommentMode(skip, all bool) string {
	switch {
	case skip:
		return model.CommentModeSkip
	case all:
		return model.CommentModeAll
	default:
		return model.CommentModeLast
	}
}

// GetIssue fetches one issue and projects it into the focused shape.
func (a *Adapter) GetIssue(
	ctx context.Context,
	key string,
	opts GetIssueOptions,
) (*model.FocusedIssue, error) {
	if strings.TrimSpace(key) == "" {
		return nil, validationf("issue key is required")
	}
	mode := opts.CommentMode
	if mode == "" {
		mode = model.CommentModeLast
	}
	switch mode {
	case model.CommentModeSkip, model.CommentModeLast, model.CommentModeAll:
	default:
		return nil, validationf("unknown comment mode %q", mode)
	}

	path := fmt.Sprintf(
		"/rest/api/3/issue/%s?fields=%s",
		url.PathEscape(key),
		url.QueryEscape(strings.Join(a.fetchFields(), ",")),
	)

	var raw rawIssue
	if err := a.client.Get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", key, err)
	}

	issue := a.projectIssue(raw, opts.RawDocument)

	comments, meta, err := a.loadComments(ctx, raw.Key, mode)
	if err != nil {
		return nil, fmt.Errorf("loading comments for %s: %w", key, err)
	}
	issue.Comments = comments
	issue.CommentsMeta = meta

	return &issue, nil
}

// fetchFields returns the issue fields to request, including the
// configured severity field.
func (a *Adapter) fetchFields() []string {
	fields := issueFetchFields
	if a.cfg.Severity.Configured() {
		fields = append(append([]string{}, fields...), a.cfg.Severity.FieldID)
	}
	return fields
}
