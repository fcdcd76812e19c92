package jira

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nhle/jira-lens/internal/model"
)

const (
	// defaultSearchPageSize applies when the caller does not request a
	// page size.
	defaultSearchPageSize = 25

	// strictResultCap is the hard result cap of safe-list mode.
	strictResultCap = 50
)

// TruncationNotice is the fixed user-facing string attached to
// safe-list results that were capped.
const TruncationNotice = "Results limited to 50 issues. Narrow the query with more specific filters."

// SearchOptions controls pagination for SearchIssues.
type SearchOptions struct {
	// PageSize caps the returned issues. Defaults to 25.
	PageSize int

	// PageToken continues a previous search. Opaque in enhanced mode; a
	// decimal start offset in legacy mode.
	PageToken string
}

// SearchIssues compiles the filters into JQL and returns one page of
// focused issues. The cursor-paginated search endpoint is attempted
// first; a not-found class failure degrades that call to the legacy
// offset-paginated endpoint.
func (a *Adapter) SearchIssues(
	ctx context.Context,
	filters SearchFilters,
	opts SearchOptions,
) (*model.SearchPage, error) {
	jql, err := BuildJQL(filters, a.cfg.Severity)
	if err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultSearchPageSize
	}

	return a.runSearch(ctx, jql, pageSize, opts.PageToken, false)
}

// SafeSearch runs a caller-written query in safe-list mode: results are
// hard-capped at 50 and truncation is reported instead of paginated.
func (a *Adapter) SafeSearch(
	ctx context.Context,
	rawJQL string,
) (*model.SearchPage, error) {
	jql, err := BuildStrictJQL(rawJQL)
	if err != nil {
		return nil, err
	}
	return a.runSearch(ctx, jql, strictResultCap, "", true)
}

// runSearch executes one page fetch. In strict mode one extra item
// beyond the cap is requested so truncation is detectable without a
// second round trip.
func (a *Adapter) runSearch(
	ctx context.Context,
	jql string,
	pageSize int,
	pageToken string,
	strict bool,
) (*model.SearchPage, error) {
	requested := pageSize
	if strict {
		requested = strictResultCap + 1
	}

	page, err := a.enhancedSearch(ctx, jql, requested, pageToken)
	if IsNotFound(err) {
		page, err = a.legacySearch(ctx, jql, requested, pageToken)
	}
	if err != nil {
		return nil, err
	}

	if strict {
		truncatePage(page)
	}
	return page, nil
}

// enhancedSearch queries the cursor-paginated endpoint.
func (a *Adapter) enhancedSearch(
	ctx context.Context,
	jql string,
	maxResults int,
	pageToken string,
) (*model.SearchPage, error) {
	body := map[string]any{
		"jql":        jql,
		"maxResults": maxResults,
		"fields":     a.fetchFields(),
	}
	if pageToken != "" {
		body["nextPageToken"] = pageToken
	}

	var resp enhancedSearchResponse
	if err := a.client.Post(ctx, "/rest/api/3/search/jql", body, &resp); err != nil {
		return nil, err
	}

	page := &model.SearchPage{
		Issues: a.projectSearchIssues(resp.Issues),
		Total:  -1,
	}
	// The token is passed through whenever the upstream sends one, even
	// alongside isLast, so strict mode can read its presence as a
	// truncation signal.
	if resp.NextPageToken != "" {
		token := resp.NextPageToken
		page.NextToken = &token
	}
	return page, nil
}

// sampleSearch runs one bounded internal query (workflow sampling,
// assignee tallies) with a caller-chosen field list. It routes through
// the same endpoints as user searches: cursor-paginated first, legacy
// on a not-found class failure.
func (a *Adapter) sampleSearch(
	ctx context.Context,
	jql string,
	maxResults int,
	fields []string,
) ([]rawIssue, error) {
	body := map[string]any{
		"jql":        jql,
		"maxResults": maxResults,
		"fields":     fields,
	}

	var enhanced enhancedSearchResponse
	err := a.client.Post(ctx, "/rest/api/3/search/jql", body, &enhanced)
	if err == nil {
		return enhanced.Issues, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	body["startAt"] = 0
	var legacy legacySearchResponse
	if err := a.client.Post(ctx, "/rest/api/2/search", body, &legacy); err != nil {
		return nil, fmt.Errorf("legacy search: %w", err)
	}
	return legacy.Issues, nil
}

// legacySearch queries the offset-paginated endpoint. The continuation
// token is the next start offset rendered as a decimal string.
func (a *Adapter) legacySearch(
	ctx context.Context,
	jql string,
	maxResults int,
	pageToken string,
) (*model.SearchPage, error) {
	startAt := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return nil, validationf(
				"page token %q is not valid for offset pagination", pageToken,
			)
		}
		startAt = n
	}

	body := map[string]any{
		"jql":        jql,
		"startAt":    startAt,
		"maxResults": maxResults,
		"fields":     a.fetchFields(),
	}

	var resp legacySearchResponse
	if err := a.client.Post(ctx, "/rest/api/2/search", body, &resp); err != nil {
		return nil, fmt.Errorf("legacy search: %w", err)
	}

	page := &model.SearchPage{
		Issues: a.projectSearchIssues(resp.Issues),
		Total:  resp.Total,
	}
	if next := startAt + len(resp.Issues); next < resp.Total && len(resp.Issues) > 0 {
		token := strconv.Itoa(next)
		page.NextToken = &token
	}
	return page, nil
}

// projectSearchIssues projects raw search hits without loading comments.
func (a *Adapter) projectSearchIssues(raw []rawIssue) []model.FocusedIssue {
	issues := make([]model.FocusedIssue, 0, len(raw))
	for _, r := range raw {
		issues = append(issues, a.projectIssue(r, false))
	}
	return issues
}

// truncatePage applies the safe-list cap. Truncation is signalled when
// more than the cap arrived, when a continuation token remains, or when
// the reported total exceeds the cap.
func truncatePage(page *model.SearchPage) {
	truncated := len(page.Issues) > strictResultCap ||
		page.NextToken != nil ||
		page.Total > strictResultCap

	if len(page.Issues) > strictResultCap {
		page.Issues = page.Issues[:strictResultCap]
	}
	page.NextToken = nil

	if truncated {
		notice := TruncationNotice
		page.Truncated = true
		page.Notice = &notice
	}
}
