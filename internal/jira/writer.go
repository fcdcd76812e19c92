package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nhle/jira-lens/internal/model"
)

// CreateIssueInput describes a new issue. ProjectKey, IssueType, and
// Summary are required; everything else is optional. IssueType,
// Priority, and version values accept ids or names and are resolved
// before any write.
type CreateIssueInput struct {
	ProjectKey       string
	IssueType        string
	Summary          string
	Description      string
	Priority         string
	Severity         string
	FixVersions      []string
	AffectedVersions []string
	ParentKey        string

	// TransitionTo optionally moves the fresh issue to a status. A
	// missing transition does not fail the create; see
	// CreatedIssue.Transition.
	TransitionTo string
}

// UpdateIssueInput carries three-state field updates: an unspecified
// field is untouched, a null one is cleared, a valued one is set.
type UpdateIssueInput struct {
	Summary          model.Optional[string]
	Description      model.Optional[string]
	Priority         model.Optional[string]
	Severity         model.Optional[string]
	FixVersions      model.Optional[[]string]
	AffectedVersions model.Optional[[]string]
	Assignee         model.Optional[string]
}

// CreateIssue creates an issue and optionally transitions it. The
// created issue is re-read and projected so the caller sees the same
// shape as GetIssue.
func (a *Adapter) CreateIssue(
	ctx context.Context,
	input CreateIssueInput,
) (*model.CreatedIssue, error) {
	if strings.TrimSpace(input.ProjectKey) == "" {
		return nil, validationf("project key is required")
	}
	if strings.TrimSpace(input.Summary) == "" {
		return nil, validationf("summary is required")
	}
	if strings.TrimSpace(input.IssueType) == "" {
		return nil, validationf("issue type is required")
	}

	issueType, err := a.resolveIssueType(ctx, input.ProjectKey, input.IssueType)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"project":   map[string]string{"key": input.ProjectKey},
		"issuetype": map[string]string{"id": issueType.ID},
		"summary":   input.Summary,
	}
	if input.Description != "" {
		fields["description"] = DocFromPlainText(input.Description)
	}
	if input.Priority != "" {
		priority, err := a.resolvePriority(ctx, input.Priority)
		if err != nil {
			return nil, err
		}
		fields["priority"] = map[string]string{"id": priority.ID}
	}
	if len(input.FixVersions) > 0 {
		refs, err := a.resolveVersions(ctx, input.ProjectKey, input.FixVersions)
		if err != nil {
			return nil, err
		}
		fields["fixVersions"] = versionPayload(refs)
	}
	if len(input.AffectedVersions) > 0 {
		refs, err := a.resolveVersions(ctx, input.ProjectKey, input.AffectedVersions)
		if err != nil {
			return nil, err
		}
		fields["versions"] = versionPayload(refs)
	}
	if input.Severity != "" {
		payload, err := severityPayload(a.cfg.Severity, input.Severity)
		if err != nil {
			return nil, err
		}
		fields[a.cfg.Severity.FieldID] = payload
	}
	if input.ParentKey != "" {
		fields["parent"] = map[string]string{"key": input.ParentKey}
	}

	var created createdIssueResponse
	err = a.client.Post(
		ctx, "/rest/api/3/issue", map[string]any{"fields": fields}, &created,
	)
	if err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	result := &model.CreatedIssue{}
	if input.TransitionTo != "" {
		transition, err := a.TransitionIssue(ctx, created.Key, input.TransitionTo)
		if err != nil {
			return nil, fmt.Errorf(
				"transitioning created issue %s: %w", created.Key, err,
			)
		}
		result.Transition = transition
	}

	issue, err := a.GetIssue(ctx, created.Key, GetIssueOptions{
		CommentMode: model.CommentModeSkip,
	})
	if err != nil {
		return nil, fmt.Errorf(
			"reading back created issue %s: %w", created.Key, err,
		)
	}
	result.Issue = *issue
	return result, nil
}

// versionPayload renders resolved versions as the id-object list Jira
// expects.
func versionPayload(refs []idName) []map[string]string {
	payload := make([]map[string]string, len(refs))
	for i, ref := range refs {
		payload[i] = map[string]string{"id": ref.ID}
	}
	return payload
}

// UpdateIssue applies three-state field updates and returns the
// re-projected issue.
func (a *Adapter) UpdateIssue(
	ctx context.Context,
	key string,
	input UpdateIssueInput,
) (*model.FocusedIssue, error) {
	if strings.TrimSpace(key) == "" {
		return nil, validationf("issue key is required")
	}

	fields := map[string]any{}

	if summary, ok := input.Summary.Value(); ok {
		fields["summary"] = summary
	} else if input.Summary.IsNull() {
		return nil, validationf("summary cannot be cleared")
	}

	if input.Description.IsNull() {
		fields["description"] = nil
	} else if desc, ok := input.Description.Value(); ok {
		fields["description"] = DocFromPlainText(desc)
	}

	if input.Priority.IsNull() {
		fields["priority"] = nil
	} else if value, ok := input.Priority.Value(); ok {
		priority, err := a.resolvePriority(ctx, value)
		if err != nil {
			return nil, err
		}
		fields["priority"] = map[string]string{"id": priority.ID}
	}

	if input.Severity.IsNull() {
		if !a.cfg.Severity.Configured() {
			return nil, validationf("severity requires a configured severity field")
		}
		fields[a.cfg.Severity.FieldID] = nil
	} else if value, ok := input.Severity.Value(); ok {
		payload, err := severityPayload(a.cfg.Severity, value)
		if err != nil {
			return nil, err
		}
		fields[a.cfg.Severity.FieldID] = payload
	}

	projectKey := strings.SplitN(key, "-", 2)[0]

	if input.FixVersions.IsNull() {
		fields["fixVersions"] = []any{}
	} else if values, ok := input.FixVersions.Value(); ok {
		refs, err := a.resolveVersions(ctx, projectKey, values)
		if err != nil {
			return nil, err
		}
		fields["fixVersions"] = versionPayload(refs)
	}

	if input.AffectedVersions.IsNull() {
		fields["versions"] = []any{}
	} else if values, ok := input.AffectedVersions.Value(); ok {
		refs, err := a.resolveVersions(ctx, projectKey, values)
		if err != nil {
			return nil, err
		}
		fields["versions"] = versionPayload(refs)
	}

	if input.Assignee.IsNull() {
		fields["assignee"] = nil
	} else if accountID, ok := input.Assignee.Value(); ok {
		fields["assignee"] = map[string]string{"accountId": accountID}
	}

	if len(fields) == 0 {
		return nil, validationf("no fields to update")
	}

	path := "/rest/api/3/issue/" + url.PathEscape(key)
	err := a.client.Put(ctx, path, map[string]any{"fields": fields}, nil)
	if err != nil {
		return nil, fmt.Errorf("updating issue %s: %w", key, err)
	}

	return a.GetIssue(ctx, key, GetIssueOptions{
		CommentMode: model.CommentModeSkip,
	})
}

// AddComment posts a plain-text comment and returns its projection.
func (a *Adapter) AddComment(
	ctx context.Context,
	key string,
	body string,
) (*model.IssueComment, error) {
	if strings.TrimSpace(key) == "" {
		return nil, validationf("issue key is required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, validationf("comment body is required")
	}

	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/comment"
	payload := map[string]any{"body": DocFromPlainText(body)}

	var created rawComment
	if err := a.client.Post(ctx, path, payload, &created); err != nil {
		return nil, fmt.Errorf("adding comment to %s: %w", key, err)
	}

	projected := projectComments([]rawComment{created})
	return &projected[0], nil
}

// LinkIssues creates a link between two issues. The relation label is
// resolved against the instance's link types; its direction decides
// which issue plays the outward role.
func (a *Adapter) LinkIssues(
	ctx context.Context,
	issueKey string,
	relation string,
	targetKey string,
) error {
	if strings.TrimSpace(issueKey) == "" || strings.TrimSpace(targetKey) == "" {
		return validationf("both issue keys are required")
	}

	candidates, err := a.fetchLinkTypes(ctx)
	if err != nil {
		return err
	}
	resolved, err := resolveRelation(relation, candidates)
	if err != nil {
		return err
	}

	outward, inward := issueKey, targetKey
	if resolved.Direction == model.LinkDirectionInward {
		outward, inward = targetKey, issueKey
	}

	payload := map[string]any{
		"type":         map[string]string{"name": resolved.TypeName},
		"outwardIssue": map[string]string{"key": outward},
		"inwardIssue":  map[string]string{"key": inward},
	}
	if err := a.client.Post(ctx, "/rest/api/3/issueLink", payload, nil); err != nil {
		return fmt.Errorf(
			"linking %s %q %s: %w", issueKey, relation, targetKey, err,
		)
	}
	return nil
}

// TransitionIssue moves an issue to another status. The value matches a
// transition id, a transition name, or a destination status name. No
// match is a business outcome, not an error: the result reports
// applied=false with the available transitions in the reason.
func (a *Adapter) TransitionIssue(
	ctx context.Context,
	key string,
	value string,
) (*model.TransitionResult, error) {
	if strings.TrimSpace(value) == "" {
		return nil, validationf("transition value is required")
	}

	transitions, err := a.fetchTransitions(ctx, key)
	if err != nil {
		return nil, err
	}

	matched := matchTransition(value, transitions)
	if matched == nil {
		names := make([]string, 0, len(transitions))
		for _, t := range transitions {
			names = append(names, fmt.Sprintf("%s -> %s", t.Name, t.To.Name))
		}
		reason := fmt.Sprintf(
			"No matching transition found for %q; available: %s",
			value, strings.Join(names, ", "),
		)
		if len(names) == 0 {
			reason = fmt.Sprintf(
				"No matching transition found for %q; no transitions are currently available",
				value,
			)
		}
		return &model.TransitionResult{Applied: false, Reason: reason}, nil
	}

	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/transitions"
	payload := map[string]any{
		"transition": map[string]string{"id": matched.ID},
	}
	// Transition endpoint returns 204 No Content on success.
	if err := a.client.Post(ctx, path, payload, nil); err != nil {
		return nil, fmt.Errorf("transitioning %s: %w", key, err)
	}

	return &model.TransitionResult{
		Applied:      true,
		TransitionID: matched.ID,
		ToStatus:     matched.To.Name,
	}, nil
}

// SprintSelector picks a sprint by id or by name. Exactly one selector
// must be set; names are matched case-insensitively against the active
// and future sprints of the project's boards.
type SprintSelector struct {
	ProjectKey string
	SprintID   int
	SprintName string
}

// MoveIssuesToSprint assigns issues to a sprint.
func (a *Adapter) MoveIssuesToSprint(
	ctx context.Context,
	selector SprintSelector,
	issueKeys []string,
) error {
	if len(issueKeys) == 0 {
		return validationf("at least one issue key is required")
	}
	if selector.SprintID != 0 && selector.SprintName != "" {
		return validationf("sprint id and sprint name are mutually exclusive")
	}

	sprintID := selector.SprintID
	if sprintID == 0 {
		if selector.SprintName == "" {
			return validationf("a sprint id or sprint name is required")
		}
		if selector.ProjectKey == "" {
			return validationf("a project key is required to resolve a sprint by name")
		}
		resolved, err := a.resolveSprintByName(
			ctx, selector.ProjectKey, selector.SprintName,
		)
		if err != nil {
			return err
		}
		sprintID = resolved
	}

	path := fmt.Sprintf("/rest/agile/1.0/sprint/%d/issue", sprintID)
	payload := map[string]any{"issues": issueKeys}
	if err := a.client.Post(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("moving issues to sprint %d: %w", sprintID, err)
	}
	return nil
}

// resolveSprintByName finds exactly one active or future sprint with
// the given name across the project's boards. Zero matches is a
// resolution failure; several are an ambiguity rejected before any
// write.
func (a *Adapter) resolveSprintByName(
	ctx context.Context,
	projectKey string,
	name string,
) (int, error) {
	sprints, err := a.fetchProjectSprints(ctx, projectKey, "active,future")
	if err != nil {
		return 0, err
	}

	var matches []rawSprint
	for _, sprint := range sprints {
		if strings.EqualFold(sprint.Name, name) {
			matches = append(matches, sprint)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0].ID, nil
	case 0:
		names := make([]string, 0, len(sprints))
		for _, sprint := range sprints {
			names = append(names, sprint.Name)
		}
		return 0, &ResolutionError{
			Kind: "sprint", Value: name, Valid: names,
		}
	default:
		return 0, validationf(
			"sprint name %q is ambiguous: %d sprints match; use the sprint id",
			name, len(matches),
		)
	}
}
