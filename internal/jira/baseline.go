package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/jira-lens/internal/model"
)

// assigneeSampleLimit bounds the recency query used to rank assignable
// users by recent assignment activity.
const assigneeSampleLimit = 50

// fieldSpec ties a curated business field name to the raw field key
// used by create-meta.
type fieldSpec struct {
	name string
	key  string
}

// businessFields are the curated business fields tracked in field
// profiles. Severity is appended at runtime when configured.
var businessFields = []fieldSpec{
	{"summary", "summary"},
	{"description", "description"},
	{"fixVersions", "fixVersions"},
	{"affectedVersions", "versions"},
	{"priority", "priority"},
}

// ProjectBaseline builds a per-project snapshot of the vocabulary a
// caller needs before reading or writing issues. The project lookup
// itself is fatal; every other sub-lookup degrades to a note on
// failure, so partial results are expected rather than exceptional.
func (a *Adapter) ProjectBaseline(
	ctx context.Context,
	projectKey string,
) (*model.ProjectBaseline, error) {
	if strings.TrimSpace(projectKey) == "" {
		return nil, validationf("project key is required")
	}

	project, err := a.fetchProject(ctx, projectKey)
	if err != nil {
		return nil, err
	}

	baseline := &model.ProjectBaseline{
		SnapshotID:      uuid.NewString(),
		ProjectID:       project.ID,
		ProjectKey:      project.Key,
		ProjectName:     project.Name,
		IssueTypes:      []model.IssueTypeInfo{},
		Priorities:      []model.PriorityInfo{},
		Versions:        []model.VersionInfo{},
		AssignableUsers: []model.RankedUser{},
		ActiveSprints:   []model.SprintInfo{},
		Fields:          []model.IssueTypeFields{},
		Flows:           []model.WorkflowFlow{},
		Notes:           []string{},
	}

	for _, t := range project.IssueTypes {
		baseline.IssueTypes = append(baseline.IssueTypes, model.IssueTypeInfo{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Subtask:     t.Subtask,
		})
	}

	// note wraps a sub-lookup so its failure becomes a textual note
	// instead of aborting the snapshot.
	note := func(label string, fn func() error) {
		if err := fn(); err != nil {
			baseline.Notes = append(
				baseline.Notes, fmt.Sprintf("%s: %v", label, err),
			)
		}
	}

	note("priorities", func() error {
		var priorities []rawPriority
		if err := a.client.Get(ctx, "/rest/api/3/priority", &priorities); err != nil {
			return err
		}
		for _, p := range priorities {
			baseline.Priorities = append(baseline.Priorities, model.PriorityInfo{
				ID: p.ID, Name: p.Name,
			})
		}
		return nil
	})

	note("versions", func() error {
		versions, err := a.fetchVersions(ctx, projectKey)
		if err != nil {
			return err
		}
		for _, v := range versions {
			if v.Released || v.Archived {
				continue
			}
			baseline.Versions = append(baseline.Versions, model.VersionInfo{
				ID:          v.ID,
				Name:        v.Name,
				Description: v.Description,
				ReleaseDate: v.ReleaseDate,
			})
		}
		return nil
	})

	note("assignable users", func() error {
		users, err := a.rankedAssignableUsers(ctx, projectKey)
		if err != nil {
			return err
		}
		baseline.AssignableUsers = users
		return nil
	})

	note("active sprints", func() error {
		sprints, err := a.fetchProjectSprints(ctx, projectKey, "active")
		if err != nil {
			return err
		}
		for _, sprint := range sprints {
			baseline.ActiveSprints = append(baseline.ActiveSprints, model.SprintInfo{
				ID:          sprint.ID,
				Name:        sprint.Name,
				State:       sprint.State,
				BoardID:     sprint.OriginBoardID,
				Description: describeSprint(sprint),
			})
		}
		return nil
	})

	var meta *createMetaResponse
	note("field metadata", func() error {
		fetched, err := a.fetchCreateMeta(ctx, projectKey)
		if err != nil {
			return err
		}
		meta = fetched
		baseline.Fields = a.fieldProfiles(meta)
		return nil
	})

	baseline.Severity = a.severityContext(meta)

	note("workflow", func() error {
		flows, err := a.WorkflowFlows(ctx, projectKey)
		if err != nil {
			return err
		}
		baseline.Flows = flows
		return nil
	})

	return baseline, nil
}

// rankedAssignableUsers returns the project's assignable users ranked
// by how often they appear as assignee in a sample of recently updated
// issues. One query samples the issues; users never seen rank last,
// ties break by display name.
func (a *Adapter) rankedAssignableUsers(
	ctx context.Context,
	projectKey string,
) ([]model.RankedUser, error) {
	path := fmt.Sprintf(
		"/rest/api/3/user/assignable/search?project=%s&maxResults=50",
		url.QueryEscape(projectKey),
	)
	var users []assignableUser
	if err := a.client.Get(ctx, path, &users); err != nil {
		return nil, fmt.Errorf("fetching assignable users: %w", err)
	}

	counts, err := a.recentAssigneeCounts(ctx, projectKey)
	if err != nil {
		return nil, err
	}

	ranked := make([]model.RankedUser, 0, len(users))
	for _, user := range users {
		if !user.Active {
			continue
		}
		ranked = append(ranked, model.RankedUser{
			AccountID:         user.AccountID,
			DisplayName:       user.DisplayName,
			RecentAssignments: counts[user.AccountID],
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RecentAssignments != ranked[j].RecentAssignments {
			return ranked[i].RecentAssignments > ranked[j].RecentAssignments
		}
		return ranked[i].DisplayName < ranked[j].DisplayName
	})
	return ranked, nil
}

// recentAssigneeCounts tallies current assignees over the most recently
// updated issues of the project, bounded by assigneeSampleLimit.
func (a *Adapter) recentAssigneeCounts(
	ctx context.Context,
	projectKey string,
) (map[string]int, error) {
	jql := fmt.Sprintf(
		"project = %s ORDER BY updated DESC", quoteJQL(projectKey),
	)
	issues, err := a.sampleSearch(
		ctx, jql, assigneeSampleLimit, []string{"assignee"},
	)
	if err != nil {
		return nil, fmt.Errorf("sampling recent assignees: %w", err)
	}

	counts := make(map[string]int)
	for _, issue := range issues {
		assignee := objField(issue.Fields, "assignee")
		if accountID := strKey(assignee, "accountId"); accountID != "" {
			counts[accountID]++
		}
	}
	return counts, nil
}

// fetchCreateMeta retrieves the create-meta field catalog for the
// project with fields expanded per issue type.
func (a *Adapter) fetchCreateMeta(
	ctx context.Context,
	projectKey string,
) (*createMetaResponse, error) {
	path := fmt.Sprintf(
		"/rest/api/3/issue/createmeta?projectKeys=%s&expand=projects.issuetypes.fields",
		url.QueryEscape(projectKey),
	)
	var meta createMetaResponse
	if err := a.client.Get(ctx, path, &meta); err != nil {
		return nil, fmt.Errorf("fetching create metadata: %w", err)
	}
	return &meta, nil
}

// fieldProfiles derives the per-issue-type business field profile from
// create-meta.
func (a *Adapter) fieldProfiles(meta *createMetaResponse) []model.IssueTypeFields {
	profiles := []model.IssueTypeFields{}
	if meta == nil || len(meta.Projects) == 0 {
		return profiles
	}

	fields := businessFields
	if a.cfg.Severity.Configured() {
		fields = append(append([]fieldSpec{}, fields...),
			fieldSpec{"severity", a.cfg.Severity.FieldID})
	}

	for _, issueType := range meta.Projects[0].IssueTypes {
		profile := model.IssueTypeFields{
			IssueType: model.NameRef{ID: issueType.ID, Name: issueType.Name},
			Fields:    make([]model.FieldProfile, 0, len(fields)),
		}
		for _, field := range fields {
			fieldMeta, supported := issueType.Fields[field.key]
			entry := model.FieldProfile{
				Field:     field.name,
				Supported: supported,
			}
			if supported {
				entry.Required = fieldMeta.Required
				entry.AllowedValues = allowedValueNames(fieldMeta.AllowedValues)
			}
			profile.Fields = append(profile.Fields, entry)
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

// allowedValueNames extracts display scalars from raw allowed values.
func allowedValueNames(raw []json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		var value any
		if err := json.Unmarshal(item, &value); err != nil {
			continue
		}
		if s := looseScalar(value); s != "" {
			names = append(names, s)
		}
	}
	return names
}

// severityContext reports the severity configuration plus the
// deduplicated option catalog observed in create-meta.
func (a *Adapter) severityContext(meta *createMetaResponse) model.SeverityContext {
	cfg := a.cfg.Severity
	sc := model.SeverityContext{
		Configured:    cfg.Configured(),
		AllowedValues: []string{},
	}
	if !cfg.Configured() {
		return sc
	}

	sc.FieldID = cfg.FieldID
	sc.JQLField = severityJQLField(cfg)
	sc.ValueType = cfg.ValueType

	if meta == nil || len(meta.Projects) == 0 {
		return sc
	}

	seen := make(map[string]bool)
	for _, issueType := range meta.Projects[0].IssueTypes {
		fieldMeta, ok := issueType.Fields[cfg.FieldID]
		if !ok {
			continue
		}
		for _, name := range allowedValueNames(fieldMeta.AllowedValues) {
			if seen[name] {
				continue
			}
			seen[name] = true
			sc.AllowedValues = append(sc.AllowedValues, name)
		}
	}
	return sc
}
