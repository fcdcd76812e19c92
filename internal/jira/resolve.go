package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nhle/jira-lens/internal/model"
)

// idName is the reduced shape every write-side catalog resolves
// against.
type idName struct {
	ID   string
	Name string
}

// matchIDOrName finds a catalog entry by exact id first, then by
// case-insensitive exact name. An unresolved value aborts the write
// with the full list of valid names attached.
func matchIDOrName(kind, value string, catalog []idName) (*idName, error) {
	for i := range catalog {
		if catalog[i].ID != "" && catalog[i].ID == value {
			return &catalog[i], nil
		}
	}
	for i := range catalog {
		if strings.EqualFold(catalog[i].Name, value) {
			return &catalog[i], nil
		}
	}

	names := make([]string, 0, len(catalog))
	for _, entry := range catalog {
		if entry.Name != "" {
			names = append(names, entry.Name)
		}
	}
	return nil, &ResolutionError{Kind: kind, Value: value, Valid: names}
}

// fetchProject retrieves the project record, including its issue types.
func (a *Adapter) fetchProject(
	ctx context.Context,
	projectKey string,
) (*rawProject, error) {
	path := "/rest/api/3/project/" + url.PathEscape(projectKey)
	var project rawProject
	if err := a.client.Get(ctx, path, &project); err != nil {
		return nil, fmt.Errorf("fetching project %s: %w", projectKey, err)
	}
	return &project, nil
}

// resolveIssueType maps an issue type id or name onto the project's
// issue types.
func (a *Adapter) resolveIssueType(
	ctx context.Context,
	projectKey string,
	value string,
) (*idName, error) {
	project, err := a.fetchProject(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	catalog := make([]idName, len(project.IssueTypes))
	for i, t := range project.IssueTypes {
		catalog[i] = idName{ID: t.ID, Name: t.Name}
	}
	return matchIDOrName("issue type", value, catalog)
}

// resolvePriority maps a priority id or name onto the instance's
// priorities.
func (a *Adapter) resolvePriority(
	ctx context.Context,
	value string,
) (*idName, error) {
	var priorities []rawPriority
	if err := a.client.Get(ctx, "/rest/api/3/priority", &priorities); err != nil {
		return nil, fmt.Errorf("fetching priorities: %w", err)
	}
	catalog := make([]idName, len(priorities))
	for i, p := range priorities {
		catalog[i] = idName{ID: p.ID, Name: p.Name}
	}
	return matchIDOrName("priority", value, catalog)
}

// fetchVersions retrieves every version of a project.
func (a *Adapter) fetchVersions(
	ctx context.Context,
	projectKey string,
) ([]rawVersion, error) {
	path := "/rest/api/3/project/" + url.PathEscape(projectKey) + "/versions"
	var versions []rawVersion
	if err := a.client.Get(ctx, path, &versions); err != nil {
		return nil, fmt.Errorf("fetching versions for %s: %w", projectKey, err)
	}
	return versions, nil
}

// resolveVersions maps each requested version id or name onto the
// project's versions, preserving request order.
func (a *Adapter) resolveVersions(
	ctx context.Context,
	projectKey string,
	values []string,
) ([]idName, error) {
	versions, err := a.fetchVersions(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	catalog := make([]idName, len(versions))
	for i, v := range versions {
		catalog[i] = idName{ID: v.ID, Name: v.Name}
	}

	resolved := make([]idName, 0, len(values))
	for _, value := range values {
		entry, err := matchIDOrName("version", value, catalog)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *entry)
	}
	return resolved, nil
}

// severityPayload shapes a severity value the way the configured field
// expects it on the wire.
func severityPayload(cfg model.SeverityConfig, value string) (any, error) {
	if !cfg.Configured() {
		return nil, validationf(
			"severity requires a configured severity field",
		)
	}
	switch cfg.ValueType {
	case model.SeverityValueOption:
		return map[string]string{"value": value}, nil
	case model.SeverityValueNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, validationf("severity %q is not a number", value)
		}
		return n, nil
	default:
		return value, nil
	}
}

// fetchTransitions retrieves the transitions currently available on an
// issue.
func (a *Adapter) fetchTransitions(
	ctx context.Context,
	key string,
) ([]rawTransition, error) {
	path := "/rest/api/3/issue/" + url.PathEscape(key) + "/transitions"
	var resp transitionsResponse
	if err := a.client.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching transitions for %s: %w", key, err)
	}
	return resp.Transitions, nil
}

// matchTransition resolves a requested transition against the available
// ones: by transition id, then transition name, then destination status
// name, all case-insensitively. A missing transition is an expected
// business condition and yields nil rather than an error.
func matchTransition(value string, transitions []rawTransition) *rawTransition {
	for i := range transitions {
		if strings.EqualFold(transitions[i].ID, value) {
			return &transitions[i]
		}
	}
	for i := range transitions {
		if strings.EqualFold(transitions[i].Name, value) {
			return &transitions[i]
		}
	}
	for i := range transitions {
		if strings.EqualFold(transitions[i].To.Name, value) {
			return &transitions[i]
		}
	}
	return nil
}
