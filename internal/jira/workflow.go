package jira

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/nhle/jira-lens/internal/model"
)

// workflowSamplePageSize bounds the recency query used to find one
// sample issue per status.
const workflowSamplePageSize = 100

// WorkflowFlows infers a compact transition graph per issue type by
// statistical sampling: for each status, the most recently updated
// issue currently in it is asked for its available transitions. The
// result is an approximation; coverage depends on recent issue
// activity and is reported explicitly.
func (a *Adapter) WorkflowFlows(
	ctx context.Context,
	projectKey string,
) ([]model.WorkflowFlow, error) {
	if strings.TrimSpace(projectKey) == "" {
		return nil, validationf("project key is required")
	}

	path := "/rest/api/3/project/" + url.PathEscape(projectKey) + "/statuses"
	var perType []projectStatuses
	if err := a.client.Get(ctx, path, &perType); err != nil {
		return nil, fmt.Errorf(
			"fetching statuses for %s: %w", projectKey, err,
		)
	}

	flows := make([]model.WorkflowFlow, 0, len(perType))
	for _, issueType := range perType {
		flow, err := a.sampleFlow(ctx, projectKey, issueType)
		if err != nil {
			return nil, err
		}
		flows = append(flows, *flow)
	}
	return flows, nil
}

// sampleFlow builds the flow for one issue type.
func (a *Adapter) sampleFlow(
	ctx context.Context,
	projectKey string,
	issueType projectStatuses,
) (*model.WorkflowFlow, error) {
	statuses := make([]string, 0, len(issueType.Statuses))
	for _, status := range issueType.Statuses {
		statuses = append(statuses, status.Name)
	}

	flow := &model.WorkflowFlow{
		IssueType: model.NameRef{ID: issueType.ID, Name: issueType.Name},
		Statuses:  statuses,
		Edges:     []model.TransitionEdge{},
		Coverage: model.FlowCoverage{
			StatusesTotal: len(statuses),
		},
	}
	if len(statuses) == 0 {
		return flow, nil
	}

	samples, err := a.sampleIssuesByStatus(ctx, projectKey, issueType.Name, statuses)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, status := range statuses {
		sampleKey, ok := samples[normalizeStatusName(status)]
		if !ok {
			continue
		}
		flow.Coverage.StatusesWithSample++

		// A failed transitions fetch for one sample is swallowed: that
		// status simply contributes no edges.
		transitions, err := a.fetchTransitions(ctx, sampleKey)
		if err != nil {
			continue
		}

		contributed := false
		for _, t := range transitions {
			edge := model.TransitionEdge{
				From:       status,
				To:         t.To.Name,
				Transition: t.Name,
			}
			dedupKey := edge.From + "|" + edge.To + "|" + edge.Transition
			if seen[dedupKey] {
				continue
			}
			seen[dedupKey] = true
			flow.Edges = append(flow.Edges, edge)
			contributed = true
		}
		if contributed {
			flow.Coverage.StatusesWithTransitions++
		}
	}

	sort.Slice(flow.Edges, func(i, j int) bool {
		a, b := flow.Edges[i], flow.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Transition < b.Transition
	})

	return flow, nil
}

// sampleIssuesByStatus runs one recency-ordered query and picks, per
// status, the first issue currently in it. Keys are normalized status
// names.
func (a *Adapter) sampleIssuesByStatus(
	ctx context.Context,
	projectKey string,
	issueTypeName string,
	statuses []string,
) (map[string]string, error) {
	jql := fmt.Sprintf(
		"project = %s AND issuetype = %s ORDER BY updated DESC",
		quoteJQL(projectKey), quoteJQL(issueTypeName),
	)

	issues, err := a.sampleSearch(
		ctx, jql, workflowSamplePageSize, []string{"status"},
	)
	if err != nil {
		return nil, fmt.Errorf(
			"sampling issues for %s/%s: %w", projectKey, issueTypeName, err,
		)
	}

	wanted := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		wanted[normalizeStatusName(status)] = true
	}

	samples := make(map[string]string, len(statuses))
	for _, issue := range issues {
		statusName := looseScalar(issue.Fields["status"])
		normalized := normalizeStatusName(statusName)
		if !wanted[normalized] {
			continue
		}
		if _, ok := samples[normalized]; ok {
			continue
		}
		samples[normalized] = issue.Key
		if len(samples) == len(statuses) {
			break
		}
	}
	return samples, nil
}

// normalizeStatusName canonicalizes a status name for matching.
func normalizeStatusName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
