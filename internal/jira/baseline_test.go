package jira

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createMetaJSON = `{
	"projects": [{
		"key": "CORE",
		"issuetypes": [{
			"id": "10001", "name": "Bug",
			"fields": {
				"summary": {"required": true, "name": "Summary"},
				"description": {"required": false, "name": "Description"},
				"priority": {"required": false, "name": "Priority",
					"allowedValues": [{"name": "High"}, {"name": "Medium"}]},
				"fixVersions": {"required": false, "name": "Fix versions"},
				"customfield_10042": {"required": false, "name": "Severity",
					"allowedValues": [{"value": "Critical"}, {"value": "Major"}, {"value": "Minor"}]}
			}
		}, {
			"id": "10002", "name": "Task",
			"fields": {
				"summary": {"required": true, "name": "Summary"},
				"customfield_10042": {"required": false, "name": "Severity",
					"allowedValues": [{"value": "Major"}, {"value": "Trivial"}]}
			}
		}]
	}]
}`

// baselineServer fakes every endpoint the baseline touches. The version
// lookup is deliberately broken to exercise degradation into notes.
func baselineServer(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/project/CORE", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, coreProjectJSON)
	})
	mux.HandleFunc("/rest/api/3/priority", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"id": "2", "name": "High"}, {"id": "3", "name": "Medium"}]`)
	})
	mux.HandleFunc("/rest/api/3/project/CORE/versions", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	mux.HandleFunc("/rest/api/3/user/assignable/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"accountId": "acc-1", "displayName": "Dana Dev", "active": true},
			{"accountId": "acc-2", "displayName": "Alex Ops", "active": true},
			{"accountId": "acc-3", "displayName": "Gone Ghost", "active": false}
		]`)
	})
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{
			"startAt": 0, "maxResults": 50, "total": 3,
			"issues": [
				{"key": "CORE-1", "fields": {"assignee": {"accountId": "acc-2"}}},
				{"key": "CORE-2", "fields": {"assignee": {"accountId": "acc-2"}}},
				{"key": "CORE-3", "fields": {"assignee": null}}
			]
		}`)
	})
	mux.HandleFunc("/rest/agile/1.0/board", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"isLast": true, "values": [{"id": 5, "name": "CORE board", "type": "scrum"}]}`)
	})
	mux.HandleFunc("/rest/agile/1.0/board/5/sprint", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"isLast": true, "values": [{
			"id": 42, "name": "Sprint 9", "state": "active", "originBoardId": 5,
			"startDate": "2026-08-24T08:00:00.000Z", "endDate": "2026-09-07T08:00:00.000Z"
		}]}`)
	})
	mux.HandleFunc("/rest/api/3/issue/createmeta", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, createMetaJSON)
	})
	mux.HandleFunc("/rest/api/3/project/CORE/statuses", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[]`)
	})
	return mux
}

func TestProjectBaseline(t *testing.T) {
	adapter := newTestAdapter(t, baselineServer(t))

	baseline, err := adapter.ProjectBaseline(context.Background(), "CORE")
	require.NoError(t, err)

	assert.NotEmpty(t, baseline.SnapshotID)
	assert.Equal(t, "CORE", baseline.ProjectKey)
	assert.Equal(t, "Core", baseline.ProjectName)

	require.Len(t, baseline.IssueTypes, 2)
	assert.Equal(t, "Bug", baseline.IssueTypes[0].Name)

	require.Len(t, baseline.Priorities, 2)
	assert.Equal(t, "High", baseline.Priorities[0].Name)

	// The broken version endpoint degrades to a note, not a failure.
	assert.Empty(t, baseline.Versions)
	require.Len(t, baseline.Notes, 1)
	assert.Contains(t, baseline.Notes[0], "versions:")

	// Active users ranked by recent assignments, ties by display name;
	// inactive users never appear.
	require.Len(t, baseline.AssignableUsers, 2)
	assert.Equal(t, "acc-2", baseline.AssignableUsers[0].AccountID)
	assert.Equal(t, 2, baseline.AssignableUsers[0].RecentAssignments)
	assert.Equal(t, "Dana Dev", baseline.AssignableUsers[1].DisplayName)
	assert.Equal(t, 0, baseline.AssignableUsers[1].RecentAssignments)

	require.Len(t, baseline.ActiveSprints, 1)
	sprint := baseline.ActiveSprints[0]
	assert.Equal(t, 42, sprint.ID)
	assert.Equal(t, 5, sprint.BoardID)
	assert.Contains(t, sprint.Description, "2026-08-24 to 2026-09-07")

	// Field profiles cover every business field per issue type, marking
	// the unsupported ones.
	require.Len(t, baseline.Fields, 2)
	bug := baseline.Fields[0]
	assert.Equal(t, "Bug", bug.IssueType.Name)
	byName := map[string]bool{}
	for _, f := range bug.Fields {
		byName[f.Field] = f.Supported
	}
	assert.True(t, byName["summary"])
	assert.True(t, byName["severity"])
	assert.False(t, byName["affectedVersions"])

	task := baseline.Fields[1]
	taskByName := map[string]bool{}
	for _, f := range task.Fields {
		taskByName[f.Field] = f.Supported
	}
	assert.False(t, taskByName["priority"])

	// Severity context merges option catalogs across issue types without
	// duplicates.
	assert.True(t, baseline.Severity.Configured)
	assert.Equal(t, "customfield_10042", baseline.Severity.FieldID)
	assert.Equal(t, "cf[10042]", baseline.Severity.JQLField)
	assert.Equal(t,
		[]string{"Critical", "Major", "Minor", "Trivial"},
		baseline.Severity.AllowedValues,
	)

	assert.Empty(t, baseline.Flows)
}

func TestProjectBaselineUnconfiguredSeverity(t *testing.T) {
	adapter := newPlainAdapter(t, baselineServer(t))

	baseline, err := adapter.ProjectBaseline(context.Background(), "CORE")
	require.NoError(t, err)

	assert.False(t, baseline.Severity.Configured)
	assert.Empty(t, baseline.Severity.FieldID)
	assert.Empty(t, baseline.Severity.AllowedValues)

	// Without a configured field there is no severity profile entry.
	for _, profile := range baseline.Fields {
		for _, field := range profile.Fields {
			assert.NotEqual(t, "severity", field.Field)
		}
	}
}

func TestRankedAssignableUsersViaEnhancedSearch(t *testing.T) {
	// The legacy search endpoint is absent; the assignee tally samples
	// through the cursor-paginated endpoint instead.
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/user/assignable/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"accountId": "acc-1", "displayName": "Dana Dev", "active": true},
			{"accountId": "acc-2", "displayName": "Alex Ops", "active": true}
		]`)
	})
	mux.HandleFunc("/rest/api/3/search/jql", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"isLast": true, "issues": [
			{"key": "CORE-1", "fields": {"assignee": {"accountId": "acc-1"}}}
		]}`)
	})

	adapter := newTestAdapter(t, mux)
	users, err := adapter.rankedAssignableUsers(context.Background(), "CORE")
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, "acc-1", users[0].AccountID)
	assert.Equal(t, 1, users[0].RecentAssignments)
	assert.Equal(t, 0, users[1].RecentAssignments)
}

func TestProjectBaselineFatalProjectLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/project/CORE", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["no project"]}`, http.StatusNotFound)
	})

	adapter := newTestAdapter(t, mux)
	_, err := adapter.ProjectBaseline(context.Background(), "CORE")
	require.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestProjectBaselineValidation(t *testing.T) {
	adapter := newTestAdapter(t, http.NewServeMux())
	_, err := adapter.ProjectBaseline(context.Background(), "")
	assert.True(t, IsValidation(err))
}

func TestDescribeSprint(t *testing.T) {
	desc := describeSprint(rawSprint{
		ID: 42, Name: "Sprint 9", State: "active", OriginBoardID: 5,
	})
	assert.Equal(t, `Sprint "Sprint 9" (active) on board 5`, desc)
}
