package jira

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-lens/internal/model"
)

var testSeverity = model.SeverityConfig{
	FieldID:   "customfield_10042",
	ValueType: model.SeverityValueOption,
}

func TestBuildJQL(t *testing.T) {
	tests := []struct {
		name    string
		filters SearchFilters
		want    string
	}{
		{
			name:    "project only",
			filters: SearchFilters{Project: "CORE"},
			want:    `project = "CORE" ORDER BY updated DESC`,
		},
		{
			name:    "single status uses equality",
			filters: SearchFilters{Statuses: []string{"Open"}},
			want:    `status = "Open" ORDER BY updated DESC`,
		},
		{
			name:    "status list uses IN",
			filters: SearchFilters{Statuses: []string{"Open", "In Progress"}},
			want:    `status IN ("Open", "In Progress") ORDER BY updated DESC`,
		},
		{
			name:    "summary contains",
			filters: SearchFilters{SummaryContains: "checkout"},
			want:    `summary ~ "checkout" ORDER BY updated DESC`,
		},
		{
			name:    "quote is escaped",
			filters: SearchFilters{Statuses: []string{`Says "Done"`}},
			want:    `status = "Says \"Done\"" ORDER BY updated DESC`,
		},
		{
			name: "clauses join with AND",
			filters: SearchFilters{
				Project:    "CORE",
				IssueTypes: []string{"Bug"},
			},
			want: `project = "CORE" AND issuetype = "Bug" ORDER BY updated DESC`,
		},
		{
			name: "raw combines with derived",
			filters: SearchFilters{
				Project: "CORE",
				Raw:     "labels = urgent",
			},
			want: `(labels = urgent) AND (project = "CORE") ORDER BY updated DESC`,
		},
		{
			name:    "raw with its own order by is untouched",
			filters: SearchFilters{Raw: "project = CORE order by created ASC"},
			want:    "project = CORE order by created ASC",
		},
		{
			name:    "severity uses the cf form",
			filters: SearchFilters{Severities: []string{"Critical", "Major"}},
			want:    `cf[10042] IN ("Critical", "Major") ORDER BY updated DESC`,
		},
		{
			name: "version filters",
			filters: SearchFilters{
				FixVersions:      []string{"1.2.0"},
				AffectedVersions: []string{"1.1.0", "1.0.0"},
			},
			want: `fixVersion = "1.2.0" AND affectedVersion IN ("1.1.0", "1.0.0") ORDER BY updated DESC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildJQL(tt.filters, testSeverity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildJQLRejectsEmptyInput(t *testing.T) {
	_, err := BuildJQL(SearchFilters{}, testSeverity)
	assert.True(t, IsValidation(err))
}

func TestBuildJQLRejectsSeverityWithoutField(t *testing.T) {
	_, err := BuildJQL(
		SearchFilters{Severities: []string{"Critical"}},
		model.SeverityConfig{},
	)
	assert.True(t, IsValidation(err))
}

func TestBuildStrictJQL(t *testing.T) {
	got, err := BuildStrictJQL("project = CORE")
	require.NoError(t, err)
	assert.Equal(t, "project = CORE ORDER BY updated DESC", got)

	got, err = BuildStrictJQL("project = CORE ORDER BY key")
	require.NoError(t, err)
	assert.Equal(t, "project = CORE ORDER BY key", got)

	_, err = BuildStrictJQL("   ")
	assert.True(t, IsValidation(err))
}

func TestSeverityJQLField(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.SeverityConfig
		want string
	}{
		{
			name: "customfield id is rewritten",
			cfg:  model.SeverityConfig{FieldID: "customfield_10042"},
			want: "cf[10042]",
		},
		{
			name: "explicit jql field wins",
			cfg: model.SeverityConfig{
				FieldID:  "customfield_10042",
				JQLField: "severity",
			},
			want: "severity",
		},
		{
			name: "cf form passes through",
			cfg:  model.SeverityConfig{JQLField: "cf[777]"},
			want: "cf[777]",
		},
		{
			name: "anything else is quoted",
			cfg:  model.SeverityConfig{JQLField: "Severity Level"},
			want: `"Severity Level"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, severityJQLField(tt.cfg))
		})
	}
}
