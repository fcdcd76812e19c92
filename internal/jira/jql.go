package jira

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nhle/jira-lens/internal/model"
)

// defaultOrderBy is appended to queries that do not already order their
// results.
const defaultOrderBy = "ORDER BY updated DESC"

var (
	orderByPattern     = regexp.MustCompile(`(?i)\border\s+by\b`)
	customFieldPattern = regexp.MustCompile(`^customfield_(\d+)$`)
	bareFieldPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	cfFieldPattern     = regexp.MustCompile(`^cf\[\d+\]$`)
)

// SearchFilters are the structured filters the permissive JQL builder
// compiles. Zero-valued filters contribute no clause. Raw, when set, is
// ANDed with the derived clauses.
type SearchFilters struct {
	Project             string
	Keys                []string
	IssueTypes          []string
	SummaryContains     string
	DescriptionContains string
	FixVersions         []string
	AffectedVersions    []string
	Statuses            []string
	Priorities          []string
	Severities          []string
	Raw                 string
}

// quoteJQL renders a literal JQL string value with backslash and quote
// escaping.
func quoteJQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// listClause renders `field = "v"` for one value and
// `field IN ("v1", "v2")` for several.
func listClause(field string, values []string) string {
	if len(values) == 1 {
		return fmt.Sprintf("%s = %s", field, quoteJQL(values[0]))
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quoteJQL(v)
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(quoted, ", "))
}

// severityJQLField returns the JQL identifier to use for the severity
// field. A customfield_<n> id is rewritten to cf[<n>]; bare identifiers
// and the cf[<n>] form pass through; anything else is quoted as a
// literal.
func severityJQLField(cfg model.SeverityConfig) string {
	field := cfg.JQLField
	if field == "" {
		field = cfg.FieldID
	}
	if m := customFieldPattern.FindStringSubmatch(field); m != nil {
		return "cf[" + m[1] + "]"
	}
	if bareFieldPattern.MatchString(field) || cfFieldPattern.MatchString(field) {
		return field
	}
	return quoteJQL(field)
}

// BuildJQL compiles structured filters (and optional raw query text)
// into one JQL string. At least one filter or a raw query is required.
// An ORDER BY clause is appended unless the raw text already has one.
func BuildJQL(f SearchFilters, severity model.SeverityConfig) (string, error) {
	var clauses []string

	if f.Project != "" {
		clauses = append(clauses, "project = "+quoteJQL(f.Project))
	}
	if len(f.Keys) > 0 {
		clauses = append(clauses, listClause("key", f.Keys))
	}
	if len(f.IssueTypes) > 0 {
		clauses = append(clauses, listClause("issuetype", f.IssueTypes))
	}
	if f.SummaryContains != "" {
		clauses = append(clauses, "summary ~ "+quoteJQL(f.SummaryContains))
	}
	if f.DescriptionContains != "" {
		clauses = append(clauses, "description ~ "+quoteJQL(f.DescriptionContains))
	}
	if len(f.FixVersions) > 0 {
		clauses = append(clauses, listClause("fixVersion", f.FixVersions))
	}
	if len(f.AffectedVersions) > 0 {
		clauses = append(clauses, listClause("affectedVersion", f.AffectedVersions))
	}
	if len(f.Statuses) > 0 {
		clauses = append(clauses, listClause("status", f.Statuses))
	}
	if len(f.Priorities) > 0 {
		clauses = append(clauses, listClause("priority", f.Priorities))
	}
	if len(f.Severities) > 0 {
		if !severity.Configured() {
			return "", validationf(
				"severity filter requires a configured severity field",
			)
		}
		clauses = append(
			clauses, listClause(severityJQLField(severity), f.Severities),
		)
	}

	raw := strings.TrimSpace(f.Raw)
	if raw == "" && len(clauses) == 0 {
		return "", validationf("at least one filter or a raw JQL query is required")
	}

	derived := strings.Join(clauses, " AND ")

	var jql string
	switch {
	case raw != "" && derived != "":
		jql = fmt.Sprintf("(%s) AND (%s)", raw, derived)
	case raw != "":
		jql = raw
	default:
		jql = derived
	}

	if !orderByPattern.MatchString(raw) {
		jql += " " + defaultOrderBy
	}
	return jql, nil
}

// BuildStrictJQL prepares a caller-written query for safe-list mode: no
// structured filters, same ORDER BY auto-append rule. The caller is
// responsible for all query semantics.
func BuildStrictJQL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", validationf("a JQL query is required")
	}
	if !orderByPattern.MatchString(raw) {
		raw += " " + defaultOrderBy
	}
	return raw, nil
}
