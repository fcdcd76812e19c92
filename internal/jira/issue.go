package jira

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nhle/jira-lens/internal/model"
)

// scalarPrecedence is the fixed key order used when extracting a scalar
// from an object-shaped field value.
var scalarPrecedence = []string{
	"name", "value", "label", "displayName", "key", "id",
}

// looseScalar extracts a display scalar from a field value of unknown
// shape. Strings, numbers, and booleans pass through; arrays render as
// a comma-joined extraction of each element; objects pick the first
// present key of the precedence list. Anything else yields "".
func looseScalar(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if s := looseScalar(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, key := range scalarPrecedence {
			if inner, ok := value[key]; ok {
				if s := looseScalar(inner); s != "" {
					return s
				}
			}
		}
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// objField returns fields[name] as an object, or nil.
func objField(fields map[string]any, name string) map[string]any {
	obj, _ := fields[name].(map[string]any)
	return obj
}

// strKey returns obj[key] as a string, tolerating numeric ids.
func strKey(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	switch v := obj[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// statusRef builds a reduced status reference, or nil when neither id
// nor name is present.
func statusRef(obj map[string]any) *model.StatusRef {
	if obj == nil {
		return nil
	}
	ref := model.StatusRef{
		ID:   strKey(obj, "id"),
		Name: strKey(obj, "name"),
	}
	if cat, ok := obj["statusCategory"].(map[string]any); ok {
		ref.Category = strKey(cat, "key")
	}
	if ref.ID == "" && ref.Name == "" {
		return nil
	}
	return &ref
}

// nameRef builds a reduced id/name reference, or nil when neither is
// present.
func nameRef(obj map[string]any) *model.NameRef {
	if obj == nil {
		return nil
	}
	ref := model.NameRef{
		ID:   strKey(obj, "id"),
		Name: strKey(obj, "name"),
	}
	if ref.ID == "" && ref.Name == "" {
		return nil
	}
	return &ref
}

// compactRef builds a best-effort pointer to another issue record.
func compactRef(obj map[string]any) model.CompactIssueRef {
	ref := model.CompactIssueRef{Key: strKey(obj, "key")}
	if fields, ok := obj["fields"].(map[string]any); ok {
		ref.Summary = looseScalar(fields["summary"])
		ref.Status = looseScalar(fields["status"])
		ref.IssueType = looseScalar(fields["issuetype"])
	}
	return ref
}

// versionNames extracts the version names of an array-shaped field.
func versionNames(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if s := looseScalar(item); s != "" {
			names = append(names, s)
		}
	}
	return names
}

// projectIssue converts a raw issue record into the canonical focused
// shape. Comments are loaded separately by the comment loader.
func (a *Adapter) projectIssue(raw rawIssue, rawDocument bool) model.FocusedIssue {
	fields := raw.Fields
	if fields == nil {
		fields = map[string]any{}
	}

	issue := model.FocusedIssue{
		Key:              raw.Key,
		Summary:          looseScalar(fields["summary"]),
		FixVersions:      versionNames(fields["fixVersions"]),
		AffectedVersions: versionNames(fields["versions"]),
		Status:           statusRef(objField(fields, "status")),
		Priority:         nameRef(objField(fields, "priority")),
		IssueType:        nameRef(objField(fields, "issuetype")),
		ProjectKey:       strKey(objField(fields, "project"), "key"),
		Subtasks:         []model.CompactIssueRef{},
		LinkedIssues:     []model.LinkedIssueRef{},
		Comments:         []model.IssueComment{},
		CommentsMeta: model.CommentsMeta{
			Mode: model.CommentModeSkip,
		},
	}

	if rawDocument {
		issue.Document = fields["description"]
	} else if desc, ok := fields["description"].(string); ok {
		// API v2 returns plain strings.
		issue.Description = desc
	} else {
		issue.Description = DocToPlainText(fields["description"])
	}

	issue.Severity = a.severityOf(fields)

	if parent := objField(fields, "parent"); parent != nil {
		ref := compactRef(parent)
		issue.Parent = &ref
	}

	// Subtasks deduplicated by key; first occurrence wins.
	if subtasks, ok := fields["subtasks"].([]any); ok {
		seen := make(map[string]bool, len(subtasks))
		for _, item := range subtasks {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			ref := compactRef(obj)
			if ref.Key == "" || seen[ref.Key] {
				continue
			}
			seen[ref.Key] = true
			issue.Subtasks = append(issue.Subtasks, ref)
		}
	}

	issue.LinkedIssues = projectLinks(fields["issuelinks"])

	return issue
}

// projectLinks flattens raw issue links, deduplicated by
// direction+key+relation.
func projectLinks(v any) []model.LinkedIssueRef {
	links := []model.LinkedIssueRef{}
	items, ok := v.([]any)
	if !ok {
		return links
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typeObj := objField(obj, "type")
		typeName := strKey(typeObj, "name")

		var (
			target    map[string]any
			direction string
			relation  string
		)
		if outward := objField(obj, "outwardIssue"); outward != nil {
			target = outward
			direction = model.LinkDirectionOutward
			relation = strKey(typeObj, "outward")
		} else if inward := objField(obj, "inwardIssue"); inward != nil {
			target = inward
			direction = model.LinkDirectionInward
			relation = strKey(typeObj, "inward")
		} else {
			continue
		}

		ref := model.LinkedIssueRef{
			CompactIssueRef: compactRef(target),
			Relation:        relation,
			Direction:       direction,
			LinkType:        typeName,
		}
		dedupKey := direction + "|" + ref.Key + "|" + relation
		if ref.Key == "" || seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true
		links = append(links, ref)
	}
	return links
}

// severityOf reads the severity scalar from the configured custom field,
// falling back to a conventional "severity" field name.
func (a *Adapter) severityOf(fields map[string]any) *string {
	fieldName := "severity"
	if a.cfg.Severity.Configured() {
		fieldName = a.cfg.Severity.FieldID
	}
	value, ok := fields[fieldName]
	if !ok || value == nil {
		return nil
	}
	s := looseScalar(value)
	if s == "" {
		return nil
	}
	return &s
}
