package jira

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/jira-lens/internal/model"
)

// maxEnumeratedLabels caps how many known relation labels a resolution
// failure enumerates, to bound the message size.
const maxEnumeratedLabels = 30

// resolvedRelation is the outcome of mapping a free-text relation label
// onto the instance's link-type taxonomy.
type resolvedRelation struct {
	// TypeName is the link type name to send upstream.
	TypeName string

	// Direction is outward when the described issue plays the outward
	// role of the link, inward when the roles are reversed.
	Direction string
}

// normalizeRelation reduces a relation label to a matching key:
// lowercase with all non-alphanumeric characters removed.
func normalizeRelation(label string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// relationAliases expands a label into its alias set. Labels of the
// form "is <x> by" commonly appear with and without the "is" prefix, so
// keys starting with "is" also register the stripped suffix.
func relationAliases(label string) map[string]bool {
	aliases := make(map[string]bool, 2)
	key := normalizeRelation(label)
	if key == "" {
		return aliases
	}
	aliases[key] = true
	if strings.HasPrefix(key, "is") && len(key) > 2 {
		aliases[key[2:]] = true
	}
	return aliases
}

// aliasesIntersect reports whether two alias sets share a key.
func aliasesIntersect(a, b map[string]bool) bool {
	for key := range a {
		if b[key] {
			return true
		}
	}
	return false
}

// resolveRelation matches the requested label against the candidate
// link types, in upstream order. For each candidate the outward label
// is tested first, then the inward label, then the type name (treated
// as outward). First match wins.
func resolveRelation(label string, candidates []linkType) (*resolvedRelation, error) {
	requested := relationAliases(label)
	if len(requested) == 0 {
		return nil, validationf("relation label is required")
	}

	for _, candidate := range candidates {
		if aliasesIntersect(requested, relationAliases(candidate.Outward)) {
			return &resolvedRelation{
				TypeName:  candidate.Name,
				Direction: model.LinkDirectionOutward,
			}, nil
		}
		if aliasesIntersect(requested, relationAliases(candidate.Inward)) {
			return &resolvedRelation{
				TypeName:  candidate.Name,
				Direction: model.LinkDirectionInward,
			}, nil
		}
		if aliasesIntersect(requested, relationAliases(candidate.Name)) {
			return &resolvedRelation{
				TypeName:  candidate.Name,
				Direction: model.LinkDirectionOutward,
			}, nil
		}
	}

	return nil, &ResolutionError{
		Kind:  "link relation",
		Value: label,
		Valid: knownRelationLabels(candidates),
	}
}

// knownRelationLabels enumerates the distinct outward/inward/name
// labels of the candidates, capped at maxEnumeratedLabels.
func knownRelationLabels(candidates []linkType) []string {
	seen := make(map[string]bool)
	labels := make([]string, 0, len(candidates)*3)
	for _, candidate := range candidates {
		for _, label := range []string{
			candidate.Outward, candidate.Inward, candidate.Name,
		} {
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			labels = append(labels, label)
			if len(labels) >= maxEnumeratedLabels {
				return labels
			}
		}
	}
	return labels
}

// fetchLinkTypes retrieves the instance's link-type taxonomy.
func (a *Adapter) fetchLinkTypes(ctx context.Context) ([]linkType, error) {
	var resp linkTypesResponse
	if err := a.client.Get(ctx, "/rest/api/3/issueLinkType", &resp); err != nil {
		return nil, fmt.Errorf("fetching link types: %w", err)
	}
	return resp.IssueLinkTypes, nil
}
