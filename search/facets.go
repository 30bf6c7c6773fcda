package search

import (
	"slices"

	"github.com/mmakkena/medcodeapi/core"
)

// matchesFacets reports whether a record passes every facet predicate.
// An empty facet map is the identity filter: every record passes. A record
// passes one predicate when its facet value for that key is present and is a
// member of the requested value set. Unknown facet keys simply never match.
func matchesFacets(record *core.CodeRecord, facets map[string][]string) bool {
	for key, allowed := range facets {
		value, ok := record.Facets[key]
		if !ok {
			return false
		}
		if !slices.Contains(allowed, value) {
			return false
		}
	}
	return true
}

// filterByFacets narrows a candidate set by facet predicates.
func filterByFacets(candidates []scoredRecord, facets map[string][]string) []scoredRecord {
	if len(facets) == 0 {
		return candidates
	}
	filtered := make([]scoredRecord, 0, len(candidates))
	for _, candidate := range candidates {
		if matchesFacets(candidate.record, facets) {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}
