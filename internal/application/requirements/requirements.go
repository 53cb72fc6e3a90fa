// Package requirements computes document completeness for submission.
package requirements

import (
	pstrings "intake/pkg/platform/strings"
)

// Missing returns the required document types with no uploaded document of
// that type, preserving the required list's declaration order. Repeats in the
// required list are redundant, not erroneous: the first occurrence wins.
// Upload counts are irrelevant; one document of a type satisfies it.
//
// An empty required list is trivially satisfiable and always yields an empty
// result, regardless of what was uploaded. The result is never nil.
func Missing(required []string, uploaded []string) []string {
	have := make(map[string]struct{}, len(uploaded))
	for _, t := range uploaded {
		have[t] = struct{}{}
	}

	missing := make([]string, 0)
	for _, t := range pstrings.DedupeAndTrim(required) {
		if _, ok := have[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}
