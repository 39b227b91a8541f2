// Package pivot composes two bilingual maps, src→pivot and pivot→tgt, into
// a single src→tgt map. The StarDict source uses it for src→English→tgt
// chaining; the Kaikki source's gloss retargeting looks up its translation
// map directly and does not call it.
package pivot

import (
	"sort"
	"strings"
)

// Chain composes srcToPivot and pivotToTgt into a src→tgt map. For each
// source headword, the union of target-language strings reachable through
// any of its pivot-language values is collected, deduplicated, and sorted.
// pivotToTgt is keyed lowercased, so each pivot value is lowercased and
// trimmed before lookup. Source headwords whose union is empty are
// omitted from the result.
func Chain(srcToPivot map[string][]string, pivotToTgt map[string][]string) map[string][]string {
	out := make(map[string][]string, len(srcToPivot))

	for srcWord, pivotWords := range srcToPivot {
		seen := make(map[string]bool)
		var union []string

		for _, pw := range pivotWords {
			pivotKey := strings.ToLower(strings.TrimSpace(pw))
			for _, tgt := range pivotToTgt[pivotKey] {
				if seen[tgt] {
					continue
				}
				seen[tgt] = true
				union = append(union, tgt)
			}
		}

		if len(union) == 0 {
			continue
		}

		sort.Strings(union)
		out[srcWord] = union
	}

	return out
}
