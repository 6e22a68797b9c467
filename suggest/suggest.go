// Package suggest proposes close matches for misspelled names, used to
// enrich unknown-field errors.
package suggest

import (
	"sort"

	"github.com/agext/levenshtein"
)

// String suggests the candidate that most closely matches want. The
// allowed edit distance scales with the length of the input; short names
// tolerate two edits. Returns an empty string when nothing is close
// enough. Ties resolve alphabetically so results are stable.
func String(want string, candidates []string) string {
	maxDist := len(want) / 3
	if maxDist < 2 {
		maxDist = 2
	}

	type scored struct {
		str  string
		dist int
	}
	var list []scored
	for _, cand := range candidates {
		if cand == want {
			return want
		}
		if d := levenshtein.Distance(want, cand, nil); d <= maxDist {
			list = append(list, scored{str: cand, dist: d})
		}
	}
	if len(list) == 0 {
		return ""
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dist != list[j].dist {
			return list[i].dist < list[j].dist
		}
		return list[i].str < list[j].str
	})
	return list[0].str
}
