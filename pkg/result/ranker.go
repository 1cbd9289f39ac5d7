package result

import (
	"sort"
	"strings"
)

// Sort orders results by the comparator chain: priority band descending,
// exact title match, title prefix match, then raw score descending. The sort
// is stable so identical inputs always yield identical output order.
func Sort(results []SearchResult, query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if q != "" {
			ae := strings.EqualFold(a.Title, q)
			be := strings.EqualFold(b.Title, q)
			if ae != be {
				return ae
			}
			ap := strings.HasPrefix(strings.ToLower(a.Title), q)
			bp := strings.HasPrefix(strings.ToLower(b.Title), q)
			if ap != bp {
				return ap
			}
		}
		return a.Score > b.Score
	})
	return results
}
