package appindex

import (
	"sort"
	"strings"
)

// Match tiers. Exact name beats prefix beats substring beats a keyword-cache
// hit (alnum/acronym/pinyin forms).
const (
	scoreExact     = 100
	scorePrefix    = 80
	scoreSubstring = 60
	scoreKeyword   = 40
)

// ScoredApp pairs an app with its match score for the merge layer.
type ScoredApp struct {
	App   AppInfo
	Score int
}

type scoredEntry struct {
	app   AppInfo
	score int
}

// calculateAppScore returns the match tier of an app for a query, 0 when it
// doesn't qualify.
func calculateAppScore(app AppInfo, keywords []string, query string) int {
	name := strings.ToLower(app.Name)
	switch {
	case name == query:
		return scoreExact
	case strings.HasPrefix(name, query):
		return scorePrefix
	case strings.Contains(name, query):
		return scoreSubstring
	}
	for _, k := range keywords {
		if strings.Contains(k, query) {
			return scoreKeyword
		}
	}
	return 0
}

// scoreApps scores every app and orders the result by the fixed tie-break
// chain: score desc, prefix match first, earlier match position, shorter
// name, higher launch count.
func scoreApps(apps map[string]AppInfo, keywords map[string][]string, query string) []ScoredApp {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	scored := make([]scoredEntry, 0, 16)
	for id, app := range apps {
		if sc := calculateAppScore(app, keywords[id], q); sc > 0 {
			scored = append(scored, scoredEntry{app: app, score: sc})
		}
	}
	sortAppResults(scored, q)
	out := make([]ScoredApp, len(scored))
	for i, e := range scored {
		out[i] = ScoredApp{App: e.app, Score: e.score}
	}
	return out
}

func sortAppResults(scored []scoredEntry, q string) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.score != b.score {
			return a.score > b.score
		}
		an := strings.ToLower(a.app.Name)
		bn := strings.ToLower(b.app.Name)
		ap := strings.HasPrefix(an, q)
		bp := strings.HasPrefix(bn, q)
		if ap != bp {
			return ap
		}
		ai := matchIndex(an, q)
		bi := matchIndex(bn, q)
		if ai != bi {
			return ai < bi
		}
		if len(an) != len(bn) {
			return len(an) < len(bn)
		}
		if a.app.LaunchCount != b.app.LaunchCount {
			return a.app.LaunchCount > b.app.LaunchCount
		}
		// name as the final key so equal entries still order deterministically
		return an < bn
	})
}

func matchIndex(name, q string) int {
	if i := strings.Index(name, q); i >= 0 {
		return i
	}
	return 1 << 20
}
