package launcher

import (
	"context"
	"strings"

	"github.com/lidayx/lumina-sub000/pkg/appindex"
	"github.com/lidayx/lumina-sub000/pkg/bookmark"
)

// AppSearcher is the slice of the application index the orchestrator uses.
type AppSearcher interface {
	SearchAppsScored(query string) []appindex.ScoredApp
}

// BookmarkSearcher is the slice of the bookmark aggregator the orchestrator
// uses.
type BookmarkSearcher interface {
	SearchBookmarks(query string, maxResults int) []bookmark.Bookmark
}

// AliasResolver substitutes configured shorthands before intent detection.
// ok=false means no alias applied and the raw text flows through unchanged.
type AliasResolver interface {
	Resolve(rawQuery string) (resolved string, ok bool)
}

// StaticAliases resolves whole-first-token aliases from a fixed map.
type StaticAliases map[string]string

func (a StaticAliases) Resolve(rawQuery string) (string, bool) {
	trimmed := strings.TrimSpace(rawQuery)
	if trimmed == "" || len(a) == 0 {
		return rawQuery, false
	}
	head, rest := trimmed, ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		head, rest = trimmed[:i], strings.TrimSpace(trimmed[i:])
	}
	target, ok := a[strings.ToLower(head)]
	if !ok {
		return rawQuery, false
	}
	if rest != "" {
		return target + " " + rest, true
	}
	return target, true
}

// FileHit is one file-search match.
type FileHit struct {
	Name string
	Path string
}

// WebHit is one web-search suggestion.
type WebHit struct {
	Title string
	URL   string
}

// ClipEntry is one clipboard-history record.
type ClipEntry struct {
	ID      string
	Preview string
}

// CommandEntry is one discovered or built-in command.
type CommandEntry struct {
	ID          string
	Name        string
	Description string
}

// FileSearcher finds files under the configured roots.
type FileSearcher interface {
	Search(ctx context.Context, term string) []FileHit
}

// WebSearcher produces web-search suggestions for the fallback source.
type WebSearcher interface {
	Search(ctx context.Context, term string) []WebHit
}

// ClipboardService recalls clipboard history, optionally narrowed by a
// sub-query.
type ClipboardService interface {
	Search(ctx context.Context, subQuery string) []ClipEntry
}

// CommandService serves both command-mode (">") completions and the
// discovered-command source of the normal fan-out.
type CommandService interface {
	// Catalog lists the built-in commands matching rest; empty rest lists
	// everything.
	Catalog(rest string) []CommandEntry
	// Search matches executables and built-ins against free text.
	Search(term string) []CommandEntry
}
