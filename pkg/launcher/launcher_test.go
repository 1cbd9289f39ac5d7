package launcher

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidayx/lumina-sub000/pkg/appindex"
	"github.com/lidayx/lumina-sub000/pkg/bookmark"
	"github.com/lidayx/lumina-sub000/pkg/feature"
	"github.com/lidayx/lumina-sub000/pkg/result"
)

type fakeApps struct {
	results []appindex.ScoredApp
	panics  bool
}

func (f *fakeApps) SearchAppsScored(string) []appindex.ScoredApp {
	if f.panics {
		panic("boom")
	}
	return f.results
}

type fakeBookmarks struct{ results []bookmark.Bookmark }

func (f *fakeBookmarks) SearchBookmarks(string, int) []bookmark.Bookmark { return f.results }

type fakeFiles struct{ hits []FileHit }

func (f *fakeFiles) Search(context.Context, string) []FileHit { return f.hits }

type fakeWeb struct{ hits []WebHit }

func (f *fakeWeb) Search(context.Context, string) []WebHit { return f.hits }

type fakeClip struct{ entries []ClipEntry }

func (f *fakeClip) Search(context.Context, string) []ClipEntry { return f.entries }

func newTestOrchestrator(t *testing.T, mutate func(*Deps)) *Orchestrator {
	t.Helper()
	resolvers, calc := feature.DefaultChain(nil, "en")
	deps := Deps{
		Registry: feature.NewRegistry(resolvers, calc),
		Apps:     &fakeApps{},
		Commands: NewPathCommandService(WithPathDirs(func() []string { return nil })),
	}
	if mutate != nil {
		mutate(&deps)
	}
	return NewOrchestrator(deps, zerolog.Nop())
}

func TestCommandModeExclusivity(t *testing.T) {
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Apps = &fakeApps{results: []appindex.ScoredApp{{App: appindex.AppInfo{ID: "x", Name: "x"}, Score: 100}}}
		d.Web = &fakeWeb{hits: []WebHit{{Title: "w", URL: "https://w"}}}
	})
	got := o.Resolve(context.Background(), "> ")
	require.NotEmpty(t, got)
	var execs, helps int
	for _, r := range got {
		require.Truef(t, strings.HasPrefix(r.Action, "command:"), "got action %q", r.Action)
		switch {
		case strings.HasPrefix(r.Action, "command:execute:"):
			execs++
		case strings.HasPrefix(r.Action, "command:help:"):
			helps++
		}
	}
	assert.Equal(t, len(DefaultCatalog()), execs, "empty rest lists the full catalog")
	assert.NotZero(t, helps, "feature help entries ride along in command mode")
}

func TestCommandModeFiltersByRest(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	got := o.Resolve(context.Background(), "> reindex")
	require.NotEmpty(t, got)
	assert.Equal(t, "command:execute:reindex-apps", got[0].Action)
	for _, r := range got {
		assert.True(t, strings.HasPrefix(r.Action, "command:"))
	}
}

func TestEncodeQueryYieldsSingleDigest(t *testing.T) {
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Web = &fakeWeb{hits: []WebHit{{Title: "noise", URL: "https://noise"}}}
	})
	got := o.Resolve(context.Background(), "md5 hello")
	require.Len(t, got, 1)
	assert.Equal(t, "encode:copy", got[0].Action)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", got[0].Title)
	require.NotNil(t, got[0].Payload)
	assert.True(t, got[0].Payload.Success)
}

func TestURLQueryYieldsBrowserChoices(t *testing.T) {
	browsers := []bookmark.BrowserConfig{
		{ID: "firefox", Name: "Firefox"},
		{ID: "chrome", Name: "Chrome", IsDefault: true},
	}
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Browsers = browsers
		d.Web = &fakeWeb{hits: []WebHit{{Title: "noise", URL: "https://noise"}}}
	})

	for _, q := range []string{"https://example.com", "example.com"} {
		got := o.Resolve(context.Background(), q)
		require.NotEmpty(t, got, q)
		for _, r := range got {
			assert.Truef(t, strings.HasPrefix(r.Action, "browser:"), "%s: got %q", q, r.Action)
		}
		assert.Equal(t, "browser:chrome:https://example.com", got[0].Action, "default browser first")
		assert.Greater(t, got[0].PriorityScore, got[1].PriorityScore)
	}
}

func TestURLWithoutConfiguredBrowsers(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	got := o.Resolve(context.Background(), "example.com")
	require.Len(t, got, 1)
	assert.Equal(t, "browser:system:https://example.com", got[0].Action)
}

func TestPlainMathGoesToCalculator(t *testing.T) {
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Web = &fakeWeb{hits: []WebHit{{Title: "noise", URL: "https://noise"}}}
	})
	got := o.Resolve(context.Background(), "1+1")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].Title)
	assert.Equal(t, "calc:copy", got[0].Action)
	assert.Equal(t, result.DefaultBands().Calculator, got[0].PriorityScore)
}

func TestFileSearchVetoesCalculator(t *testing.T) {
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Files = &fakeFiles{hits: []FileHit{{Name: "1+2.txt", Path: "/tmp/1+2.txt"}}}
	})
	got := o.Resolve(context.Background(), "file 1+2")
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.NotEqual(t, result.KindCalc, r.Kind)
	}
	assert.Equal(t, "file:/tmp/1+2.txt", got[0].Action)
}

func TestResolverErrorDoesNotFallThrough(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	got := o.Resolve(context.Background(), "md5")
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Payload)
	assert.False(t, got[0].Payload.Success)
	assert.Equal(t, result.DefaultBands().FeatureError, got[0].PriorityScore)
}

func TestFeatureHintsShownWhileTyping(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	// "upp" is a string-tool keyword prefix no resolver claims yet
	got := o.Resolve(context.Background(), "upp")
	var hints int
	for _, r := range got {
		if strings.HasPrefix(r.Action, "feature:hint:") {
			hints++
			assert.Equal(t, result.DefaultBands().FeatureHelp, r.PriorityScore)
		}
	}
	assert.NotZero(t, hints)
}

func TestFeatureHintOrderIsStable(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	// "tr" hints both the string tools and translate; the chain order
	// decides which renders first, every time
	hintIDs := func() []string {
		var ids []string
		for _, r := range o.Resolve(context.Background(), "tr") {
			if strings.HasPrefix(r.Action, "feature:hint:") {
				ids = append(ids, r.ID)
			}
		}
		return ids
	}
	first := hintIDs()
	require.Greater(t, len(first), 1)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, hintIDs())
	}
}

func TestWebFallbackOnlyWhenPrimarySourcesEmpty(t *testing.T) {
	web := &fakeWeb{hits: []WebHit{{Title: "rain tomorrow", URL: "https://search/rain"}}}

	t.Run("shown when apps and files are empty", func(t *testing.T) {
		o := newTestOrchestrator(t, func(d *Deps) { d.Web = web })
		got := o.Resolve(context.Background(), "rainfall")
		require.NotEmpty(t, got)
		var seen bool
		for _, r := range got {
			if r.Kind == result.KindWeb {
				seen = true
			}
		}
		assert.True(t, seen)
	})

	t.Run("suppressed when an app matched", func(t *testing.T) {
		o := newTestOrchestrator(t, func(d *Deps) {
			d.Web = web
			d.Apps = &fakeApps{results: []appindex.ScoredApp{{App: appindex.AppInfo{ID: "rain", Name: "Rainmeter"}, Score: 80}}}
		})
		got := o.Resolve(context.Background(), "rainfall")
		for _, r := range got {
			assert.NotEqual(t, result.KindWeb, r.Kind)
		}
	})
}

func TestClipboardIntentQueriesHistory(t *testing.T) {
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Clipboard = &fakeClip{entries: []ClipEntry{{ID: "7", Preview: "pasted text"}}}
	})
	got := o.Resolve(context.Background(), "clip pasted")
	require.NotEmpty(t, got)
	assert.Equal(t, "clipboard:copy:7", got[0].Action)
	assert.Equal(t, result.DefaultBands().Clipboard, got[0].PriorityScore)
}

func TestSettingsKeyword(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	got := o.Resolve(context.Background(), "settings")
	require.NotEmpty(t, got)
	assert.Equal(t, "settings:open", got[0].Action)
}

func TestSourcePanicIsIsolated(t *testing.T) {
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Apps = &fakeApps{panics: true}
		d.Bookmarks = &fakeBookmarks{results: []bookmark.Bookmark{{ID: "b1", Name: "docs", URL: "https://docs.example"}}}
	})
	got := o.Resolve(context.Background(), "docs")
	require.NotEmpty(t, got, "one broken source must not void the merged list")
	assert.Equal(t, "bookmark:https://docs.example", got[0].Action)
}

func TestBookmarkResultsCarryBookmarkBand(t *testing.T) {
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Apps = &fakeApps{results: []appindex.ScoredApp{{App: appindex.AppInfo{ID: "d", Name: "Docs Reader"}, Score: 80}}}
		d.Bookmarks = &fakeBookmarks{results: []bookmark.Bookmark{{ID: "b1", Name: "docs", URL: "https://docs.example", Score: 100}}}
	})
	got := o.Resolve(context.Background(), "docs")
	require.Len(t, got, 2)
	assert.Equal(t, result.KindApp, got[0].Kind, "apps outrank bookmarks")
	assert.Equal(t, result.KindBookmark, got[1].Kind)
}

func TestAliasResolution(t *testing.T) {
	o := newTestOrchestrator(t, func(d *Deps) {
		d.Alias = StaticAliases{"gh": "github.com"}
	})
	got := o.Resolve(context.Background(), "gh")
	require.NotEmpty(t, got)
	assert.Equal(t, "browser:system:https://github.com", got[0].Action)
}

func TestStaticAliases(t *testing.T) {
	a := StaticAliases{"gh": "github.com", "tr": "translate"}

	resolved, ok := a.Resolve("gh")
	assert.True(t, ok)
	assert.Equal(t, "github.com", resolved)

	resolved, ok = a.Resolve("tr hello world")
	assert.True(t, ok)
	assert.Equal(t, "translate hello world", resolved)

	_, ok = a.Resolve("ghx")
	assert.False(t, ok)
	_, ok = a.Resolve("")
	assert.False(t, ok)
}

func TestEmptyQueryResolvesToNothing(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	assert.Nil(t, o.Resolve(context.Background(), "   "))
}

func TestPathCommandServiceCatalog(t *testing.T) {
	s := NewPathCommandService(WithPathDirs(func() []string { return nil }))
	assert.Len(t, s.Catalog(""), len(DefaultCatalog()))

	got := s.Catalog("bookmark")
	require.Len(t, got, 1)
	assert.Equal(t, "reload-bookmarks", got[0].ID)

	assert.Empty(t, s.Catalog("no-such-command"))
	assert.Nil(t, s.Search("a"), "single letters match too much")
	assert.Nil(t, s.Search("two words"))
}
