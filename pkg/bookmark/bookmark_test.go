package bookmark

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidayx/lumina-sub000/internal/store"
)

func TestMergeNewestWins(t *testing.T) {
	chrome := []Bookmark{
		{Name: "A-old", URL: "https://a.example", DateLastUsed: 100},
		{Name: "B", URL: "https://b.example", DateAdded: 50},
	}
	firefox := []Bookmark{
		{Name: "A-new", URL: "https://a.example", DateLastUsed: 200},
	}

	merged := Merge(chrome, firefox)
	require.Len(t, merged, 2)
	assert.Equal(t, "A-new", merged["https://a.example"].Name)
	assert.Equal(t, int64(200), merged["https://a.example"].DateLastUsed)
	assert.Equal(t, "B", merged["https://b.example"].Name)

	again := Merge(chrome, firefox)
	assert.Equal(t, merged, again, "merge should be deterministic")
}

func TestMergeRecencyFallsBackToDateAdded(t *testing.T) {
	merged := Merge(
		[]Bookmark{{Name: "added-late", URL: "https://x.example", DateAdded: 300}},
		[]Bookmark{{Name: "used-early", URL: "https://x.example", DateLastUsed: 200}},
	)
	assert.Equal(t, "added-late", merged["https://x.example"].Name)
}

func TestMergeSkipsEmptyURLAndAssignsStableIDs(t *testing.T) {
	merged := Merge([]Bookmark{
		{Name: "no url"},
		{Name: "ok", URL: "https://ok.example"},
	})
	require.Len(t, merged, 1)
	b := merged["https://ok.example"]
	assert.Equal(t, urlID("https://ok.example"), b.ID)
	assert.Equal(t, urlID("https://ok.example"), urlID("https://ok.example"))
}

func TestNormalizeBrowsers(t *testing.T) {
	t.Run("first default wins", func(t *testing.T) {
		out := NormalizeBrowsers([]BrowserConfig{
			{ID: "a"}, {ID: "b", IsDefault: true}, {ID: "c", IsDefault: true},
		})
		assert.False(t, out[0].IsDefault)
		assert.True(t, out[1].IsDefault)
		assert.False(t, out[2].IsDefault)
	})
	t.Run("none marked promotes first", func(t *testing.T) {
		out := NormalizeBrowsers([]BrowserConfig{{ID: "a"}, {ID: "b"}})
		assert.True(t, out[0].IsDefault)
		assert.False(t, out[1].IsDefault)
	})
	t.Run("empty stays empty", func(t *testing.T) {
		assert.Empty(t, NormalizeBrowsers(nil))
	})
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]SourceFormat{
		"/home/u/.config/google-chrome/Default/Bookmarks": FormatChromium,
		"/Users/u/Library/Safari/Bookmarks.plist":         FormatSafari,
		"/home/u/.mozilla/firefox/x/places.sqlite":        FormatFirefox,
		"/tmp/export.html":                                FormatHTML,
	}
	for path, want := range cases {
		got, err := FormatForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatForPath("/tmp/notes.txt")
	assert.Error(t, err)
}

const chromiumFixture = `{
  "roots": {
    "bookmark_bar": {
      "type": "folder",
      "children": [
        {"type": "url", "name": "Go", "url": "https://go.dev",
         "date_added": "13300000000000000", "date_last_used": "13310000000000000"},
        {"type": "folder", "name": "dev", "children": [
          {"type": "url", "name": "GitHub", "url": "https://github.com",
           "date_added": "13280000000000000"}
        ]}
      ]
    },
    "other": {"type": "folder", "children": []}
  }
}`

func writeChromiumFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Bookmarks")
	require.NoError(t, os.WriteFile(path, []byte(chromiumFixture), 0o644))
	return path
}

func TestParseChromium(t *testing.T) {
	bms, err := parseChromium(writeChromiumFixture(t))
	require.NoError(t, err)
	require.Len(t, bms, 2)

	byURL := map[string]Bookmark{}
	for _, b := range bms {
		byURL[b.URL] = b
	}
	goDev := byURL["https://go.dev"]
	assert.Equal(t, "Go", goDev.Name)
	assert.Equal(t, (int64(13300000000000000)-chromeEpochOffsetMicros)/1000, goDev.DateAdded)
	assert.Equal(t, (int64(13310000000000000)-chromeEpochOffsetMicros)/1000, goDev.DateLastUsed)
	assert.Equal(t, "GitHub", byURL["https://github.com"].Name, "nested folders are flattened")
}

func TestChromeTimeToMillis(t *testing.T) {
	assert.Zero(t, chromeTimeToMillis(""))
	assert.Zero(t, chromeTimeToMillis("0"))
	assert.Zero(t, chromeTimeToMillis("garbage"))
	assert.Zero(t, chromeTimeToMillis("5"), "pre-epoch values clamp to zero")
	assert.Equal(t, int64(1000), chromeTimeToMillis("11644473601000000"))
}

func TestParseHTMLExport(t *testing.T) {
	content := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
<DT><A HREF="https://news.ycombinator.com" ADD_DATE="1700000000" ICON="data:image/png;base64,x">Hacker &amp; News</A>
<DT><A HREF="https://example.org" LAST_MODIFIED="1710000000"><b>Example</b></A>
<DT><A HREF="ftp://ignored.example">ftp link</A>
</DL>`
	path := filepath.Join(t.TempDir(), "export.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	bms, err := parseHTMLExport(path)
	require.NoError(t, err)
	require.Len(t, bms, 2)
	assert.Equal(t, "Hacker & News", bms[0].Name)
	assert.Equal(t, int64(1700000000000), bms[0].DateAdded)
	assert.Equal(t, "data:image/png;base64,x", bms[0].Icon)
	assert.Equal(t, "Example", bms[1].Name, "markup inside the label is stripped")
	assert.Equal(t, int64(1710000000000), bms[1].DateLastUsed)
}

// fakeCache is an in-memory CacheStore.
type fakeCache struct {
	items map[string]store.IndexedItem
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]store.IndexedItem{}}
}

func (f *fakeCache) GetAllItems(t store.ItemType) ([]store.IndexedItem, error) {
	var out []store.IndexedItem
	for _, it := range f.items {
		if it.Type == t {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCache) BatchUpsertItems(items []store.IndexedItem) error {
	for _, it := range items {
		f.items[it.ID] = it
	}
	return nil
}

func (f *fakeCache) ClearOldItems(t store.ItemType, currentIDs []string) error {
	keep := map[string]bool{}
	for _, id := range currentIDs {
		keep[id] = true
	}
	for id, it := range f.items {
		if it.Type == t && !keep[id] {
			delete(f.items, id)
		}
	}
	return nil
}

func newTestService(t *testing.T, cache *fakeCache, paths ...string) *Service {
	t.Helper()
	return NewService(cache, zerolog.Nop(), WithSources(func() []Source {
		var out []Source
		for _, p := range paths {
			out = append(out, Source{Path: p, Browser: "chrome", Format: FormatChromium})
		}
		return out
	}))
}

func TestServiceLoadFromSources(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(t, cache, writeChromiumFixture(t))

	require.NoError(t, svc.LoadBookmarks(context.Background(), true))
	all := svc.GetAllBookmarks()
	require.Len(t, all, 2)
	assert.Len(t, cache.items, 2, "load persists to the cache store")
}

func TestServiceLoadFromCache(t *testing.T) {
	cache := newFakeCache()
	cache.items["bm-x"] = store.IndexedItem{
		ID: "bm-x", Type: store.TypeBookmark, Name: "Cached", Path: "https://cached.example",
	}
	// no source files at all; the cached copy must be enough
	svc := newTestService(t, cache)

	require.NoError(t, svc.LoadBookmarks(context.Background(), false))
	all := svc.GetAllBookmarks()
	require.Len(t, all, 1)
	assert.Equal(t, "Cached", all[0].Name)
}

func TestServiceDegradesOnUnreadableSource(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(t, cache, writeChromiumFixture(t), "/nonexistent/Bookmarks")

	require.NoError(t, svc.LoadBookmarks(context.Background(), true))
	assert.Len(t, svc.GetAllBookmarks(), 2, "one broken source must not abort the load")
}

func TestServiceUsagePreservedAcrossReload(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(t, cache, writeChromiumFixture(t))
	require.NoError(t, svc.LoadBookmarks(context.Background(), true))

	svc.RecordUsage("https://go.dev")
	svc.RecordUsage("https://go.dev")

	require.NoError(t, svc.ReloadBookmarks(context.Background()))
	var goDev Bookmark
	for _, b := range svc.GetAllBookmarks() {
		if b.URL == "https://go.dev" {
			goDev = b
		}
	}
	assert.Equal(t, 2, goDev.LaunchCount, "reload must not reset launch counts")
	assert.Equal(t, 2, cache.items[goDev.ID].LaunchCount)
}

func TestSearchBookmarks(t *testing.T) {
	cache := newFakeCache()
	svc := NewService(cache, zerolog.Nop(), WithSources(func() []Source { return nil }))
	now := time.Now().UnixMilli()
	seed := map[string]Bookmark{
		"https://go.dev":          {ID: "1", Name: "go", URL: "https://go.dev"},
		"https://golang.org":      {ID: "2", Name: "golang site", URL: "https://golang.org"},
		"https://blog.go.example": {ID: "3", Name: "weekly go reading", URL: "https://blog.go.example"},
		"https://gopher.example":  {ID: "4", Name: "gopher pics", URL: "https://gopher.example", DateLastUsed: now},
		"https://other.example":   {ID: "5", Name: "unrelated", URL: "https://other.example/go-away"},
	}
	svc.byURL.Store(&seed)

	t.Run("bands order results", func(t *testing.T) {
		got := svc.SearchBookmarks("go", 0)
		require.NotEmpty(t, got)
		assert.Equal(t, "go", got[0].Name, "exact name match ranks first")
		// prefix matches beat substring matches
		names := []string{got[1].Name, got[2].Name}
		assert.Contains(t, names, "golang site")
		assert.Contains(t, names, "gopher pics")
		last := got[len(got)-1]
		assert.Equal(t, "unrelated", last.Name, "URL-only match ranks last")
	})

	t.Run("recency bonus breaks prefix ties", func(t *testing.T) {
		got := svc.SearchBookmarks("go", 0)
		assert.Equal(t, "gopher pics", got[1].Name, "recently used prefix match outranks stale one")
	})

	t.Run("short queries return nothing", func(t *testing.T) {
		assert.Nil(t, svc.SearchBookmarks("g", 0))
		assert.Nil(t, svc.SearchBookmarks("  ", 0))
	})

	t.Run("max results caps output", func(t *testing.T) {
		assert.Len(t, svc.SearchBookmarks("go", 2), 2)
	})
}

func TestRescanDropsBookmarksDeletedFromFile(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "Bookmarks")
	require.NoError(t, os.WriteFile(primary, []byte(chromiumFixture), 0o644))

	secondary := filepath.Join(dir, "Bookmarks2")
	other := `{"roots":{"bookmark_bar":{"type":"folder","children":[
	  {"type":"url","name":"Docs","url":"https://docs.example","date_added":"13300000000000000"}
	]}}}`
	require.NoError(t, os.WriteFile(secondary, []byte(other), 0o644))

	cache := newFakeCache()
	svc := newTestService(t, cache, primary, secondary)
	require.NoError(t, svc.LoadBookmarks(context.Background(), true))
	require.Len(t, svc.GetAllBookmarks(), 3)

	// the browser deletes GitHub from its file; the rescan must not keep
	// serving it from the previous in-memory state
	trimmed := `{"roots":{"bookmark_bar":{"type":"folder","children":[
	  {"type":"url","name":"Go","url":"https://go.dev","date_added":"13300000000000000"}
	]}}}`
	require.NoError(t, os.WriteFile(primary, []byte(trimmed), 0o644))
	svc.rescanSource(context.Background(), Source{Path: primary, Browser: "chrome", Format: FormatChromium})

	urls := map[string]bool{}
	for _, b := range svc.GetAllBookmarks() {
		urls[b.URL] = true
	}
	assert.False(t, urls["https://github.com"], "deleted bookmark must disappear")
	assert.True(t, urls["https://go.dev"])
	assert.True(t, urls["https://docs.example"], "other sources survive a single-file rescan")
	assert.Len(t, cache.items, 2, "cache is pruned to the merged set")
}

func TestWatcherRescansAfterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Bookmarks")
	require.NoError(t, os.WriteFile(path, []byte(chromiumFixture), 0o644))

	cache := newFakeCache()
	svc := newTestService(t, cache, path)
	require.NoError(t, svc.LoadBookmarks(context.Background(), true))
	require.Len(t, svc.GetAllBookmarks(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.StartWatching(ctx))
	defer svc.StopWatching()

	updated := `{"roots":{"bookmark_bar":{"type":"folder","children":[
	  {"type":"url","name":"Go","url":"https://go.dev","date_added":"13300000000000000"},
	  {"type":"url","name":"New","url":"https://new.example","date_added":"13300000000000000"}
	]}}}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		for _, b := range svc.GetAllBookmarks() {
			if b.URL == "https://new.example" {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond, "watcher should pick up the new bookmark")
}
