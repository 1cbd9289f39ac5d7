package appindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidayx/lumina-sub000/internal/store"
)

type fakeDiscoverer struct {
	cands    []Candidate
	fail     bool
	fallback []Candidate
}

func (f *fakeDiscoverer) Discover(context.Context) ([]Candidate, error) {
	if f.fail {
		return nil, os.ErrPermission
	}
	return f.cands, nil
}

func (f *fakeDiscoverer) Fallback(context.Context) ([]Candidate, error) {
	return f.fallback, nil
}

func newTestService(t *testing.T, cands []Candidate) (*Service, *store.Store) {
	t.Helper()
	st, err := store.OpenInMemory(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := NewService(st, zerolog.Nop(),
		WithDiscoverer(&fakeDiscoverer{cands: cands}),
		WithIconLoader(noopIconLoader{}),
		WithLaunchFunc(func(context.Context, AppInfo) error { return nil }),
	)
	return svc, st
}

func writeFakeApp(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func TestIndexAppsScanAndCache(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFakeApp(t, dir, "firefox.desktop")
	p2 := writeFakeApp(t, dir, "files.desktop")

	svc, st := newTestService(t, []Candidate{
		{ID: "firefox", Name: "Firefox", Path: p1},
		{ID: "files", Name: "Files", Path: p2},
		{ID: "ghost", Name: "Ghost", Path: filepath.Join(dir, "missing.desktop")},
	})

	require.NoError(t, svc.IndexApps(context.Background(), true))

	// discovery output is re-verified: the missing path is dropped
	all := svc.GetAllApps()
	require.Len(t, all, 2)

	// cache now holds the scan; a fresh service loads without scanning
	svc2 := NewService(st, zerolog.Nop(),
		WithDiscoverer(&fakeDiscoverer{}),
		WithIconLoader(noopIconLoader{}),
	)
	require.NoError(t, svc2.IndexApps(context.Background(), false))
	assert.Len(t, svc2.GetAllApps(), 2)
}

func TestDiscoveryFallback(t *testing.T) {
	dir := t.TempDir()
	p := writeFakeApp(t, dir, "editor.desktop")

	st, err := store.OpenInMemory(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := NewService(st, zerolog.Nop(),
		WithDiscoverer(&fakeDiscoverer{fail: true, fallback: []Candidate{{ID: "editor", Name: "Editor", Path: p}}}),
		WithIconLoader(noopIconLoader{}),
	)
	require.NoError(t, svc.IndexApps(context.Background(), true))
	assert.Len(t, svc.GetAllApps(), 1)
}

func TestSearchAppsRankingChain(t *testing.T) {
	dir := t.TempDir()
	mk := func(id, name string) Candidate {
		return Candidate{ID: id, Name: name, Path: writeFakeApp(t, dir, id+".desktop")}
	}
	svc, _ := newTestService(t, []Candidate{
		mk("note", "Note"),
		mk("notebook", "Notebook"),
		mk("mynotes", "My Notes"),
		mk("other", "Calculator"),
	})
	require.NoError(t, svc.IndexApps(context.Background(), true))

	got := svc.SearchApps("note")
	require.Len(t, got, 3)
	// exact beats prefix beats substring
	assert.Equal(t, "Note", got[0].Name)
	assert.Equal(t, "Notebook", got[1].Name)
	assert.Equal(t, "My Notes", got[2].Name)
}

func TestSearchAppsKeywordFallback(t *testing.T) {
	dir := t.TempDir()
	svc, _ := newTestService(t, []Candidate{
		{ID: "wechat", Name: "微信", Path: writeFakeApp(t, dir, "wechat.desktop")},
		{ID: "code", Name: "Visual Studio Code", Path: writeFakeApp(t, dir, "code.desktop")},
	})
	require.NoError(t, svc.IndexApps(context.Background(), true))

	// pinyin expansion: 微信 -> weixin / wx
	got := svc.SearchApps("weixin")
	require.Len(t, got, 1)
	assert.Equal(t, "微信", got[0].Name)

	got = svc.SearchApps("wx")
	require.Len(t, got, 1)
	assert.Equal(t, "微信", got[0].Name)

	// word-initials acronym
	got = svc.SearchApps("vsc")
	require.Len(t, got, 1)
	assert.Equal(t, "Visual Studio Code", got[0].Name)
}

func TestLaunchAppRemovesStaleEntry(t *testing.T) {
	dir := t.TempDir()
	p := writeFakeApp(t, dir, "gone.desktop")
	svc, st := newTestService(t, []Candidate{{ID: "gone", Name: "Gone", Path: p}})
	require.NoError(t, svc.IndexApps(context.Background(), true))

	require.NoError(t, os.Remove(p))

	err := svc.LaunchApp(context.Background(), "gone")
	require.ErrorIs(t, err, ErrAppGone)

	// entry dropped from the map and the cache
	assert.Empty(t, svc.GetAllApps())
	rec, err := st.GetItemByID("gone")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLaunchAppRecordsUsage(t *testing.T) {
	dir := t.TempDir()
	p := writeFakeApp(t, dir, "used.desktop")
	svc, st := newTestService(t, []Candidate{{ID: "used", Name: "Used", Path: p}})
	require.NoError(t, svc.IndexApps(context.Background(), true))

	require.NoError(t, svc.LaunchApp(context.Background(), "used"))
	require.NoError(t, svc.LaunchApp(context.Background(), "used"))

	apps := svc.GetAllApps()
	require.Len(t, apps, 1)
	assert.Equal(t, 2, apps[0].LaunchCount)

	rec, err := st.GetItemByID("used")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.LaunchCount)
}

func TestReindexPreservesUsageStats(t *testing.T) {
	dir := t.TempDir()
	p := writeFakeApp(t, dir, "keep.desktop")
	svc, _ := newTestService(t, []Candidate{{ID: "keep", Name: "Keep", Path: p}})
	require.NoError(t, svc.IndexApps(context.Background(), true))
	require.NoError(t, svc.LaunchApp(context.Background(), "keep"))

	require.NoError(t, svc.ReindexApps(context.Background()))

	apps := svc.GetAllApps()
	require.Len(t, apps, 1)
	assert.Equal(t, 1, apps[0].LaunchCount, "usage stats must survive a re-scan")
}

func TestSearchLimitCap(t *testing.T) {
	dir := t.TempDir()
	var cands []Candidate
	for i := 0; i < 60; i++ {
		id := "app" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		cands = append(cands, Candidate{ID: id, Name: "Tool " + id, Path: writeFakeApp(t, dir, id+".desktop")})
	}
	svc, _ := newTestService(t, cands)
	require.NoError(t, svc.IndexApps(context.Background(), true))

	got := svc.SearchApps("tool")
	assert.Len(t, got, 50)
}

func TestIndexSnapshotSwap(t *testing.T) {
	idx := NewIndex[string, int]()
	idx.Rebuild(map[string]int{"a": 1, "b": 2})

	snap := idx.Snapshot()
	idx.Rebuild(map[string]int{"c": 3})

	// the old snapshot is untouched by the rebuild
	assert.Len(t, snap, 2)
	assert.Equal(t, 1, idx.Len())

	idx.Set("d", 4)
	v, ok := idx.Get("d")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	idx.Invalidate("d")
	_, ok = idx.Get("d")
	assert.False(t, ok)
}

func TestBuildKeywords(t *testing.T) {
	keys := BuildKeywords("Visual Studio Code")
	assert.Contains(t, keys, "visual studio code")
	assert.Contains(t, keys, "visualstudiocode")
	assert.Contains(t, keys, "vsc")

	keys = BuildKeywords("微信")
	assert.Contains(t, keys, "weixin")
	assert.Contains(t, keys, "wx")

	assert.Nil(t, BuildKeywords("  "))
}
