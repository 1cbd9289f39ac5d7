package bookmark

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/lidayx/lumina-sub000/internal/store"
)

// CacheStore is the slice of the persistent store the aggregator needs.
type CacheStore interface {
	GetAllItems(t store.ItemType) ([]store.IndexedItem, error)
	BatchUpsertItems(items []store.IndexedItem) error
	ClearOldItems(t store.ItemType, currentIDs []string) error
}

// Service aggregates bookmarks across browsers into one URL-merged list.
type Service struct {
	cache    CacheStore
	logger   zerolog.Logger
	discover func() []Source

	byURL atomic.Pointer[map[string]Bookmark]

	// last parsed list per source, so a single-file rescan can re-merge
	// without resurrecting entries deleted from that file
	srcMu    sync.Mutex
	srcLists [][]Bookmark

	watchMu   sync.Mutex
	watchStop chan struct{}
}

type ServiceOption func(*Service)

// WithSources replaces platform discovery, for tests.
func WithSources(fn func() []Source) ServiceOption {
	return func(s *Service) { s.discover = fn }
}

func NewService(cache CacheStore, logger zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		cache:    cache,
		logger:   logger.With().Str("component", "bookmarks").Logger(),
		discover: DiscoverSources,
	}
	empty := map[string]Bookmark{}
	s.byURL.Store(&empty)
	for _, o := range opts {
		o(s)
	}
	return s
}

// LoadBookmarks populates the in-memory list: from the cache store unless
// ignoreCache, otherwise by reading every discovered source in parallel.
func (s *Service) LoadBookmarks(ctx context.Context, ignoreCache bool) error {
	if !ignoreCache {
		items, err := s.cache.GetAllItems(store.TypeBookmark)
		if err != nil {
			s.logger.Warn().Err(err).Msg("bookmark cache read failed, loading sources")
		} else if len(items) > 0 {
			s.loadFromCache(items)
			return nil
		}
	}
	return s.loadFromSources(ctx, s.discover())
}

// ReloadBookmarks re-reads every source, bypassing the cache.
func (s *Service) ReloadBookmarks(ctx context.Context) error {
	return s.loadFromSources(ctx, s.discover())
}

func (s *Service) loadFromCache(items []store.IndexedItem) {
	m := make(map[string]Bookmark, len(items))
	for _, it := range items {
		m[it.Path] = Bookmark{
			ID:          it.ID,
			Name:        it.Name,
			URL:         it.Path,
			Icon:        it.Icon,
			LaunchCount: it.LaunchCount,
			LastUsed:    it.LastUsed,
			DateAdded:   it.LastUsed,
			Score:       it.Score,
		}
	}
	s.byURL.Store(&m)
}

func (s *Service) loadFromSources(ctx context.Context, sources []Source) error {
	lists := readSources(ctx, sources, s.logger)
	s.srcMu.Lock()
	s.srcLists = lists
	s.srcMu.Unlock()
	merged := Merge(lists...)
	s.applyMerged(merged)
	s.persist(merged)
	s.logger.Info().Int("bookmarks", len(merged)).Int("sources", len(sources)).Msg("bookmarks loaded")
	return nil
}

// readSources reads every file in parallel; a failing source degrades to an
// empty list instead of aborting the load.
func readSources(ctx context.Context, sources []Source, logger zerolog.Logger) [][]Bookmark {
	lists := make([][]Bookmark, len(sources))
	p := pool.New().WithMaxGoroutines(4)
	for i, src := range sources {
		i, src := i, src
		p.Go(func() {
			bms, err := readSource(ctx, src)
			if err != nil {
				logger.Warn().Err(err).Str("path", src.Path).Msg("bookmark source unreadable, skipping")
				return
			}
			lists[i] = bms
		})
	}
	p.Wait()
	return lists
}

func readSource(ctx context.Context, src Source) ([]Bookmark, error) {
	format := src.Format
	if format == "" {
		var err error
		format, err = FormatForPath(src.Path)
		if err != nil {
			return nil, err
		}
	}
	switch format {
	case FormatChromium:
		return parseChromium(src.Path)
	case FormatSafari:
		return parseSafari(src.Path)
	case FormatFirefox:
		return parseFirefox(ctx, src.Path)
	case FormatHTML:
		return parseHTMLExport(src.Path)
	}
	return nil, nil
}

// applyMerged swaps the in-memory map, carrying usage stats over from the
// previous state by URL.
func (s *Service) applyMerged(merged map[string]Bookmark) {
	prev := *s.byURL.Load()
	for url, b := range merged {
		if old, ok := prev[url]; ok {
			b.LaunchCount = old.LaunchCount
			b.LastUsed = old.LastUsed
			b.Score = old.Score
			merged[url] = b
		}
	}
	s.byURL.Store(&merged)
}

// persist writes the merged set, looking up existing records by id first so
// launch counters survive a reload. Deleting everything and reinserting
// would silently reset them.
func (s *Service) persist(merged map[string]Bookmark) {
	prior := map[string]store.IndexedItem{}
	if items, err := s.cache.GetAllItems(store.TypeBookmark); err == nil {
		for _, it := range items {
			prior[it.ID] = it
		}
	}
	records := make([]store.IndexedItem, 0, len(merged))
	ids := make([]string, 0, len(merged))
	for url, b := range merged {
		rec := store.IndexedItem{
			ID:    b.ID,
			Type:  store.TypeBookmark,
			Name:  b.Name,
			Path:  url,
			Icon:  b.Icon,
			Score: b.Score,
		}
		if old, ok := prior[b.ID]; ok {
			rec.LaunchCount = old.LaunchCount
			rec.LastUsed = old.LastUsed
			if rec.Score == 0 {
				rec.Score = old.Score
			}
		}
		if b.LaunchCount > rec.LaunchCount {
			rec.LaunchCount = b.LaunchCount
			rec.LastUsed = b.LastUsed
		}
		records = append(records, rec)
		ids = append(ids, b.ID)
	}
	if err := s.cache.BatchUpsertItems(records); err != nil {
		s.logger.Warn().Err(err).Msg("persisting bookmarks failed")
	}
	if err := s.cache.ClearOldItems(store.TypeBookmark, ids); err != nil {
		s.logger.Warn().Err(err).Msg("pruning stale bookmark records failed")
	}
}

// GetAllBookmarks returns the current merged list, URL-sorted.
func (s *Service) GetAllBookmarks() []Bookmark {
	m := *s.byURL.Load()
	out := make([]Bookmark, 0, len(m))
	for _, b := range m {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Search score bands, plus a recency bonus on top.
const (
	bmExactName    = 100
	bmNamePrefix   = 80
	bmNameContains = 60
	bmExactURL     = 50
	bmURLContains  = 30
	bmRecentWeek   = 10
	bmRecentMonth  = 5
)

// SearchBookmarks ranks bookmarks for a term of at least two characters.
func (s *Service) SearchBookmarks(query string, maxResults int) []Bookmark {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return nil
	}
	now := time.Now().UnixMilli()
	m := *s.byURL.Load()
	var out []Bookmark
	for _, b := range m {
		name := strings.ToLower(b.Name)
		url := strings.ToLower(b.URL)
		// cheap reject before scoring
		if !strings.Contains(name, q) && !strings.Contains(url, q) {
			continue
		}
		score := 0
		switch {
		case name == q:
			score = bmExactName
		case strings.HasPrefix(name, q):
			score = bmNamePrefix
		case strings.Contains(name, q):
			score = bmNameContains
		case url == q:
			score = bmExactURL
		default:
			score = bmURLContains
		}
		if r := recencyOrUsage(b); r > 0 {
			age := now - r
			if age < 7*24*int64(time.Hour/time.Millisecond) {
				score += bmRecentWeek
			} else if age < 30*24*int64(time.Hour/time.Millisecond) {
				score += bmRecentMonth
			}
		}
		b.Score = float64(score)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		ri, rj := recencyOrUsage(out[i]), recencyOrUsage(out[j])
		if ri != rj {
			return ri > rj
		}
		return out[i].URL < out[j].URL
	})
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

func recencyOrUsage(b Bookmark) int64 {
	if b.LastUsed > recency(b) {
		return b.LastUsed
	}
	return recency(b)
}

// RecordUsage bumps a bookmark's launch counter by URL.
func (s *Service) RecordUsage(url string) {
	m := *s.byURL.Load()
	b, ok := m[url]
	if !ok {
		return
	}
	next := make(map[string]Bookmark, len(m))
	for k, v := range m {
		next[k] = v
	}
	b.LaunchCount++
	b.LastUsed = time.Now().UnixMilli()
	next[url] = b
	s.byURL.Store(&next)

	rec := store.IndexedItem{
		ID:          b.ID,
		Type:        store.TypeBookmark,
		Name:        b.Name,
		Path:        b.URL,
		Icon:        b.Icon,
		LaunchCount: b.LaunchCount,
		LastUsed:    b.LastUsed,
		Score:       b.Score,
	}
	if err := s.cache.BatchUpsertItems([]store.IndexedItem{rec}); err != nil {
		s.logger.Warn().Err(err).Msg("recording bookmark usage failed")
	}
}
