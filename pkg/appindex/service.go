package appindex

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/lidayx/lumina-sub000/internal/store"
	"github.com/lidayx/lumina-sub000/internal/utils"
)

// ErrAppGone is returned by LaunchApp when the backing path has disappeared;
// the stale entry is removed as a side effect.
var ErrAppGone = errors.New("application no longer exists")

// AppInfo is the runtime record for one installed application.
type AppInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Exec        string `json:"exec,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Category    string `json:"category,omitempty"`
	LaunchCount int    `json:"launchCount"`
	LastUsed    int64  `json:"lastUsed,omitempty"`
}

// CacheStore is the slice of the persistent store the index needs.
type CacheStore interface {
	GetAllItems(t store.ItemType) ([]store.IndexedItem, error)
	BatchUpsertItems(items []store.IndexedItem) error
	DeleteItem(id string) error
	UpdateItemUsage(id string) error
	ClearOldItems(t store.ItemType, currentIDs []string) error
}

// LaunchFunc starts an application. Platform mechanics live behind it so the
// index itself stays testable.
type LaunchFunc func(ctx context.Context, app AppInfo) error

const searchLimit = 50

// Service owns the in-memory application map, the keyword cache and the scan
// lifecycle. Construct once at process start; callers must not overlap scans.
type Service struct {
	cache    CacheStore
	disc     Discoverer
	icons    IconLoader
	launch   LaunchFunc
	logger   zerolog.Logger
	apps     *Index[string, AppInfo]
	keywords *Index[string, []string]
}

// Option tweaks a Service at construction.
type Option func(*Service)

func WithDiscoverer(d Discoverer) Option { return func(s *Service) { s.disc = d } }
func WithIconLoader(l IconLoader) Option { return func(s *Service) { s.icons = l } }
func WithLaunchFunc(f LaunchFunc) Option { return func(s *Service) { s.launch = f } }

func NewService(cache CacheStore, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		cache:    cache,
		disc:     platformDiscoverer(),
		icons:    platformIconLoader(),
		launch:   platformLaunch,
		logger:   logger.With().Str("component", "appindex").Logger(),
		apps:     NewIndex[string, AppInfo](),
		keywords: NewIndex[string, []string](),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// IndexApps populates the in-memory map. With ignoreCache it always performs
// a full platform scan; otherwise the cache store is consulted first and a
// scan only happens when the cache is empty.
func (s *Service) IndexApps(ctx context.Context, ignoreCache bool) error {
	if !ignoreCache {
		items, err := s.cache.GetAllItems(store.TypeApp)
		if err != nil {
			s.logger.Warn().Err(err).Msg("app cache read failed, scanning instead")
		} else if len(items) > 0 {
			s.loadFromCache(items)
			s.logger.Debug().Int("apps", s.apps.Len()).Msg("app index loaded from cache")
			return nil
		}
	}
	return s.scan(ctx)
}

// ReindexApps clears the in-memory maps and forces a fresh scan, so
// uninstalled apps disappear and new ones appear.
func (s *Service) ReindexApps(ctx context.Context) error {
	s.apps.Rebuild(nil)
	s.keywords.Rebuild(nil)
	return s.scan(ctx)
}

func (s *Service) loadFromCache(items []store.IndexedItem) {
	apps := make(map[string]AppInfo, len(items))
	kw := make(map[string][]string, len(items))
	for _, it := range items {
		apps[it.ID] = AppInfo{
			ID:          it.ID,
			Name:        it.Name,
			Path:        it.Path,
			Icon:        it.Icon,
			LaunchCount: it.LaunchCount,
			LastUsed:    it.LastUsed,
		}
		if it.SearchKeywords != "" {
			kw[it.ID] = splitKeywords(it.SearchKeywords)
		} else {
			kw[it.ID] = BuildKeywords(it.Name)
		}
	}
	s.apps.Rebuild(apps)
	s.keywords.Rebuild(kw)
}

func (s *Service) scan(ctx context.Context) error {
	started := time.Now()
	cands, err := s.disc.Discover(ctx)
	if err != nil || len(cands) == 0 {
		if err != nil {
			s.logger.Warn().Err(err).Msg("primary discovery failed, using fallback walk")
		}
		cands, err = s.disc.Fallback(ctx)
		if err != nil {
			return fmt.Errorf("app discovery: %w", err)
		}
	}

	// discovery sources can be stale: keep only candidates that still exist
	verified := cands[:0]
	for _, c := range cands {
		if utils.Exists(c.Path) {
			verified = append(verified, c)
		}
	}

	// usage stats carry over by stable id
	prior := map[string]store.IndexedItem{}
	if items, err := s.cache.GetAllItems(store.TypeApp); err == nil {
		for _, it := range items {
			prior[it.ID] = it
		}
	}

	icons := loadIcons(ctx, s.icons, verified, s.logger)

	apps := make(map[string]AppInfo, len(verified))
	kw := make(map[string][]string, len(verified))
	records := make([]store.IndexedItem, 0, len(verified))
	ids := make([]string, 0, len(verified))
	for i, c := range verified {
		info := AppInfo{
			ID:       c.ID,
			Name:     c.Name,
			Path:     c.Path,
			Exec:     c.Exec,
			Icon:     icons[i],
			Category: c.Category,
		}
		if old, ok := prior[c.ID]; ok {
			info.LaunchCount = old.LaunchCount
			info.LastUsed = old.LastUsed
		}
		keys := BuildKeywords(c.Name)
		apps[c.ID] = info
		kw[c.ID] = keys
		ids = append(ids, c.ID)
		records = append(records, store.IndexedItem{
			ID:             c.ID,
			Type:           store.TypeApp,
			Name:           c.Name,
			Path:           c.Path,
			Icon:           info.Icon,
			LaunchCount:    info.LaunchCount,
			LastUsed:       info.LastUsed,
			SearchKeywords: joinKeywords(keys),
		})
	}

	// snapshot-then-swap keeps concurrent readers consistent
	s.apps.Rebuild(apps)
	s.keywords.Rebuild(kw)

	// persistence failures leave in-memory state authoritative
	if err := s.cache.BatchUpsertItems(records); err != nil {
		s.logger.Warn().Err(err).Msg("persisting app index failed")
	}
	if err := s.cache.ClearOldItems(store.TypeApp, ids); err != nil {
		s.logger.Warn().Err(err).Msg("pruning stale app records failed")
	}

	s.logger.Info().Int("apps", len(apps)).Dur("took", time.Since(started)).Msg("app scan complete")
	return nil
}

// SearchApps returns ranked matches, capped for latency.
func (s *Service) SearchApps(query string) []AppInfo {
	scored := scoreApps(s.apps.Snapshot(), s.keywords.Snapshot(), query)
	out := make([]AppInfo, 0, len(scored))
	for _, sc := range scored {
		out = append(out, sc.App)
		if len(out) >= searchLimit {
			break
		}
	}
	return out
}

// SearchAppsScored is SearchApps with the match scores kept, for callers
// that fold them into a larger ranking.
func (s *Service) SearchAppsScored(query string) []ScoredApp {
	scored := scoreApps(s.apps.Snapshot(), s.keywords.Snapshot(), query)
	if len(scored) > searchLimit {
		scored = scored[:searchLimit]
	}
	return scored
}

// LaunchApp verifies the target still exists, removes it everywhere if not,
// otherwise launches and records usage.
func (s *Service) LaunchApp(ctx context.Context, id string) error {
	app, ok := s.apps.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAppGone, id)
	}
	if !utils.Exists(app.Path) {
		s.apps.Invalidate(id)
		s.keywords.Invalidate(id)
		if err := s.cache.DeleteItem(id); err != nil {
			s.logger.Warn().Err(err).Str("id", id).Msg("removing stale app record failed")
		}
		return fmt.Errorf("%w: %s", ErrAppGone, app.Name)
	}
	if err := s.launch(ctx, app); err != nil {
		return fmt.Errorf("launching %s: %w", app.Name, err)
	}
	app.LaunchCount++
	app.LastUsed = time.Now().UnixMilli()
	s.apps.Set(id, app)
	if err := s.cache.UpdateItemUsage(id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("recording app usage failed")
	}
	return nil
}

// GetAllApps returns the current map as a name-sorted slice.
func (s *Service) GetAllApps() []AppInfo {
	snap := s.apps.Snapshot()
	out := make([]AppInfo, 0, len(snap))
	for _, a := range snap {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
