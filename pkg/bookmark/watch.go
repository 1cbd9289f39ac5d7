package bookmark

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = time.Second

// StartWatching watches the first discovered source file and re-reads only
// that file after writes settle. Browsers rewrite bookmark files in bursts,
// hence the debounce.
func (s *Service) StartWatching(ctx context.Context) error {
	sources := s.discover()
	if len(sources) == 0 {
		s.logger.Debug().Msg("no bookmark sources to watch")
		return nil
	}
	primary := sources[0]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(primary.Path); err != nil {
		watcher.Close()
		return err
	}

	s.watchMu.Lock()
	if s.watchStop != nil {
		close(s.watchStop)
	}
	stop := make(chan struct{})
	s.watchStop = stop
	s.watchMu.Unlock()

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(watchDebounce)
				fire = timer.C
			case <-fire:
				fire = nil
				s.rescanSource(ctx, primary)
				// editors replace files, re-arm in case the inode changed
				_ = watcher.Add(primary.Path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn().Err(err).Msg("bookmark watcher error")
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info().Str("path", primary.Path).Msg("watching bookmark file")
	return nil
}

// rescanSource replaces the watched file's slot in the per-source snapshot
// and re-merges, so entries removed from that file actually disappear.
func (s *Service) rescanSource(ctx context.Context, src Source) {
	bms, err := readSource(ctx, src)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", src.Path).Msg("bookmark rescan failed")
		return
	}
	s.srcMu.Lock()
	if len(s.srcLists) == 0 {
		// state came from the cache; no snapshot to patch, read everything
		s.srcMu.Unlock()
		if err := s.loadFromSources(ctx, s.discover()); err != nil {
			s.logger.Warn().Err(err).Msg("bookmark reload after rescan failed")
		}
		return
	}
	s.srcLists[0] = bms
	lists := make([][]Bookmark, len(s.srcLists))
	copy(lists, s.srcLists)
	s.srcMu.Unlock()

	merged := Merge(lists...)
	s.applyMerged(merged)
	s.persist(merged)
	s.logger.Debug().Int("bookmarks", len(merged)).Msg("bookmark file rescanned")
}

// StopWatching tears down the file watcher if one is running.
func (s *Service) StopWatching() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watchStop != nil {
		close(s.watchStop)
		s.watchStop = nil
	}
}
