package launcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lidayx/lumina-sub000/internal/utils"
)

const defaultFileMax = 20

// WalkFileSearcher answers "file <term>" queries with a bounded walk of the
// configured roots. The walk stops as soon as Max hits are collected, so a
// huge home directory cannot stall a resolution pass.
type WalkFileSearcher struct {
	Roots []string
	Max   int
}

func NewWalkFileSearcher(roots []string) *WalkFileSearcher {
	if len(roots) == 0 {
		roots = []string{utils.HomeDir()}
	}
	expanded := make([]string, 0, len(roots))
	for _, r := range roots {
		expanded = append(expanded, utils.ExpandHome(r))
	}
	return &WalkFileSearcher{Roots: expanded, Max: defaultFileMax}
}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

func (w *WalkFileSearcher) Search(ctx context.Context, term string) []FileHit {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	max := w.Max
	if max <= 0 {
		max = defaultFileMax
	}

	seen := map[string]bool{}
	var hits []FileHit
	for _, root := range w.Roots {
		if !utils.Exists(root) {
			continue
		}
		filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if err != nil {
				return nil
			}
			base := de.Name()
			if de.IsDir() {
				if skipDirs[base] || strings.HasPrefix(base, ".cache") {
					return filepath.SkipDir
				}
				// hidden trees are rarely what a file search wants
				if strings.HasPrefix(base, ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			lower := strings.ToLower(path)
			if !strings.Contains(strings.ToLower(base), term) && !strings.Contains(lower, term) {
				return nil
			}
			if seen[path] {
				return nil
			}
			seen[path] = true
			hits = append(hits, FileHit{Name: base, Path: path})
			if len(hits) >= max {
				return filepath.SkipAll
			}
			return nil
		})
		if len(hits) >= max {
			break
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		return strings.ToLower(hits[i].Name) < strings.ToLower(hits[j].Name)
	})
	return hits
}
