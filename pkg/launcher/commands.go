package launcher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lidayx/lumina-sub000/internal/utils"
)

const discoveredCommandCap = 10

// BuiltinCommand is one entry of the ">" catalog.
type BuiltinCommand struct {
	ID          string
	Name        string
	Description string
}

// DefaultCatalog lists the maintenance commands the launcher itself offers.
func DefaultCatalog() []BuiltinCommand {
	return []BuiltinCommand{
		{ID: "reindex-apps", Name: "Reindex Applications", Description: "Rescan installed applications"},
		{ID: "reload-bookmarks", Name: "Reload Bookmarks", Description: "Re-read every browser bookmark file"},
		{ID: "clear-cache", Name: "Clear Cache", Description: "Drop the persisted app and bookmark cache"},
		{ID: "open-settings", Name: "Open Settings", Description: "Open the launcher settings"},
		{ID: "quit", Name: "Quit", Description: "Exit the launcher"},
	}
}

// PathCommandService serves the built-in catalog for command mode and
// discovers executables on PATH for the free-text command source.
type PathCommandService struct {
	catalog  []BuiltinCommand
	pathDirs func() []string
}

type CommandOption func(*PathCommandService)

// WithPathDirs replaces PATH enumeration, for tests.
func WithPathDirs(fn func() []string) CommandOption {
	return func(s *PathCommandService) { s.pathDirs = fn }
}

func NewPathCommandService(opts ...CommandOption) *PathCommandService {
	s := &PathCommandService{
		catalog: DefaultCatalog(),
		pathDirs: func() []string {
			return filepath.SplitList(os.Getenv("PATH"))
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Catalog filters the built-in commands by rest; empty rest lists everything.
func (s *PathCommandService) Catalog(rest string) []CommandEntry {
	rest = strings.ToLower(strings.TrimSpace(rest))
	var out []CommandEntry
	for _, c := range s.catalog {
		if rest != "" &&
			!strings.Contains(strings.ToLower(c.Name), rest) &&
			!strings.Contains(c.ID, rest) {
			continue
		}
		out = append(out, CommandEntry{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return out
}

// Search matches PATH executables against free text. Short terms return
// nothing; one-letter queries would match half of /usr/bin.
func (s *PathCommandService) Search(term string) []CommandEntry {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < 2 || strings.ContainsAny(term, " \t") {
		return nil
	}
	seen := map[string]bool{}
	var out []CommandEntry
	for _, dir := range s.pathDirs() {
		if dir == "" {
			continue
		}
		ents, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range ents {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if !strings.Contains(strings.ToLower(name), term) {
				continue
			}
			full := filepath.Join(dir, name)
			if seen[name] || !utils.IsExecutable(full) {
				continue
			}
			seen[name] = true
			out = append(out, CommandEntry{ID: name, Name: name, Description: full})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		// exact and prefix hits surface first, then shortest name
		pi, pj := cmdRank(out[i].Name, term), cmdRank(out[j].Name, term)
		if pi != pj {
			return pi < pj
		}
		if len(out[i].Name) != len(out[j].Name) {
			return len(out[i].Name) < len(out[j].Name)
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > discoveredCommandCap {
		out = out[:discoveredCommandCap]
	}
	return out
}

func cmdRank(name, term string) int {
	lower := strings.ToLower(name)
	switch {
	case lower == term:
		return 0
	case strings.HasPrefix(lower, term):
		return 1
	}
	return 2
}
