package appindex

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/lidayx/lumina-sub000/internal/utils"
)

// Candidate is one discovered application before verification.
type Candidate struct {
	ID       string
	Name     string
	Path     string
	Exec     string
	IconHint string
	Category string
}

// Discoverer finds installed applications. Discover is the fast system-index
// path; Fallback is the bounded directory walk used when it fails or comes
// back empty.
type Discoverer interface {
	Discover(ctx context.Context) ([]Candidate, error)
	Fallback(ctx context.Context) ([]Candidate, error)
}

const discoverTimeout = 20 * time.Second

func platformDiscoverer() Discoverer {
	switch runtime.GOOS {
	case "darwin":
		return &darwinDiscoverer{}
	case "windows":
		return &windowsDiscoverer{}
	default:
		return &linuxDiscoverer{}
	}
}

// --- linux: .desktop entries across the XDG data dirs ---

type linuxDiscoverer struct{}

func (d *linuxDiscoverer) Discover(ctx context.Context) ([]Candidate, error) {
	paths := collectDesktopFiles(ctx, xdgApplicationDirs())
	return parseDesktopCandidates(paths), nil
}

func (d *linuxDiscoverer) Fallback(ctx context.Context) ([]Candidate, error) {
	// depth-capped walk of the usual suspects when XDG dirs are unset
	dirs := []string{"/usr/share/applications", "/usr/local/share/applications"}
	paths := collectDesktopFiles(ctx, dirs)
	return parseDesktopCandidates(paths), nil
}

func xdgApplicationDirs() []string {
	xdg := os.Getenv("XDG_DATA_DIRS")
	if xdg == "" {
		xdg = "/usr/local/share:/usr/share"
	}
	parts := strings.Split(xdg, ":")
	home := utils.HomeDir()
	parts = append([]string{filepath.Join(home, ".local", "share")}, parts...)
	parts = append(parts, filepath.Join(home, ".nix-profile", "share"))
	if utils.Exists("/run/current-system/sw/share") {
		parts = append(parts, "/run/current-system/sw/share")
	}
	seen := map[string]bool{}
	var dirs []string
	for _, p := range parts {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		dirs = append(dirs, filepath.Join(p, "applications"))
	}
	return dirs
}

func collectDesktopFiles(ctx context.Context, dirs []string) []string {
	outCh := make(chan string, 512)
	var wg sync.WaitGroup
	for _, d := range dirs {
		wg.Add(1)
		go func(ad string) {
			defer wg.Done()
			_ = filepath.WalkDir(ad, func(path string, de fs.DirEntry, err error) error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err != nil || de.IsDir() {
					return nil
				}
				if strings.HasSuffix(path, ".desktop") {
					outCh <- path
				}
				return nil
			})
		}(d)
	}
	go func() {
		wg.Wait()
		close(outCh)
	}()

	uniq := map[string]bool{}
	var out []string
	for p := range outCh {
		if !uniq[p] {
			uniq[p] = true
			out = append(out, p)
		}
	}
	return out
}

func parseDesktopCandidates(paths []string) []Candidate {
	var out []Candidate
	seen := map[string]bool{}
	for _, p := range paths {
		info := parseDesktopFile(p)
		if info == nil || info["Type"] != "Application" {
			continue
		}
		if strings.EqualFold(info["NoDisplay"], "true") || strings.EqualFold(info["Hidden"], "true") {
			continue
		}
		name := info["Name"]
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(p), ".desktop")
		}
		id := strings.TrimSuffix(filepath.Base(p), ".desktop")
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Candidate{
			ID:       id,
			Name:     name,
			Path:     p,
			Exec:     utils.SanitizeExecField(info["Exec"]),
			IconHint: info["Icon"],
			Category: info["Categories"],
		})
	}
	return out
}

func parseDesktopFile(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	out := map[string]string{}
	in := false
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if line == "[Desktop Entry]" {
			in = true
			continue
		}
		if strings.HasPrefix(line, "[") {
			in = false
			continue
		}
		if !in {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}

// --- darwin: Spotlight first, bounded /Applications walk as fallback ---

type darwinDiscoverer struct{}

func (d *darwinDiscoverer) Discover(ctx context.Context) ([]Candidate, error) {
	out, err := utils.RunCapture(ctx, discoverTimeout, "mdfind", "kMDItemContentType == 'com.apple.application-bundle'")
	if err != nil {
		return nil, err
	}
	var cands []Candidate
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		p := strings.TrimSpace(sc.Text())
		if p == "" || !strings.HasSuffix(p, ".app") {
			continue
		}
		cands = append(cands, bundleCandidate(p))
	}
	return cands, nil
}

func (d *darwinDiscoverer) Fallback(ctx context.Context) ([]Candidate, error) {
	roots := []string{"/Applications", "/System/Applications", filepath.Join(utils.HomeDir(), "Applications")}
	var cands []Candidate
	for _, root := range roots {
		for _, p := range boundedFind(ctx, root, 3, func(name string, isDir bool) bool {
			return isDir && strings.HasSuffix(name, ".app")
		}) {
			cands = append(cands, bundleCandidate(p))
		}
	}
	return cands, nil
}

func bundleCandidate(p string) Candidate {
	base := strings.TrimSuffix(filepath.Base(p), ".app")
	return Candidate{ID: base, Name: base, Path: p}
}

// --- windows: Start Menu shortcuts ---

type windowsDiscoverer struct{}

func (d *windowsDiscoverer) Discover(ctx context.Context) ([]Candidate, error) {
	roots := []string{
		filepath.Join(os.Getenv("ProgramData"), `Microsoft\Windows\Start Menu\Programs`),
		filepath.Join(os.Getenv("AppData"), `Microsoft\Windows\Start Menu\Programs`),
	}
	var cands []Candidate
	for _, root := range roots {
		if root == "" {
			continue
		}
		for _, p := range boundedFind(ctx, root, 3, func(name string, isDir bool) bool {
			return !isDir && strings.HasSuffix(strings.ToLower(name), ".lnk")
		}) {
			base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
			cands = append(cands, Candidate{ID: base, Name: base, Path: p})
		}
	}
	return cands, nil
}

func (d *windowsDiscoverer) Fallback(ctx context.Context) ([]Candidate, error) {
	return d.Discover(ctx)
}

// boundedFind walks root to a fixed depth, collecting paths the keep
// predicate accepts. Matching directories are not descended into (an .app
// bundle is one entry, not a tree). Depth caps keep pathological trees from
// stalling a scan.
func boundedFind(ctx context.Context, root string, maxDepth int, keep func(name string, isDir bool) bool) []string {
	var out []string
	root = filepath.Clean(root)
	_ = filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		depth := strings.Count(strings.TrimPrefix(path, root), string(filepath.Separator))
		if keep(de.Name(), de.IsDir()) {
			out = append(out, path)
			if de.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if de.IsDir() && depth >= maxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	return out
}
