package bookmark

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lidayx/lumina-sub000/internal/utils"
)

// BrowserConfig describes one installed browser the launcher can open URLs
// with. Exactly one entry is the default whenever the set is non-empty.
type BrowserConfig struct {
	ID        string `json:"id" mapstructure:"id"`
	Name      string `json:"name" mapstructure:"name"`
	Path      string `json:"path" mapstructure:"path"`
	IsDefault bool   `json:"isDefault" mapstructure:"is_default"`
	Icon      string `json:"icon,omitempty" mapstructure:"icon"`
	Homepage  string `json:"homepage,omitempty" mapstructure:"homepage"`
}

// NormalizeBrowsers enforces the single-default invariant: the first default
// wins, and when none is marked the first browser becomes the default.
func NormalizeBrowsers(browsers []BrowserConfig) []BrowserConfig {
	out := make([]BrowserConfig, len(browsers))
	copy(out, browsers)
	found := false
	for i := range out {
		if out[i].IsDefault {
			if found {
				out[i].IsDefault = false
			}
			found = true
		}
	}
	if !found && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out
}

// SourceFormat tags a bookmark file's container format. Dispatch is by
// filename, not content sniffing.
type SourceFormat string

const (
	FormatChromium SourceFormat = "chromium" // JSON bookmark tree
	FormatSafari   SourceFormat = "safari"   // binary plist
	FormatFirefox  SourceFormat = "firefox"  // places.sqlite
	FormatHTML     SourceFormat = "html"     // legacy Netscape export
)

// Source is one discovered bookmark file.
type Source struct {
	Path    string
	Browser string
	Format  SourceFormat
}

// DiscoverSources enumerates every known browser's profile directories on
// this platform. Multiple profiles per browser are expected.
func DiscoverSources() []Source {
	home := utils.HomeDir()
	var roots []struct {
		browser string
		dir     string
	}
	add := func(browser, dir string) {
		roots = append(roots, struct {
			browser string
			dir     string
		}{browser, dir})
	}

	switch runtime.GOOS {
	case "darwin":
		lib := filepath.Join(home, "Library", "Application Support")
		add("chrome", filepath.Join(lib, "Google", "Chrome"))
		add("edge", filepath.Join(lib, "Microsoft Edge"))
		add("brave", filepath.Join(lib, "BraveSoftware", "Brave-Browser"))
		add("chromium", filepath.Join(lib, "Chromium"))
		add("firefox", filepath.Join(lib, "Firefox", "Profiles"))
	case "windows":
		local := os.Getenv("LocalAppData")
		roam := os.Getenv("AppData")
		add("chrome", filepath.Join(local, "Google", "Chrome", "User Data"))
		add("edge", filepath.Join(local, "Microsoft", "Edge", "User Data"))
		add("brave", filepath.Join(local, "BraveSoftware", "Brave-Browser", "User Data"))
		add("firefox", filepath.Join(roam, "Mozilla", "Firefox", "Profiles"))
	default:
		cfg := filepath.Join(home, ".config")
		add("chrome", filepath.Join(cfg, "google-chrome"))
		add("chromium", filepath.Join(cfg, "chromium"))
		add("edge", filepath.Join(cfg, "microsoft-edge"))
		add("brave", filepath.Join(cfg, "BraveSoftware", "Brave-Browser"))
		add("firefox", filepath.Join(home, ".mozilla", "firefox"))
	}

	var out []Source
	for _, r := range roots {
		if r.browser == "firefox" {
			out = append(out, firefoxSources(r.dir)...)
			continue
		}
		out = append(out, chromiumSources(r.browser, r.dir)...)
	}
	if runtime.GOOS == "darwin" {
		safari := filepath.Join(home, "Library", "Safari", "Bookmarks.plist")
		if utils.Exists(safari) {
			out = append(out, Source{Path: safari, Browser: "safari", Format: FormatSafari})
		}
	}
	return out
}

// chromiumSources finds Bookmarks files under Default and Profile N dirs.
func chromiumSources(browser, root string) []Source {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var out []Source
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if name != "Default" && !strings.HasPrefix(name, "Profile ") {
			continue
		}
		p := filepath.Join(root, name, "Bookmarks")
		if utils.Exists(p) {
			out = append(out, Source{Path: p, Browser: browser, Format: FormatChromium})
		}
	}
	return out
}

func firefoxSources(root string) []Source {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var out []Source
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(root, e.Name(), "places.sqlite")
		if utils.Exists(p) {
			out = append(out, Source{Path: p, Browser: "firefox", Format: FormatFirefox})
		}
	}
	return out
}

// FormatForPath classifies a source file by its name.
func FormatForPath(path string) (SourceFormat, error) {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case base == "bookmarks":
		return FormatChromium, nil
	case strings.HasSuffix(base, ".plist"):
		return FormatSafari, nil
	case strings.HasSuffix(base, ".sqlite"):
		return FormatFirefox, nil
	case strings.HasSuffix(base, ".html") || strings.HasSuffix(base, ".htm"):
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unrecognized bookmark file: %s", path)
}
