package appindex

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
)

// IconLoader resolves a candidate's icon into an opaque encoded image.
// Loads are best-effort: a failed or slow icon never blocks indexing.
type IconLoader interface {
	Load(ctx context.Context, c Candidate) (string, error)
}

const (
	iconTimeout = 5 * time.Second
	iconSize    = 64
	iconWorkers = 4
)

// loadIcons fetches icons for all candidates through a small worker pool,
// each load racing its own deadline. The returned slice is index-aligned
// with cands; failures leave an empty string.
func loadIcons(ctx context.Context, loader IconLoader, cands []Candidate, logger zerolog.Logger) []string {
	out := make([]string, len(cands))
	if loader == nil {
		return out
	}
	pool, err := ants.NewPool(iconWorkers)
	if err != nil {
		logger.Warn().Err(err).Msg("icon worker pool unavailable, skipping icons")
		return out
	}
	defer pool.Release()

	done := make(chan int, len(cands))
	for i := range cands {
		i := i
		submitErr := pool.Submit(func() {
			defer func() { done <- i }()
			ictx, cancel := context.WithTimeout(ctx, iconTimeout)
			defer cancel()
			icon, err := loader.Load(ictx, cands[i])
			if err != nil {
				return
			}
			out[i] = icon
		})
		if submitErr != nil {
			done <- i
		}
	}
	for range cands {
		<-done
	}
	return out
}

// noopIconLoader skips icons entirely, used on platforms where extraction
// needs tooling we don't ship and in tests.
type noopIconLoader struct{}

func (noopIconLoader) Load(context.Context, Candidate) (string, error) { return "", nil }

func platformIconLoader() IconLoader {
	if runtime.GOOS == "linux" {
		return &linuxIconLoader{}
	}
	return noopIconLoader{}
}

// linuxIconLoader resolves a desktop entry's Icon= hint against the usual
// theme directories and scales it down to a data URI.
type linuxIconLoader struct{}

var errIconNotFound = errors.New("icon not found")

func (l *linuxIconLoader) Load(ctx context.Context, c Candidate) (string, error) {
	hint := c.IconHint
	if hint == "" {
		return "", errIconNotFound
	}
	path := hint
	if !filepath.IsAbs(hint) {
		path = findThemeIcon(hint)
	}
	if path == "" {
		return "", errIconNotFound
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return encodeIcon(path)
}

var iconSearchDirs = []string{
	"/usr/share/icons/hicolor/64x64/apps",
	"/usr/share/icons/hicolor/128x128/apps",
	"/usr/share/icons/hicolor/48x48/apps",
	"/usr/share/icons/hicolor/scalable/apps",
	"/usr/share/pixmaps",
}

func findThemeIcon(name string) string {
	for _, dir := range iconSearchDirs {
		for _, ext := range []string{".png", ".svg", ".xpm"} {
			p := filepath.Join(dir, name+ext)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// encodeIcon reads a raster icon, scales it to iconSize and returns a PNG
// data URI. SVG and other non-raster formats are passed over.
func encodeIcon(path string) (string, error) {
	if strings.HasSuffix(path, ".svg") || strings.HasSuffix(path, ".xpm") {
		return "", errIconNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", err
	}
	dst := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
