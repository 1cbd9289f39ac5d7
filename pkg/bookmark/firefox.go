package bookmark

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/lidayx/lumina-sub000/internal/utils"
)

const firefoxQueryTimeout = 10 * time.Second

const firefoxQuery = `SELECT b.title AS title, p.url AS url, b.dateAdded AS dateAdded, b.lastModified AS lastModified
FROM moz_bookmarks b JOIN moz_places p ON b.fk = p.id
WHERE b.type = 1 AND p.url NOT LIKE 'place:%'`

type firefoxRow struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	DateAdded    int64  `json:"dateAdded"`    // microseconds
	LastModified int64  `json:"lastModified"` // microseconds
}

// parseFirefox reads places.sqlite through the sqlite3 CLI. The database is
// copied to a temp file first because Firefox holds a lock on the live one.
// A missing sqlite3 binary degrades to an empty list.
func parseFirefox(ctx context.Context, path string) ([]Bookmark, error) {
	if _, err := exec.LookPath("sqlite3"); err != nil {
		return nil, nil
	}
	tmp, err := copyToTemp(path)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	out, err := utils.RunCapture(ctx, firefoxQueryTimeout, "sqlite3", "-json", tmp, firefoxQuery)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	var rows []firefoxRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		return nil, err
	}
	bms := make([]Bookmark, 0, len(rows))
	for _, r := range rows {
		if r.URL == "" {
			continue
		}
		name := r.Title
		if name == "" {
			name = r.URL
		}
		bms = append(bms, Bookmark{
			ID:           urlID(r.URL),
			Name:         name,
			URL:          r.URL,
			DateAdded:    r.DateAdded / 1000,
			DateLastUsed: r.LastModified / 1000,
		})
	}
	return bms, nil
}

func copyToTemp(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "lumina-places-*"+filepath.Ext(path))
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
