package bookmark

import (
	"encoding/json"
	"os"
	"strconv"
)

// Chromium stores timestamps as microseconds since 1601-01-01.
const chromeEpochOffsetMicros = 11644473600000000

type chromiumFile struct {
	Roots map[string]chromiumNode `json:"roots"`
}

type chromiumNode struct {
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	URL          string         `json:"url"`
	DateAdded    string         `json:"date_added"`
	DateLastUsed string         `json:"date_last_used"`
	Children     []chromiumNode `json:"children"`
}

// parseChromium reads a Chromium "Bookmarks" JSON tree, flattening every
// folder under bookmark_bar, other and synced.
func parseChromium(path string) ([]Bookmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f chromiumFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	var out []Bookmark
	for _, root := range f.Roots {
		walkChromium(root, &out)
	}
	return out, nil
}

func walkChromium(n chromiumNode, out *[]Bookmark) {
	if n.Type == "url" && n.URL != "" {
		*out = append(*out, Bookmark{
			ID:           urlID(n.URL),
			Name:         n.Name,
			URL:          n.URL,
			DateAdded:    chromeTimeToMillis(n.DateAdded),
			DateLastUsed: chromeTimeToMillis(n.DateLastUsed),
		})
		return
	}
	for _, c := range n.Children {
		walkChromium(c, out)
	}
}

func chromeTimeToMillis(s string) int64 {
	if s == "" || s == "0" {
		return 0
	}
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil || micros <= chromeEpochOffsetMicros {
		return 0
	}
	return (micros - chromeEpochOffsetMicros) / 1000
}
