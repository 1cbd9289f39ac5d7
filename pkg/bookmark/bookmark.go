package bookmark

import (
	"crypto/sha1"
	"encoding/hex"
)

// Bookmark is one merged entry. Identity for merge purposes is the URL, not
// ID: different browsers assign different native ids to the same page.
type Bookmark struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	DateAdded    int64  `json:"dateAdded,omitempty"`    // unix millis
	DateLastUsed int64  `json:"dateLastUsed,omitempty"` // unix millis
	Icon         string `json:"icon,omitempty"`
	FavIconURL   string `json:"favIconUrl,omitempty"`
	LaunchCount  int    `json:"launchCount"`
	LastUsed     int64  `json:"lastUsed,omitempty"`
	Score        float64
}

// urlID derives the stable id from the URL so usage stats survive reloads.
func urlID(url string) string {
	sum := sha1.Sum([]byte(url))
	return "bm-" + hex.EncodeToString(sum[:8])
}

// recency is the merge key: dateLastUsed, falling back to dateAdded, then 0.
func recency(b Bookmark) int64 {
	if b.DateLastUsed != 0 {
		return b.DateLastUsed
	}
	return b.DateAdded
}

// Merge folds source lists into a URL-keyed map, newest record winning on
// collision. Title and icon come from the winner. Running it twice over the
// same inputs yields the same output.
func Merge(sources ...[]Bookmark) map[string]Bookmark {
	merged := map[string]Bookmark{}
	for _, list := range sources {
		for _, b := range list {
			if b.URL == "" {
				continue
			}
			if b.ID == "" {
				b.ID = urlID(b.URL)
			}
			cur, ok := merged[b.URL]
			if !ok || recency(b) > recency(cur) {
				merged[b.URL] = b
			}
		}
	}
	return merged
}
