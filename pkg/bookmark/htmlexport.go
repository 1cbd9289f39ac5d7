package bookmark

import (
	"html"
	"os"
	"regexp"
	"strconv"
)

// Legacy Netscape bookmark exports are line-oriented <DT><A …> soup, not
// well-formed HTML; a tolerant regex pass beats a strict parser here.
var htmlAnchorRe = regexp.MustCompile(`(?i)<a\s+[^>]*href="([^"]+)"[^>]*>(.*?)</a>`)
var htmlAddDateRe = regexp.MustCompile(`(?i)add_date="(\d+)"`)
var htmlLastModRe = regexp.MustCompile(`(?i)last_modified="(\d+)"`)
var htmlIconRe = regexp.MustCompile(`(?i)icon="([^"]+)"`)
var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

func parseHTMLExport(path string) ([]Bookmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []Bookmark
	for _, m := range htmlAnchorRe.FindAllStringSubmatch(string(data), -1) {
		full, href, label := m[0], m[1], m[2]
		if href == "" || !isWebURL(href) {
			continue
		}
		name := html.UnescapeString(htmlTagRe.ReplaceAllString(label, ""))
		if name == "" {
			name = href
		}
		b := Bookmark{ID: urlID(href), Name: name, URL: href}
		if dm := htmlAddDateRe.FindStringSubmatch(full); dm != nil {
			if secs, err := strconv.ParseInt(dm[1], 10, 64); err == nil {
				b.DateAdded = secs * 1000
			}
		}
		if dm := htmlLastModRe.FindStringSubmatch(full); dm != nil {
			if secs, err := strconv.ParseInt(dm[1], 10, 64); err == nil {
				b.DateLastUsed = secs * 1000
			}
		}
		if dm := htmlIconRe.FindStringSubmatch(full); dm != nil {
			b.Icon = dm[1]
		}
		out = append(out, b)
	}
	return out, nil
}

func isWebURL(u string) bool {
	return len(u) > 8 && (u[:7] == "http://" || u[:8] == "https://")
}
