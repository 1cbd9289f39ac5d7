package bookmark

import (
	"os"

	"howett.net/plist"
)

type safariNode struct {
	WebBookmarkType string       `plist:"WebBookmarkType"`
	URLString       string       `plist:"URLString"`
	URIDictionary   safariTitle  `plist:"URIDictionary"`
	Title           string       `plist:"Title"`
	Children        []safariNode `plist:"Children"`
}

type safariTitle struct {
	Title string `plist:"title"`
}

// parseSafari reads Safari's binary Bookmarks.plist. Safari keeps no
// per-bookmark timestamps in this file, so merge recency is 0 and any other
// source wins a URL collision.
func parseSafari(path string) ([]Bookmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root safariNode
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	var out []Bookmark
	walkSafari(root, &out)
	return out, nil
}

func walkSafari(n safariNode, out *[]Bookmark) {
	if n.WebBookmarkType == "WebBookmarkTypeLeaf" && n.URLString != "" {
		name := n.URIDictionary.Title
		if name == "" {
			name = n.URLString
		}
		*out = append(*out, Bookmark{
			ID:   urlID(n.URLString),
			Name: name,
			URL:  n.URLString,
		})
		return
	}
	for _, c := range n.Children {
		walkSafari(c, out)
	}
}
