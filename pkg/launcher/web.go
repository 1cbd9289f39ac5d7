package launcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	suggestEndpoint = "https://suggestqueries.google.com/complete/search?client=firefox&q="
	searchURLPrefix = "https://www.google.com/search?q="
	maxSuggestions  = 6
)

// SuggestSearcher is the web-search fallback source. Suggestions come from
// the Google suggest API; any failure degrades to a single "search the web"
// entry so the fallback itself never errors.
type SuggestSearcher struct {
	client   *http.Client
	endpoint string
}

type SuggestOption func(*SuggestSearcher)

// WithSuggestEndpoint points the searcher at a test server.
func WithSuggestEndpoint(endpoint string) SuggestOption {
	return func(s *SuggestSearcher) { s.endpoint = endpoint }
}

func NewSuggestSearcher(opts ...SuggestOption) *SuggestSearcher {
	s := &SuggestSearcher{
		client:   &http.Client{Timeout: 4 * time.Second},
		endpoint: suggestEndpoint,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *SuggestSearcher) Search(ctx context.Context, term string) []WebHit {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	fallback := []WebHit{{Title: term, URL: searchURLPrefix + url.QueryEscape(term)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+url.QueryEscape(term), nil)
	if err != nil {
		return fallback
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fallback
	}

	// response shape: ["term", ["suggestion", ...], ...]
	var data []any
	if err := json.Unmarshal(body, &data); err != nil || len(data) < 2 {
		return fallback
	}
	arr, ok := data[1].([]any)
	if !ok {
		return fallback
	}
	var hits []WebHit
	for _, v := range arr {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		hits = append(hits, WebHit{Title: s, URL: searchURLPrefix + url.QueryEscape(s)})
		if len(hits) >= maxSuggestions {
			break
		}
	}
	if len(hits) == 0 {
		return fallback
	}
	return hits
}
