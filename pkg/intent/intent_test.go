package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCommandMode(t *testing.T) {
	s := Detect("> reindex", "> reindex")
	require.NotNil(t, s.Command)
	assert.Equal(t, "reindex", s.Command.Rest)

	s = Detect("> ", "> ")
	require.NotNil(t, s.Command)
	assert.Equal(t, "", s.Command.Rest)

	s = Detect("hello", "hello")
	assert.Nil(t, s.Command)
}

func TestDetectURL(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"https://example.com", "https://example.com"},
		{"example.com", "https://example.com"},
		{"sub.example.co:8080", "https://sub.example.co:8080"},
		{"ftp://host.example.com/a", "ftp://host.example.com/a"},
	}
	for _, tt := range tests {
		s := Detect(tt.query, tt.query)
		require.NotNil(t, s.URL, tt.query)
		assert.Equal(t, tt.want, s.URL.Normalized, tt.query)
	}

	for _, q := range []string{"example com", "example", "a/b.txt", "example.c"} {
		s := Detect(q, q)
		assert.Nil(t, s.URL, q)
	}
}

func TestDetectFileSearchUsesRawQuery(t *testing.T) {
	// alias resolution rewrote the query, but "file " was typed
	s := Detect("file report.pdf", "something else entirely")
	require.NotNil(t, s.FileSearch)
	assert.Equal(t, "report.pdf", s.FileSearch.Term)

	s = Detect("profile report", "profile report")
	assert.Nil(t, s.FileSearch)
}

func TestDetectClipboard(t *testing.T) {
	s := Detect("clip", "clip")
	require.NotNil(t, s.Clipboard)
	assert.Equal(t, "", s.Clipboard.SubQuery)

	s = Detect("clipboard foo bar", "clipboard foo bar")
	require.NotNil(t, s.Clipboard)
	assert.Equal(t, "foo bar", s.Clipboard.SubQuery)

	s = Detect("cb x", "cb x")
	require.NotNil(t, s.Clipboard)
	assert.Equal(t, "x", s.Clipboard.SubQuery)
}

func TestDetectSettings(t *testing.T) {
	assert.True(t, Detect("Settings", "Settings").Settings)
	assert.True(t, Detect("preferences", "preferences").Settings)
	assert.False(t, Detect("settings panel", "settings panel").Settings)
}

func TestCalculationVeto(t *testing.T) {
	// plain arithmetic
	s := Detect("1+1", "1+1")
	assert.True(t, s.CalculationRaw)
	assert.True(t, s.Calculation)

	// file search suppresses the calculator even when the term looks numeric
	s = Detect("file 1+1", "file 1+1")
	require.NotNil(t, s.FileSearch)
	assert.False(t, s.Calculation)

	// a URL with digits and slashes must not be treated as arithmetic
	s = Detect("https://e.com/2024/1+1", "https://e.com/2024/1+1")
	require.NotNil(t, s.URL)
	assert.False(t, s.Calculation)
}

func TestCalculationBattery(t *testing.T) {
	yes := []string{"1+1", "2 * (3+4)", "sqrt(16)", "(1+2)*3", "pi*2", "10 % 3", "2^10"}
	for _, q := range yes {
		assert.True(t, Detect(q, q).CalculationRaw, q)
	}
	no := []string{"hello", "firefox", "md5 hello", ""}
	for _, q := range no {
		assert.False(t, Detect(q, q).CalculationRaw, q)
	}
}

func TestFeatureKeywordHints(t *testing.T) {
	s := Detect("md5 hello", "md5 hello")
	assert.Contains(t, s.Features, "encode")

	// partial prefix drives live completion
	s = Detect("upper", "upper")
	assert.Contains(t, s.Features, "string")
	s = Detect("upp", "upp")
	assert.Contains(t, s.Features, "string")

	s = Detect("todo buy milk", "todo buy milk")
	assert.Contains(t, s.Features, "todo")

	s = Detect("firefox", "firefox")
	assert.Empty(t, s.Features)
}
