package intent

import (
	"regexp"
	"strings"
)

// Command is the ">" prefix intent. When present every other source is
// suppressed downstream.
type Command struct {
	Rest string
}

// FileSearch is the "file <term>" intent, detected on the raw query so alias
// resolution cannot hide it.
type FileSearch struct {
	Term string
}

// URL holds a normalized open target; bare domains get an https:// scheme.
type URL struct {
	Raw        string
	Normalized string
}

// Clipboard optionally narrows clipboard recall with a sub-query.
type Clipboard struct {
	SubQuery string
}

// Set is the outcome of one detection pass. Calculation is the post-veto
// value; the raw regex verdict is kept separately for tests.
type Set struct {
	Command        *Command
	FileSearch     *FileSearch
	URL            *URL
	Settings       bool
	Clipboard      *Clipboard
	Calculation    bool
	CalculationRaw bool
	Features       []string
}

type queryCtx struct {
	raw      string
	resolved string
	lower    string // trimmed, lowercased resolved query
}

type rule struct {
	name  string
	apply func(*queryCtx, *Set)
}

// The detection order and the veto policy live here, in one place. Each rule
// is a cheap independent test; gating happens in finalize.
var rules = []rule{
	{"command", detectCommand},
	{"file-search", detectFileSearch},
	{"url", detectURL},
	{"settings", detectSettings},
	{"clipboard", detectClipboard},
	{"calculation", detectCalculation},
	{"features", detectFeatures},
}

// Detect classifies a query. rawQuery is the text as typed; resolvedQuery is
// the alias-substituted form every rule except file-search sees.
func Detect(rawQuery, resolvedQuery string) Set {
	q := &queryCtx{
		raw:      strings.TrimSpace(rawQuery),
		resolved: strings.TrimSpace(resolvedQuery),
		lower:    strings.ToLower(strings.TrimSpace(resolvedQuery)),
	}
	var s Set
	for _, r := range rules {
		r.apply(q, &s)
	}
	finalize(&s)
	return s
}

// a file path or URL can coincidentally look like arithmetic, so both veto
// the calculator
func finalize(s *Set) {
	s.Calculation = s.CalculationRaw && s.FileSearch == nil && s.URL == nil
}

var commandRe = regexp.MustCompile(`^>\s*(.*)$`)

func detectCommand(q *queryCtx, s *Set) {
	if m := commandRe.FindStringSubmatch(q.resolved); m != nil {
		s.Command = &Command{Rest: strings.TrimSpace(m[1])}
	}
}

var fileSearchRe = regexp.MustCompile(`^file\s+(.+)$`)

func detectFileSearch(q *queryCtx, s *Set) {
	// raw query on purpose: aliases must not swallow an explicit file search
	if m := fileSearchRe.FindStringSubmatch(strings.ToLower(q.raw)); m != nil {
		s.FileSearch = &FileSearch{Term: strings.TrimSpace(m[1])}
	}
}

var (
	schemeRe = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://\S+$`)
	domainRe = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*\.[a-zA-Z]{2,}(:\d+)?$`)
)

func detectURL(q *queryCtx, s *Set) {
	if q.lower == "" || strings.ContainsAny(q.lower, " \t") {
		return
	}
	if schemeRe.MatchString(q.lower) {
		s.URL = &URL{Raw: q.resolved, Normalized: q.resolved}
		return
	}
	// bare domain: label(.label)+ with a TLD of 2+ letters, no slashes
	if strings.Contains(q.resolved, "/") {
		return
	}
	if domainRe.MatchString(q.resolved) {
		s.URL = &URL{Raw: q.resolved, Normalized: "https://" + q.resolved}
	}
}

var settingsKeywords = map[string]bool{
	"settings":    true,
	"setting":     true,
	"preferences": true,
	"options":     true,
	"设置":          true,
}

func detectSettings(q *queryCtx, s *Set) {
	s.Settings = settingsKeywords[q.lower]
}

var clipboardRe = regexp.MustCompile(`^(clip|clipboard|剪贴板|cb)(\s+(.+))?$`)

func detectClipboard(q *queryCtx, s *Set) {
	if m := clipboardRe.FindStringSubmatch(q.lower); m != nil {
		s.Clipboard = &Clipboard{SubQuery: strings.TrimSpace(m[3])}
	}
}

// Deliberately permissive: feature resolvers get first refusal before the
// calculator ever sees the query.
var calcRes = []*regexp.Regexp{
	regexp.MustCompile(`^\s*[-(]?\s*\d[\d\s()+\-*/%^.!,]*$`),
	regexp.MustCompile(`\d\s*[+\-*/%^]\s*[\d(]`),
	regexp.MustCompile(`\b(sqrt|cbrt|sin|cos|tan|sinh|cosh|tanh|log|ln|abs|pow|floor|ceil|round|min|max|factorial)\s*\(`),
	regexp.MustCompile(`^\s*\([\d\s()+\-*/%^.!,]+\)\s*$`),
	regexp.MustCompile(`\b(pi|e)\b\s*[+\-*/%^]`),
}

func detectCalculation(q *queryCtx, s *Set) {
	if q.lower == "" {
		return
	}
	for _, re := range calcRes {
		if re.MatchString(q.lower) {
			s.CalculationRaw = true
			return
		}
	}
}

// featureKeywords drive live completion before the full command is typed.
// The matcher tolerates partial prefixes ("upper" hits "uppercase").
var featureKeywords = map[string][]string{
	"encode":    {"md5", "sha1", "sha256", "base64", "unbase64", "urlencode", "urldecode", "hex", "unhex", "encode", "decode", "hash"},
	"string":    {"upper", "uppercase", "lower", "lowercase", "capitalize", "reverse", "length", "trim", "camel", "snake", "kebab"},
	"time":      {"time", "now", "timestamp", "date", "today"},
	"random":    {"random", "uuid", "password"},
	"translate": {"translate", "fy", "翻译"},
	"varname":   {"varname", "变量名"},
	"todo":      {"todo"},
	"ip":        {"ip", "myip"},
}

// fixed evaluation order so Features is deterministic
var featureOrder = []string{"encode", "string", "time", "random", "translate", "varname", "todo", "ip"}

func detectFeatures(q *queryCtx, s *Set) {
	tok := q.lower
	if i := strings.IndexAny(tok, " \t"); i >= 0 {
		tok = tok[:i]
	}
	if tok == "" {
		return
	}
	for _, name := range featureOrder {
		for _, kw := range featureKeywords[name] {
			if keywordMatches(tok, kw) {
				s.Features = append(s.Features, name)
				break
			}
		}
	}
}

func keywordMatches(tok, kw string) bool {
	if tok == kw {
		return true
	}
	if len(tok) >= 2 && strings.HasPrefix(kw, tok) {
		return true
	}
	return strings.HasPrefix(tok, kw) && len(kw) >= 3
}
