package feature

import "strings"

// VarnameResolver turns a phrase into identifier candidates, one per line:
// camelCase first, then PascalCase, snake_case, CONSTANT_CASE, kebab-case.
// It sits last in the chain and only fires on an explicit "varname" command
// or a multi-word alphabetic phrase nothing else claimed.
type VarnameResolver struct{}

func NewVarnameResolver() *VarnameResolver { return &VarnameResolver{} }

func (v *VarnameResolver) Name() string { return "varname" }

func (v *VarnameResolver) HandleQuery(query string) *Outcome {
	op, arg, found := splitCommand(query)
	if !found {
		return nil
	}
	phrase := ""
	switch {
	case op == "varname" || op == "变量名":
		if arg == "" {
			return fail(query, "usage: varname <words>")
		}
		phrase = arg
	case arg != "" && isAlphaPhrase(query):
		phrase = strings.TrimSpace(query)
	default:
		return nil
	}
	lines := []string{
		toCamel(phrase),
		toPascal(phrase),
		toSnake(phrase),
		strings.ToUpper(toSnake(phrase)),
		toKebab(phrase),
	}
	return ok(query, strings.Join(lines, "\n"))
}

func isAlphaPhrase(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 6 {
		return false
	}
	for _, w := range words {
		for _, r := range w {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				return false
			}
		}
	}
	return true
}

func (v *VarnameResolver) Complete(partial string) []Suggestion {
	return filterSuggestions(varnameFormats, partial)
}

func (v *VarnameResolver) Help() *Help {
	return &Help{
		Title:       "Variable names",
		Description: "Generate identifier candidates from a phrase",
		Formats:     varnameFormats,
	}
}

var varnameFormats = []Suggestion{
	{Format: "varname <words>", Description: "camelCase, PascalCase, snake_case…", Example: "varname user login count"},
}
