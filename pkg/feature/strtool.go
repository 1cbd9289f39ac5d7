package feature

import (
	"strconv"
	"strings"
	"unicode"
)

// StringResolver handles case conversion and small string utilities.
type StringResolver struct{}

func NewStringResolver() *StringResolver { return &StringResolver{} }

func (s *StringResolver) Name() string { return "string" }

func (s *StringResolver) HandleQuery(query string) *Outcome {
	op, arg, found := splitCommand(query)
	if !found {
		return nil
	}
	apply := func(fn func(string) string) *Outcome {
		if arg == "" {
			return fail(query, "usage: "+op+" <text>")
		}
		return ok(query, fn(arg))
	}
	switch op {
	case "upper", "uppercase":
		return apply(strings.ToUpper)
	case "lower", "lowercase":
		return apply(strings.ToLower)
	case "capitalize":
		return apply(capitalizeWords)
	case "reverse":
		return apply(reverseString)
	case "trim":
		return apply(strings.TrimSpace)
	case "length":
		if arg == "" {
			return fail(query, "usage: length <text>")
		}
		return ok(query, strconv.Itoa(len([]rune(arg))))
	case "camel":
		return apply(toCamel)
	case "snake":
		return apply(toSnake)
	case "kebab":
		return apply(toKebab)
	}
	return nil
}

func (s *StringResolver) Complete(partial string) []Suggestion {
	return filterSuggestions(stringFormats, partial)
}

func (s *StringResolver) Help() *Help {
	return &Help{
		Title:       "String tools",
		Description: "Transform text inline",
		Formats:     stringFormats,
	}
}

var stringFormats = []Suggestion{
	{Format: "upper <text>", Description: "UPPERCASE", Example: "upper hello"},
	{Format: "lower <text>", Description: "lowercase", Example: "lower HELLO"},
	{Format: "capitalize <text>", Description: "Capitalize Each Word", Example: "capitalize hello world"},
	{Format: "reverse <text>", Description: "Reverse characters", Example: "reverse abc"},
	{Format: "trim <text>", Description: "Strip surrounding whitespace", Example: "trim  x "},
	{Format: "length <text>", Description: "Character count", Example: "length hello"},
	{Format: "camel <words>", Description: "camelCase", Example: "camel user name"},
	{Format: "snake <words>", Description: "snake_case", Example: "snake user name"},
	{Format: "kebab <words>", Description: "kebab-case", Example: "kebab user name"},
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func splitWords(s string) []string {
	// accept spaces, underscores and dashes as separators
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '\t'
	})
}

func toCamel(s string) string {
	words := splitWords(strings.ToLower(s))
	if len(words) == 0 {
		return ""
	}
	out := words[0]
	for _, w := range words[1:] {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		out += string(r)
	}
	return out
}

func toPascal(s string) string {
	words := splitWords(strings.ToLower(s))
	out := ""
	for _, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		out += string(r)
	}
	return out
}

func toSnake(s string) string {
	return strings.Join(splitWords(strings.ToLower(s)), "_")
}

func toKebab(s string) string {
	return strings.Join(splitWords(strings.ToLower(s)), "-")
}
