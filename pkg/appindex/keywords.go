package appindex

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// BuildKeywords precomputes the lowercase search keys for an app name: the
// raw name, an alnum-only form, a word-initials acronym, and for names with
// Han characters the full pinyin plus pinyin initials. This is the expensive
// part of matching and is cached per id, invalidated only on re-index.
func BuildKeywords(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return nil
	}
	seen := map[string]bool{}
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	add(lower)
	add(alnumOnly(lower))
	add(wordInitials(lower))

	if containsHan(name) {
		full, initials := pinyinForms(name)
		add(full)
		add(initials)
	}
	return keys
}

func joinKeywords(keys []string) string {
	return strings.Join(keys, ",")
}

func splitKeywords(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func alnumOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func wordInitials(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) < 2 {
		return ""
	}
	var b strings.Builder
	for _, w := range words {
		r := []rune(w)
		b.WriteRune(r[0])
	}
	return b.String()
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// pinyinForms transliterates Han runes and passes everything else through,
// yielding a full romanization ("weixin") and an initials key ("wx").
func pinyinForms(name string) (full string, initials string) {
	args := pinyin.NewArgs()
	var fb, ib strings.Builder
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			syls := pinyin.SinglePinyin(r, args)
			if len(syls) > 0 {
				fb.WriteString(syls[0])
				ib.WriteString(syls[0][:1])
			}
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			lr := unicode.ToLower(r)
			fb.WriteRune(lr)
			ib.WriteRune(lr)
		}
	}
	full = fb.String()
	initials = ib.String()
	if full == initials {
		initials = ""
	}
	return full, initials
}
