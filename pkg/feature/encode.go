package feature

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// EncodeResolver handles hashing and encoding commands: md5/sha1/sha256,
// base64, url and hex encode/decode.
type EncodeResolver struct{}

func NewEncodeResolver() *EncodeResolver { return &EncodeResolver{} }

func (e *EncodeResolver) Name() string { return "encode" }

func (e *EncodeResolver) HandleQuery(query string) *Outcome {
	op, arg, found := splitCommand(query)
	if !found {
		return nil
	}
	switch op {
	case "md5":
		if arg == "" {
			return fail(query, "usage: md5 <text>")
		}
		return ok(query, fmt.Sprintf("%x", md5.Sum([]byte(arg))))
	case "sha1":
		if arg == "" {
			return fail(query, "usage: sha1 <text>")
		}
		return ok(query, fmt.Sprintf("%x", sha1.Sum([]byte(arg))))
	case "sha256":
		if arg == "" {
			return fail(query, "usage: sha256 <text>")
		}
		return ok(query, fmt.Sprintf("%x", sha256.Sum256([]byte(arg))))
	case "base64":
		if arg == "" {
			return fail(query, "usage: base64 <text>")
		}
		return ok(query, base64.StdEncoding.EncodeToString([]byte(arg)))
	case "unbase64":
		if arg == "" {
			return fail(query, "usage: unbase64 <text>")
		}
		dec, err := base64.StdEncoding.DecodeString(arg)
		if err != nil {
			return fail(query, "not valid base64: "+err.Error())
		}
		return ok(query, string(dec))
	case "urlencode":
		if arg == "" {
			return fail(query, "usage: urlencode <text>")
		}
		return ok(query, url.QueryEscape(arg))
	case "urldecode":
		if arg == "" {
			return fail(query, "usage: urldecode <text>")
		}
		dec, err := url.QueryUnescape(arg)
		if err != nil {
			return fail(query, "not valid url encoding: "+err.Error())
		}
		return ok(query, dec)
	case "hex":
		if arg == "" {
			return fail(query, "usage: hex <text>")
		}
		return ok(query, hex.EncodeToString([]byte(arg)))
	case "unhex":
		if arg == "" {
			return fail(query, "usage: unhex <text>")
		}
		dec, err := hex.DecodeString(arg)
		if err != nil {
			return fail(query, "not valid hex: "+err.Error())
		}
		return ok(query, string(dec))
	}
	return nil
}

func (e *EncodeResolver) Complete(partial string) []Suggestion {
	return filterSuggestions(encodeFormats, partial)
}

func (e *EncodeResolver) Help() *Help {
	return &Help{
		Title:       "Encode / Decode",
		Description: "Hash and encode text inline",
		Formats:     encodeFormats,
	}
}

var encodeFormats = []Suggestion{
	{Format: "md5 <text>", Description: "MD5 hex digest", Example: "md5 hello"},
	{Format: "sha1 <text>", Description: "SHA-1 hex digest", Example: "sha1 hello"},
	{Format: "sha256 <text>", Description: "SHA-256 hex digest", Example: "sha256 hello"},
	{Format: "base64 <text>", Description: "Base64 encode", Example: "base64 hello"},
	{Format: "unbase64 <text>", Description: "Base64 decode", Example: "unbase64 aGVsbG8="},
	{Format: "urlencode <text>", Description: "URL escape", Example: "urlencode a b&c"},
	{Format: "urldecode <text>", Description: "URL unescape", Example: "urldecode a%20b"},
	{Format: "hex <text>", Description: "Hex encode", Example: "hex hello"},
	{Format: "unhex <text>", Description: "Hex decode", Example: "unhex 68656c6c6f"},
}

// splitCommand splits "<op> <rest>" with a lowercased op. found is false when
// the query is empty.
func splitCommand(query string) (op, arg string, found bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", "", false
	}
	if i := strings.IndexAny(q, " \t"); i >= 0 {
		return strings.ToLower(q[:i]), strings.TrimSpace(q[i:]), true
	}
	return strings.ToLower(q), "", true
}

// filterSuggestions keeps formats whose first word starts with the partial's
// first word; an empty partial keeps everything.
func filterSuggestions(all []Suggestion, partial string) []Suggestion {
	tok, _, found := splitCommand(partial)
	if !found {
		return all
	}
	var out []Suggestion
	for _, s := range all {
		head := s.Format
		if i := strings.IndexAny(head, " \t"); i >= 0 {
			head = head[:i]
		}
		if strings.HasPrefix(strings.ToLower(head), tok) || strings.HasPrefix(tok, strings.ToLower(head)) {
			out = append(out, s)
		}
	}
	return out
}
