package feature

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TranslateResolver handles "fy <text>" / "translate <text>" through the
// unofficial Google Translate endpoint. Network failures surface as error
// outcomes, not fallthrough.
type TranslateResolver struct {
	client     *http.Client
	endpoint   string
	targetLang string
}

func NewTranslateResolver(targetLang string) *TranslateResolver {
	if targetLang == "" {
		targetLang = "en"
	}
	return &TranslateResolver{
		client:     &http.Client{Timeout: 5 * time.Second},
		endpoint:   "https://translate.googleapis.com/translate_a/single",
		targetLang: targetLang,
	}
}

// WithEndpoint overrides the API endpoint, for tests.
func (t *TranslateResolver) WithEndpoint(endpoint string, client *http.Client) *TranslateResolver {
	t.endpoint = endpoint
	if client != nil {
		t.client = client
	}
	return t
}

func (t *TranslateResolver) Name() string { return "translate" }

func (t *TranslateResolver) HandleQuery(query string) *Outcome {
	op, arg, found := splitCommand(query)
	if !found {
		return nil
	}
	if op != "fy" && op != "translate" && op != "翻译" {
		return nil
	}
	if arg == "" {
		return fail(query, "usage: translate <text>")
	}
	apiURL := t.endpoint + "?client=gtx&sl=auto&tl=" + t.targetLang + "&dt=t&q=" + url.QueryEscape(arg)
	resp, err := t.client.Get(apiURL)
	if err != nil {
		return fail(query, "translation request failed: "+err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return fail(query, "unexpected translation response")
	}

	// response shape: [[[ "translated", "original", … ]], …]
	translated := ""
	if arr, okk := data.([]any); okk && len(arr) > 0 {
		if inner, okk := arr[0].([]any); okk {
			for _, segment := range inner {
				if segArr, okk := segment.([]any); okk && len(segArr) > 0 {
					if s, okk := segArr[0].(string); okk {
						translated += s
					}
				}
			}
		}
	}
	if strings.TrimSpace(translated) == "" {
		return fail(query, "no translation found")
	}
	return ok(query, translated)
}

func (t *TranslateResolver) Complete(partial string) []Suggestion {
	return filterSuggestions(translateFormats, partial)
}

func (t *TranslateResolver) Help() *Help {
	return &Help{
		Title:       "Translate",
		Description: "Translate text (auto-detected source language)",
		Formats:     translateFormats,
	}
}

var translateFormats = []Suggestion{
	{Format: "translate <text>", Description: "Translate to the configured language", Example: "translate bonjour"},
	{Format: "fy <text>", Description: "Shorthand for translate", Example: "fy hola"},
}
