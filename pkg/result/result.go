package result

import "strings"

// Kind discriminates the typed payload a SearchResult may carry. The UI and
// the ranker switch on it instead of probing optional fields.
type Kind string

const (
	KindApp       Kind = "app"
	KindFile      Kind = "file"
	KindBookmark  Kind = "bookmark"
	KindBrowser   Kind = "browser"
	KindCommand   Kind = "command"
	KindConfig    Kind = "config"
	KindClipboard Kind = "clipboard"
	KindWeb       Kind = "web"
	KindFeature   Kind = "feature"
	KindCalc      Kind = "calc"
)

// FeaturePayload carries the outcome of an inline utility (encode, string
// tools, time, todo, calc...). Success=false still renders as a visible
// result with Err as its message.
type FeaturePayload struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Success bool   `json:"success"`
	Err     string `json:"error,omitempty"`
}

// SearchResult is the unified shape every source projects into before
// ranking. Action is a colon-namespaced instruction the host executes
// without re-resolving (e.g. "app:firefox", "bookmark:https://…").
type SearchResult struct {
	ID            string          `json:"id"`
	Kind          Kind            `json:"type"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Icon          string          `json:"icon,omitempty"`
	Action        string          `json:"action"`
	Score         float64         `json:"score"`
	PriorityScore float64         `json:"priorityScore,omitempty"`
	Payload       *FeaturePayload `json:"payload,omitempty"`
}

// Action verbs. The grammar "<verb>:<payload...>" is the only contract the
// UI layer depends on, so the set is fixed here.
const (
	VerbApp       = "app"
	VerbFile      = "file"
	VerbWeb       = "web"
	VerbBrowser   = "browser"
	VerbCommand   = "command"
	VerbBookmark  = "bookmark"
	VerbSettings  = "settings"
	VerbClipboard = "clipboard"
	VerbFeature   = "feature"
	VerbTime      = "time"
	VerbEncode    = "encode"
	VerbString    = "string"
	VerbCalc      = "calc"
	VerbRandom    = "random"
	VerbTranslate = "translate"
	VerbVarname   = "varname"
	VerbTodo      = "todo"
	VerbIP        = "ip"
)

// Action joins a verb and payload parts into an action string.
func Action(verb string, parts ...string) string {
	if len(parts) == 0 {
		return verb
	}
	return verb + ":" + strings.Join(parts, ":")
}

// ActionVerb returns the verb prefix of an action string.
func ActionVerb(action string) string {
	if i := strings.Index(action, ":"); i >= 0 {
		return action[:i]
	}
	return action
}
