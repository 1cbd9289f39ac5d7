package launcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/lidayx/lumina-sub000/pkg/bookmark"
	"github.com/lidayx/lumina-sub000/pkg/feature"
	"github.com/lidayx/lumina-sub000/pkg/intent"
	"github.com/lidayx/lumina-sub000/pkg/result"
)

const bookmarkResultCap = 20

// Deps collects the orchestrator's collaborators. Nil entries disable the
// corresponding source instead of crashing the fan-out.
type Deps struct {
	Alias     AliasResolver
	Registry  *feature.Registry
	Apps      AppSearcher
	Bookmarks BookmarkSearcher
	Files     FileSearcher
	Web       WebSearcher
	Clipboard ClipboardService
	Commands  CommandService
	Browsers  []bookmark.BrowserConfig
	Bands     result.Bands
}

// Orchestrator runs one resolution pass per debounced query: intent
// detection, conditional parallel fan-out, band mapping, then the ranker.
type Orchestrator struct {
	deps   Deps
	logger zerolog.Logger
}

func NewOrchestrator(deps Deps, logger zerolog.Logger) *Orchestrator {
	if deps.Bands == (result.Bands{}) {
		deps.Bands = result.DefaultBands()
	}
	return &Orchestrator{
		deps:   deps,
		logger: logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Resolve turns one query into a ranked result list.
func (o *Orchestrator) Resolve(ctx context.Context, rawQuery string) []result.SearchResult {
	raw := strings.TrimSpace(rawQuery)
	if raw == "" {
		return nil
	}
	resolved := raw
	if o.deps.Alias != nil {
		if r, ok := o.deps.Alias.Resolve(rawQuery); ok {
			resolved = strings.TrimSpace(r)
		}
	}
	in := intent.Detect(rawQuery, resolved)

	// command mode is a hard early return, not a priority ordering
	if in.Command != nil {
		return o.commandMode(in.Command.Rest)
	}

	var (
		featureRes  []result.SearchResult
		hintRes     []result.SearchResult
		browserRes  []result.SearchResult
		settingsRes []result.SearchResult
		appRes      []result.SearchResult
		fileRes     []result.SearchResult
		bmRes       []result.SearchResult
		cmdRes      []result.SearchResult
		clipRes     []result.SearchResult
		webRes      []result.SearchResult
		answered    bool
	)

	var wg conc.WaitGroup
	run := func(name string, fn func()) {
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error().Str("source", name).Any("panic", r).Msg("search source failed")
				}
			}()
			fn()
		})
	}

	run("features", func() {
		featureRes, hintRes, answered = o.resolveFeatures(resolved, in)
	})
	if in.Settings {
		settingsRes = []result.SearchResult{{
			ID:            "settings-open",
			Kind:          result.KindConfig,
			Title:         "Open Settings",
			Description:   "Launcher preferences",
			Action:        result.Action(result.VerbSettings, "open"),
			PriorityScore: o.deps.Bands.SettingsOpen,
		}}
	}
	if in.URL != nil {
		browserRes = o.browserChoices(in.URL.Normalized)
	}
	if o.deps.Apps != nil {
		run("apps", func() { appRes = o.searchApps(resolved) })
	}
	if in.FileSearch != nil && o.deps.Files != nil {
		term := in.FileSearch.Term
		run("files", func() { fileRes = o.searchFiles(ctx, term) })
	}
	if o.deps.Bookmarks != nil {
		run("bookmarks", func() { bmRes = o.searchBookmarks(resolved) })
	}
	if o.deps.Commands != nil {
		run("commands", func() { cmdRes = o.searchCommands(resolved) })
	}
	if in.Clipboard != nil && o.deps.Clipboard != nil {
		sub := in.Clipboard.SubQuery
		run("clipboard", func() { clipRes = o.searchClipboard(ctx, sub) })
	}
	if in.FileSearch == nil && in.URL == nil && o.deps.Web != nil {
		run("web", func() { webRes = o.searchWeb(ctx, resolved) })
	}
	wg.Wait()

	out := make([]result.SearchResult, 0,
		len(featureRes)+len(hintRes)+len(browserRes)+len(settingsRes)+
			len(appRes)+len(fileRes)+len(bmRes)+len(cmdRes)+len(clipRes)+len(webRes))
	out = append(out, featureRes...)
	out = append(out, hintRes...)
	out = append(out, settingsRes...)
	out = append(out, clipRes...)
	out = append(out, browserRes...)
	out = append(out, cmdRes...)
	out = append(out, appRes...)
	out = append(out, fileRes...)
	out = append(out, bmRes...)
	// web fallback only when nothing concrete answered and the primary
	// sources came back empty
	if !answered && len(appRes) == 0 && len(fileRes) == 0 {
		out = append(out, webRes...)
	}
	return result.Sort(out, resolved)
}

// resolveFeatures runs the resolver chain, the gated calculator, and the
// completion hints. answered reports whether any concrete outcome (success or
// error, calculator included) exists for this query.
func (o *Orchestrator) resolveFeatures(resolved string, in intent.Set) (concrete, hints []result.SearchResult, answered bool) {
	if o.deps.Registry == nil {
		return nil, nil, false
	}
	res, out := o.deps.Registry.Dispatch(resolved, in.Calculation)
	answeredBy := ""
	if out != nil {
		answeredBy = res.Name()
		concrete = o.featureResults(res.Name(), out)
		answered = true
	} else if in.Calculation {
		if calcOut := o.deps.Registry.Calculate(resolved); calcOut != nil {
			concrete = o.calcResults(calcOut)
			answered = true
		}
	}
	// a concrete outcome from a resolver suppresses that resolver's own
	// usage hints; showing both at once is noise. Hints come out in chain
	// order so repeated passes over the same query render identically.
	comps := o.deps.Registry.Completions(resolved, in.Features)
	for _, r := range o.deps.Registry.Resolvers() {
		name := r.Name()
		suggs, ok := comps[name]
		if !ok || name == answeredBy {
			continue
		}
		for i, sg := range suggs {
			hints = append(hints, result.SearchResult{
				ID:            fmt.Sprintf("hint-%s-%d", name, i),
				Kind:          result.KindFeature,
				Title:         sg.Format,
				Description:   strings.TrimSpace(sg.Description + "  e.g. " + sg.Example),
				Action:        result.Action(result.VerbFeature, "hint", name),
				Score:         float64(100 - i),
				PriorityScore: o.deps.Bands.FeatureHelp,
			})
		}
	}
	return concrete, hints, answered
}

// verb per resolver name; the action grammar is the UI contract.
var featureVerbs = map[string]string{
	"encode":    result.VerbEncode,
	"string":    result.VerbString,
	"time":      result.VerbTime,
	"random":    result.VerbRandom,
	"translate": result.VerbTranslate,
	"varname":   result.VerbVarname,
	"todo":      result.VerbTodo,
	"ip":        result.VerbIP,
}

func (o *Orchestrator) featureResults(name string, out *feature.Outcome) []result.SearchResult {
	verb, ok := featureVerbs[name]
	if !ok {
		verb = result.VerbFeature
	}
	if !out.Success {
		return []result.SearchResult{{
			ID:            "feature-" + name + "-error",
			Kind:          result.KindFeature,
			Title:         out.Err,
			Description:   out.Input,
			Action:        result.Action(verb, "copy"),
			PriorityScore: o.deps.Bands.FeatureError,
			Payload:       &result.FeaturePayload{Input: out.Input, Success: false, Err: out.Err},
		}}
	}
	band := o.deps.Bands.FeatureSuccess
	// varname claims bare word phrases, so its successes rank below
	// clipboard recall and other feature output
	if name == "varname" {
		band = o.deps.Bands.VarnameSuccess
	}
	// multi-line outputs fan out into one result per line, primary first
	lines := strings.Split(out.Output, "\n")
	results := make([]result.SearchResult, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		results = append(results, result.SearchResult{
			ID:            fmt.Sprintf("feature-%s-%d", name, i),
			Kind:          result.KindFeature,
			Title:         line,
			Description:   out.Input,
			Action:        result.Action(verb, "copy"),
			Score:         float64(100 - i),
			PriorityScore: band,
			Payload:       &result.FeaturePayload{Input: out.Input, Output: line, Success: true},
		})
	}
	return results
}

func (o *Orchestrator) calcResults(out *feature.Outcome) []result.SearchResult {
	if !out.Success {
		return []result.SearchResult{{
			ID:            "calc-error",
			Kind:          result.KindCalc,
			Title:         out.Err,
			Description:   out.Input,
			Action:        result.Action(result.VerbCalc, "copy"),
			PriorityScore: o.deps.Bands.FeatureError,
			Payload:       &result.FeaturePayload{Input: out.Input, Success: false, Err: out.Err},
		}}
	}
	return []result.SearchResult{{
		ID:            "calc-result",
		Kind:          result.KindCalc,
		Title:         out.Output,
		Description:   out.Input + " =",
		Action:        result.Action(result.VerbCalc, "copy"),
		PriorityScore: o.deps.Bands.Calculator,
		Payload:       &result.FeaturePayload{Input: out.Input, Output: out.Output, Success: true},
	}}
}

// browserChoices builds one open action per configured browser, default
// first. With no browsers configured the system handler stands in.
func (o *Orchestrator) browserChoices(url string) []result.SearchResult {
	browsers := bookmark.NormalizeBrowsers(o.deps.Browsers)
	if len(browsers) == 0 {
		browsers = []bookmark.BrowserConfig{{ID: "system", Name: "Default Browser", IsDefault: true}}
	}
	out := make([]result.SearchResult, 0, len(browsers))
	for i, b := range browsers {
		band := o.deps.Bands.BrowserChoice
		if b.IsDefault {
			band = o.deps.Bands.BrowserDefault
		}
		out = append(out, result.SearchResult{
			ID:            "browser-" + b.ID,
			Kind:          result.KindBrowser,
			Title:         "Open in " + b.Name,
			Description:   url,
			Icon:          b.Icon,
			Action:        result.Action(result.VerbBrowser, b.ID, url),
			Score:         float64(100 - i),
			PriorityScore: band,
		})
	}
	return out
}

func (o *Orchestrator) searchApps(query string) []result.SearchResult {
	scored := o.deps.Apps.SearchAppsScored(query)
	out := make([]result.SearchResult, 0, len(scored))
	for _, sa := range scored {
		out = append(out, result.SearchResult{
			ID:            "app-" + sa.App.ID,
			Kind:          result.KindApp,
			Title:         sa.App.Name,
			Description:   sa.App.Path,
			Icon:          sa.App.Icon,
			Action:        result.Action(result.VerbApp, sa.App.ID),
			Score:         float64(sa.Score),
			PriorityScore: o.deps.Bands.App,
		})
	}
	return out
}

func (o *Orchestrator) searchFiles(ctx context.Context, term string) []result.SearchResult {
	hits := o.deps.Files.Search(ctx, term)
	out := make([]result.SearchResult, 0, len(hits))
	for i, h := range hits {
		out = append(out, result.SearchResult{
			ID:            fmt.Sprintf("file-%d", i),
			Kind:          result.KindFile,
			Title:         h.Name,
			Description:   h.Path,
			Action:        result.Action(result.VerbFile, h.Path),
			Score:         float64(100 - i),
			PriorityScore: o.deps.Bands.File,
		})
	}
	return out
}

func (o *Orchestrator) searchBookmarks(query string) []result.SearchResult {
	bms := o.deps.Bookmarks.SearchBookmarks(query, bookmarkResultCap)
	out := make([]result.SearchResult, 0, len(bms))
	for _, b := range bms {
		out = append(out, result.SearchResult{
			ID:            b.ID,
			Kind:          result.KindBookmark,
			Title:         b.Name,
			Description:   b.URL,
			Icon:          b.Icon,
			Action:        result.Action(result.VerbBookmark, b.URL),
			Score:         b.Score,
			PriorityScore: o.deps.Bands.Bookmark,
		})
	}
	return out
}

func (o *Orchestrator) searchCommands(query string) []result.SearchResult {
	cmds := o.deps.Commands.Search(query)
	out := make([]result.SearchResult, 0, len(cmds))
	for i, c := range cmds {
		out = append(out, result.SearchResult{
			ID:            "cmd-" + c.ID,
			Kind:          result.KindCommand,
			Title:         c.Name,
			Description:   c.Description,
			Action:        result.Action(result.VerbCommand, "execute", c.ID),
			Score:         float64(100 - i),
			PriorityScore: o.deps.Bands.DiscoveredCommand,
		})
	}
	return out
}

func (o *Orchestrator) searchClipboard(ctx context.Context, sub string) []result.SearchResult {
	entries := o.deps.Clipboard.Search(ctx, sub)
	out := make([]result.SearchResult, 0, len(entries))
	for i, e := range entries {
		out = append(out, result.SearchResult{
			ID:            "clip-" + e.ID,
			Kind:          result.KindClipboard,
			Title:         e.Preview,
			Description:   "Copy to clipboard",
			Action:        result.Action(result.VerbClipboard, "copy", e.ID),
			Score:         float64(100 - i),
			PriorityScore: o.deps.Bands.Clipboard,
		})
	}
	return out
}

func (o *Orchestrator) searchWeb(ctx context.Context, query string) []result.SearchResult {
	hits := o.deps.Web.Search(ctx, query)
	out := make([]result.SearchResult, 0, len(hits))
	for i, h := range hits {
		out = append(out, result.SearchResult{
			ID:            fmt.Sprintf("web-%d", i),
			Kind:          result.KindWeb,
			Title:         h.Title,
			Description:   h.URL,
			Action:        result.Action(result.VerbWeb, h.URL),
			Score:         float64(100 - i),
			PriorityScore: o.deps.Bands.WebFallback,
		})
	}
	return out
}

// commandMode serves ">" queries: the built-in catalog filtered by the rest
// of the line, plus per-feature help entries. Nothing else runs.
func (o *Orchestrator) commandMode(rest string) []result.SearchResult {
	var out []result.SearchResult
	if o.deps.Commands != nil {
		for i, c := range o.deps.Commands.Catalog(rest) {
			out = append(out, result.SearchResult{
				ID:            "cmd-" + c.ID,
				Kind:          result.KindCommand,
				Title:         c.Name,
				Description:   c.Description,
				Action:        result.Action(result.VerbCommand, "execute", c.ID),
				Score:         float64(200 - i),
				PriorityScore: o.deps.Bands.CommandItem,
			})
		}
	}
	if o.deps.Registry != nil {
		lower := strings.ToLower(strings.TrimSpace(rest))
		for i, res := range o.deps.Registry.Resolvers() {
			help := res.Help()
			if help == nil {
				continue
			}
			if lower != "" && !strings.Contains(res.Name(), lower) &&
				!strings.Contains(strings.ToLower(help.Title), lower) {
				continue
			}
			out = append(out, result.SearchResult{
				ID:            "cmdhelp-" + res.Name(),
				Kind:          result.KindCommand,
				Title:         help.Title,
				Description:   help.Description,
				Action:        result.Action(result.VerbCommand, "help", res.Name()),
				Score:         float64(100 - i),
				PriorityScore: o.deps.Bands.CommandItem,
			})
		}
	}
	return result.Sort(out, rest)
}
