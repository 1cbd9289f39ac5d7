package feature

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeResolver answers time/date queries. Output is multi-line, one line per
// calendar format, primary suggestion first; callers split it into individual
// ranked results.
type TimeResolver struct {
	now func() time.Time
}

func NewTimeResolver() *TimeResolver {
	return &TimeResolver{now: time.Now}
}

func (t *TimeResolver) Name() string { return "time" }

func (t *TimeResolver) HandleQuery(query string) *Outcome {
	op, arg, found := splitCommand(query)
	if !found {
		return nil
	}
	switch op {
	case "time", "now", "date", "today":
		if arg != "" && op != "time" {
			return nil
		}
		if op == "time" && arg != "" {
			// "time <unix>" converts a timestamp
			return t.convert(query, arg)
		}
		return ok(query, t.formats(t.now()))
	case "timestamp":
		if arg == "" {
			return ok(query, strconv.FormatInt(t.now().Unix(), 10))
		}
		return t.convert(query, arg)
	}
	return nil
}

func (t *TimeResolver) convert(query, arg string) *Outcome {
	n, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return fail(query, "not a unix timestamp: "+arg)
	}
	// tolerate millisecond timestamps
	if n > 1e12 {
		n /= 1000
	}
	return ok(query, t.formats(time.Unix(n, 0)))
}

func (t *TimeResolver) formats(at time.Time) string {
	lines := []string{
		at.Local().Format("2006-01-02 15:04:05"),
		strconv.FormatInt(at.Unix(), 10),
		at.UTC().Format(time.RFC3339),
		at.Local().Format("Monday, January 2, 2006"),
	}
	return strings.Join(lines, "\n")
}

func (t *TimeResolver) Complete(partial string) []Suggestion {
	return filterSuggestions(timeFormats, partial)
}

func (t *TimeResolver) Help() *Help {
	return &Help{
		Title:       "Time & date",
		Description: "Current time, unix timestamps and conversions",
		Formats:     timeFormats,
	}
}

var timeFormats = []Suggestion{
	{Format: "time", Description: "Current time in several formats", Example: "time"},
	{Format: "time <unix>", Description: "Convert a unix timestamp", Example: fmt.Sprintf("time %d", 1700000000)},
	{Format: "timestamp", Description: "Current unix timestamp", Example: "timestamp"},
	{Format: "now", Description: "Current time", Example: "now"},
}
