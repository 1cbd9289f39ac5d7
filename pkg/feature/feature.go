package feature

// Outcome is the result of a resolver taking a query. A nil *Outcome from
// HandleQuery means "not my query"; Success=false means the resolver
// recognized the query but the input was invalid, and no other resolver may
// reinterpret it.
type Outcome struct {
	Input   string
	Output  string
	Success bool
	Err     string
}

// Suggestion is a usage hint shown while the user is still typing.
type Suggestion struct {
	Format      string
	Description string
	Example     string
}

// Help describes a resolver's full usage surface.
type Help struct {
	Title       string
	Description string
	Formats     []Suggestion
}

// Resolver is one inline utility: encode, string tools, time, random,
// translation, varname, todo, ip info, calculator.
type Resolver interface {
	Name() string
	HandleQuery(query string) *Outcome
	Complete(partial string) []Suggestion
	Help() *Help
}

func ok(input, output string) *Outcome {
	return &Outcome{Input: input, Output: output, Success: true}
}

func fail(input, msg string) *Outcome {
	return &Outcome{Input: input, Success: false, Err: msg}
}
