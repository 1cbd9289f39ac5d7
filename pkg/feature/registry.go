package feature

// Registry dispatches a query across resolvers in specificity order:
// narrowly-keyworded tools first so the calculator cannot swallow a string
// tool invocation that happens to contain digits. First non-nil outcome wins,
// success or failure alike.
type Registry struct {
	resolvers []Resolver
	calc      Resolver
}

// NewRegistry wires the default resolver chain. The todo resolver needs a
// store; translate and ipinfo take their HTTP client from the caller so tests
// can stub the network.
func NewRegistry(resolvers []Resolver, calc Resolver) *Registry {
	return &Registry{resolvers: resolvers, calc: calc}
}

// DefaultChain builds the stock dispatch order plus the calculator. Varname
// sits last because it claims bare word phrases and everything more specific
// must get first refusal.
func DefaultChain(todos TodoStore, targetLang string) ([]Resolver, Resolver) {
	return []Resolver{
		NewEncodeResolver(),
		NewStringResolver(),
		NewTimeResolver(),
		NewRandomResolver(),
		NewTranslateResolver(targetLang),
		NewTodoResolver(todos),
		NewIPResolver(),
		NewVarnameResolver(),
	}, NewCalcResolver()
}

// Dispatch walks the chain. isPlainMath gates the varname resolver, which is
// last and would otherwise claim bare arithmetic as an identifier request.
func (r *Registry) Dispatch(query string, isPlainMath bool) (Resolver, *Outcome) {
	for _, res := range r.resolvers {
		if res.Name() == "varname" && isPlainMath {
			continue
		}
		if out := res.HandleQuery(query); out != nil {
			return res, out
		}
	}
	return nil, nil
}

// Calculate runs the calculator. Callers invoke it only when no resolver
// answered and the calculation intent held.
func (r *Registry) Calculate(query string) *Outcome {
	if r.calc == nil {
		return nil
	}
	return r.calc.HandleQuery(query)
}

// Completions gathers usage suggestions from every resolver whose name is in
// hinted, preserving chain order.
func (r *Registry) Completions(partial string, hinted []string) map[string][]Suggestion {
	want := map[string]bool{}
	for _, h := range hinted {
		want[h] = true
	}
	out := map[string][]Suggestion{}
	for _, res := range r.resolvers {
		if !want[res.Name()] {
			continue
		}
		if sugg := res.Complete(partial); len(sugg) > 0 {
			out[res.Name()] = sugg
		}
	}
	return out
}

// Resolvers exposes the ordered chain, mainly for help listings.
func (r *Registry) Resolvers() []Resolver {
	return r.resolvers
}
