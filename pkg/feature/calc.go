package feature

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/knetic/govaluate"
)

// CalcResolver evaluates arithmetic expressions with govaluate plus a small
// math function set. It only runs when no other resolver claimed the query
// and the calculation intent held.
type CalcResolver struct{}

func NewCalcResolver() *CalcResolver { return &CalcResolver{} }

func (c *CalcResolver) Name() string { return "calc" }

var (
	calcAllowedRe = regexp.MustCompile(`^[0-9+\-*/%^().!,\sA-Za-z]+$`)
	piRe          = regexp.MustCompile(`\bpi\b`)
	eulerRe       = regexp.MustCompile(`\be\b`)
)

var calcFunctions = map[string]govaluate.ExpressionFunction{
	"sqrt":  unary(math.Sqrt),
	"cbrt":  unary(math.Cbrt),
	"log":   unary(math.Log10),
	"ln":    unary(math.Log),
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"abs":   unary(math.Abs),
	"ceil":  unary(math.Ceil),
	"floor": unary(math.Floor),
	"round": unary(math.Round),
	"pow": func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("pow takes two arguments")
		}
		return math.Pow(toFloat64(args[0]), toFloat64(args[1])), nil
	},
	"min": func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("min takes two arguments")
		}
		return math.Min(toFloat64(args[0]), toFloat64(args[1])), nil
	},
	"max": func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("max takes two arguments")
		}
		return math.Max(toFloat64(args[0]), toFloat64(args[1])), nil
	},
	"factorial": func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("factorial takes one argument")
		}
		n := int(toFloat64(args[0]))
		if n < 0 {
			return nil, fmt.Errorf("factorial of negative number")
		}
		res := 1.0
		for i := 2; i <= n; i++ {
			res *= float64(i)
		}
		return res, nil
	},
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one argument")
		}
		return fn(toFloat64(args[0])), nil
	}
}

func toFloat64(arg any) float64 {
	switch v := arg.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (c *CalcResolver) HandleQuery(query string) *Outcome {
	expr := strings.TrimSpace(query)
	if expr == "" {
		return nil
	}
	if !calcAllowedRe.MatchString(expr) {
		return fail(query, "expression contains invalid characters")
	}

	// named constants; word boundaries keep ceil()'s 'e' intact
	expr = piRe.ReplaceAllString(expr, strconv.FormatFloat(math.Pi, 'f', -1, 64))
	expr = eulerRe.ReplaceAllString(expr, strconv.FormatFloat(math.E, 'f', -1, 64))
	// govaluate exponentiation is **, callers type ^
	expr = strings.ReplaceAll(expr, "^", "**")

	expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, calcFunctions)
	if err != nil {
		return fail(query, "could not parse expression: "+err.Error())
	}
	value, err := expression.Evaluate(nil)
	if err != nil {
		return fail(query, "could not evaluate expression: "+err.Error())
	}
	return ok(query, formatCalcValue(value))
}

// formatCalcValue prints integers without a trailing ".0" so "1+1" yields "2".
func formatCalcValue(v any) string {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *CalcResolver) Complete(partial string) []Suggestion {
	return nil
}

func (c *CalcResolver) Help() *Help {
	return &Help{
		Title:       "Calculator",
		Description: "Evaluate arithmetic expressions",
		Formats: []Suggestion{
			{Format: "<expression>", Description: "sqrt, sin, cos, log, pow, pi, e …", Example: "sqrt(2) * pi"},
		},
	}
}
