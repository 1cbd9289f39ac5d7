package feature

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// RandomResolver generates random values: numbers, strings, passwords, UUIDs.
type RandomResolver struct{}

func NewRandomResolver() *RandomResolver { return &RandomResolver{} }

func (r *RandomResolver) Name() string { return "random" }

const (
	alnumChars    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	passwordChars = alnumChars + "!@#$%^&*()-_=+[]{};:,.<>?"
)

func (r *RandomResolver) HandleQuery(query string) *Outcome {
	op, arg, found := splitCommand(query)
	if !found {
		return nil
	}
	if op == "uuid" {
		if arg != "" {
			return fail(query, "usage: uuid")
		}
		return ok(query, uuid.NewString())
	}
	if op != "random" {
		return nil
	}
	sub, rest, _ := splitCommand(arg)
	switch sub {
	case "", "number":
		lo, hi := int64(0), int64(100)
		fields := strings.Fields(rest)
		var err error
		if len(fields) >= 2 {
			if lo, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
				return fail(query, "bad lower bound: "+fields[0])
			}
			if hi, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
				return fail(query, "bad upper bound: "+fields[1])
			}
		} else if len(fields) == 1 {
			if hi, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
				return fail(query, "bad upper bound: "+fields[0])
			}
		}
		if hi <= lo {
			return fail(query, "upper bound must exceed lower bound")
		}
		n, err := rand.Int(rand.Reader, big.NewInt(hi-lo+1))
		if err != nil {
			return fail(query, "random source unavailable")
		}
		return ok(query, strconv.FormatInt(lo+n.Int64(), 10))
	case "uuid":
		return ok(query, uuid.NewString())
	case "string":
		return r.randomText(query, rest, 8, alnumChars)
	case "password":
		return r.randomText(query, rest, 16, passwordChars)
	}
	return fail(query, "usage: random [number <lo> <hi> | string <len> | password <len> | uuid]")
}

func (r *RandomResolver) randomText(query, rest string, defLen int, charset string) *Outcome {
	n := defLen
	if f := strings.Fields(rest); len(f) > 0 {
		v, err := strconv.Atoi(f[0])
		if err != nil || v <= 0 || v > 256 {
			return fail(query, "length must be 1..256")
		}
		n = v
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return fail(query, "random source unavailable")
		}
		b.WriteByte(charset[idx.Int64()])
	}
	return ok(query, b.String())
}

func (r *RandomResolver) Complete(partial string) []Suggestion {
	return filterSuggestions(randomFormats, partial)
}

func (r *RandomResolver) Help() *Help {
	return &Help{
		Title:       "Random generation",
		Description: "Random numbers, strings, passwords and UUIDs",
		Formats:     randomFormats,
	}
}

var randomFormats = []Suggestion{
	{Format: "random number <lo> <hi>", Description: "Random integer in range", Example: "random number 1 100"},
	{Format: "random string <len>", Description: "Random alphanumeric string", Example: "random string 8"},
	{Format: "random password <len>", Description: "Random password with symbols", Example: "random password 16"},
	{Format: "uuid", Description: "Random UUID v4", Example: "uuid"},
}
