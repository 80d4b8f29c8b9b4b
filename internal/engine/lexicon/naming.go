package lexicon

import "strings"

// allowedShortTokens are abbreviations that are idiomatic in robot programs
// (signal prefixes, axis names, loop counters) and always count as good.
var allowedShortTokens = []string{
	"di", "do", "gi", "go", "ai", "ao",
	"in", "on", "p", "t", "w", "l", "n", "s",
	"via", "m", "bool", "plc", "pre", "off",
	"with", "from", "x", "y", "z", "ry", "rz", "rx",
	"dir", "calc", "prog", "pers", "i", "j", "k", "a",
	"b", "ok", "at", "for", "over", "under", "front", "back", "cc", "ct", "v",
}

const minWordLength = 3

// NamingScorer rates identifiers by the share of their tokens that are
// allowlisted abbreviations or dictionary words.
type NamingScorer struct {
	oracle Oracle
	allow  map[string]bool
}

func NewNamingScorer(oracle Oracle, extraAllowed ...string) *NamingScorer {
	allow := make(map[string]bool, len(allowedShortTokens)+len(extraAllowed))
	for _, tok := range allowedShortTokens {
		allow[tok] = true
	}
	for _, tok := range extraAllowed {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			allow[tok] = true
		}
	}
	return &NamingScorer{oracle: oracle, allow: allow}
}

// IdentifierScore returns good/total for the tokens of name and records
// every rejected token in bad. An identifier without tokens scores 0.
func (s *NamingScorer) IdentifierScore(name string, bad map[string]bool) float64 {
	tokens := Split(name)
	if len(tokens) == 0 {
		return 0
	}

	good := 0
	for _, tok := range tokens {
		switch {
		case s.allow[tok]:
			good++
		case len([]rune(tok)) < minWordLength:
			bad[tok] = true
		case s.oracle.IsWord(tok):
			good++
		default:
			bad[tok] = true
		}
	}
	return float64(good) / float64(len(tokens))
}

// Score averages IdentifierScore over names. With nothing to judge the
// result is the neutral maximum 1.0.
func (s *NamingScorer) Score(names []string, bad map[string]bool) float64 {
	if len(names) == 0 {
		return 1.0
	}
	total := 0.0
	for _, name := range names {
		total += s.IdentifierScore(name, bad)
	}
	return total / float64(len(names))
}
