// Package scorer implements the four heuristic dimension scorers:
// relevance, accuracy, coherence, and completeness. Each is a stateless
// value type satisfying core.Scorer; the lexical tables driving them are
// package-level constants compiled once at init.
package scorer

import (
	"math"
	"regexp"
	"strings"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round3 rounds to three decimals for reporting; raw values stay unrounded
// in the weighted combination.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func countMatches(text string, patterns []*regexp.Regexp) int {
	total := 0
	for _, pattern := range patterns {
		total += len(pattern.FindAllString(text, -1))
	}
	return total
}

func containsAny(text string, phrases ...string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func hasPrefixAny(text string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}
