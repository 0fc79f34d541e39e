// Package textmetrics holds the shared text primitives the dimension
// scorers build on: sentence splitting, word counting, and word-set overlap.
// Every function is pure and total over arbitrary strings, including empty
// ones.
package textmetrics

import (
	"regexp"
	"strings"
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// SplitSentences splits text on runs of sentence-ending punctuation,
// dropping blank fragments and preserving order.
func SplitSentences(text string) []string {
	parts := sentenceBoundary.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// CountSentences counts sentences via the same splitter.
func CountSentences(text string) int {
	return len(SplitSentences(text))
}

// CountWords counts whitespace-delimited words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// WordSet returns the set of lowercase whitespace-delimited words in text.
func WordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// Similarity is the Jaccard index of the two texts' lowercase word sets.
// Two empty sets are identical (1.0); exactly one empty set shares nothing
// (0.0).
func Similarity(a, b string) float64 {
	setA := WordSet(a)
	setB := WordSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}
