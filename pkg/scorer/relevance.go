package scorer

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"gradeval/pkg/core"
	"gradeval/pkg/textmetrics"
)

// Relevance weights.
const (
	termOverlapWeight   = 0.4
	directAnswerWeight  = 0.3
	semanticProxyWeight = 0.3
)

// relevanceStopWords filters articles, auxiliaries, pronouns, and wh-words
// out of key-term extraction.
var relevanceStopWords = wordSetOf(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "can", "what", "how", "when", "where", "why",
	"who", "which", "that", "this", "these", "those", "i", "you", "he",
	"she", "it", "we", "they", "me", "him", "her", "us", "them",
)

var punctuation = regexp.MustCompile(`[^\w\s]`)

func wordSetOf(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// Relevance measures how well an answer addresses its query via term
// overlap, direct-answer cues, and a length/topic semantic proxy.
type Relevance struct{}

func (Relevance) Name() string { return "relevance" }

func (Relevance) Description() string {
	return "Measures how well the answer addresses the specific query"
}

func (Relevance) ScoreRange() (float64, float64) { return 0, 1 }

func (Relevance) Score(_ context.Context, input core.Input) (core.Result, error) {
	queryTerms := keyTerms(input.Query)
	answerTerms := keyTerms(input.Answer)

	overlap := termOverlap(queryTerms, answerTerms)
	direct := directAnswerScore(input.Query, input.Answer)
	semantic := semanticProxyScore(input.Query, input.Answer)

	score := overlap*termOverlapWeight + direct*directAnswerWeight + semantic*semanticProxyWeight

	details := core.NewDetails()
	details.Set("query_terms", sortedTerms(queryTerms))
	details.Set("answer_terms", sortedTerms(answerTerms))
	details.Set("term_overlap_score", round3(overlap))
	details.Set("direct_answer_score", round3(direct))
	details.Set("semantic_score", round3(semantic))
	details.Set("analysis", relevanceAnalysis(score))

	return core.Result{Score: score, Details: details}, nil
}

// keyTerms extracts lowercase content-bearing tokens: punctuation stripped,
// length > 2, stop words excluded.
func keyTerms(text string) map[string]struct{} {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(text), " ")
	terms := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := relevanceStopWords[word]; stop {
			continue
		}
		terms[word] = struct{}{}
	}
	return terms
}

func termOverlap(queryTerms, answerTerms map[string]struct{}) float64 {
	if len(queryTerms) == 0 {
		return 0.0
	}
	overlap := 0
	for term := range queryTerms {
		if _, ok := answerTerms[term]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(queryTerms))
}

// directAnswerScore rewards answer-side cues matched to the query's leading
// interrogative, and substantial answers to imperative queries. Additive,
// capped at 1.
func directAnswerScore(query, answer string) float64 {
	queryLower := strings.ToLower(query)
	answerLower := strings.ToLower(answer)

	score := 0.0

	if hasPrefixAny(queryLower, "what", "how", "when", "where", "why", "who") {
		if containsAny(answerLower,
			"the answer is", "it is", "this is", "that is", "because",
			"due to", "as a result", "therefore", "consequently") {
			score += 0.3
		}

		switch {
		case strings.HasPrefix(queryLower, "what"):
			if containsAny(answerLower, "is", "are", "means", "refers") {
				score += 0.2
			}
		case strings.HasPrefix(queryLower, "how"):
			if containsAny(answerLower, "by", "through", "using", "via") {
				score += 0.2
			}
		case strings.HasPrefix(queryLower, "when"):
			if containsAny(answerLower, "in", "during", "at", "on") {
				score += 0.2
			}
		case strings.HasPrefix(queryLower, "where"):
			if containsAny(answerLower, "in", "at", "on", "near") {
				score += 0.2
			}
		case strings.HasPrefix(queryLower, "why"):
			if containsAny(answerLower, "because", "due", "since") {
				score += 0.2
			}
		}
	}

	if hasPrefixAny(queryLower, "explain", "describe", "list", "compare") {
		if textmetrics.CountWords(answer) > 10 {
			score += 0.4
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// semanticProxyScore stands in for semantic similarity: length
// appropriateness, any word overlap with the query, and absence of a
// refusal prefix.
func semanticProxyScore(query, answer string) float64 {
	score := 0.0

	wordCount := textmetrics.CountWords(answer)
	switch {
	case wordCount >= 20 && wordCount <= 200:
		score += 0.3
	case wordCount < 5:
		score -= 0.2
	}

	queryWords := textmetrics.WordSet(query)
	answerWords := textmetrics.WordSet(answer)
	for word := range queryWords {
		if _, ok := answerWords[word]; ok {
			score += 0.4
			break
		}
	}

	if strings.TrimSpace(answer) != "" &&
		!hasPrefixAny(strings.ToLower(answer), "i don't", "i cannot", "sorry") {
		score += 0.3
	}

	return clamp01(score)
}

func sortedTerms(terms map[string]struct{}) []string {
	out := make([]string, 0, len(terms))
	for term := range terms {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

func relevanceAnalysis(score float64) string {
	switch {
	case score >= 0.8:
		return "Highly relevant - Answer directly addresses the query with good term overlap"
	case score >= 0.6:
		return "Moderately relevant - Answer addresses the query but could be more focused"
	case score >= 0.4:
		return "Somewhat relevant - Answer partially addresses the query but lacks focus"
	default:
		return "Low relevance - Answer does not adequately address the query"
	}
}
