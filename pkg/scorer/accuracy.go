package scorer

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gradeval/pkg/core"
	"gradeval/pkg/textmetrics"
)

// Accuracy weights.
const (
	similarityWeight  = 0.3
	consistencyWeight = 0.3
	precisionWeight   = 0.2
	uncertaintyWeight = 0.2
)

// neutralSimilarity is used when no reference answer exists to compare
// against.
const neutralSimilarity = 0.5

// factMarkers pick out sentences that state something: copulas and
// possession/containment verbs, matched as substrings of the lowercased
// sentence.
var factMarkers = []string{"is", "are", "was", "were", "has", "have", "contains", "includes"}

// antonymPairs flag likely contradictions between two similar facts.
// Symmetric: either order counts.
var antonymPairs = [][2]string{
	{"true", "false"}, {"yes", "no"}, {"increase", "decrease"},
	{"positive", "negative"}, {"good", "bad"}, {"high", "low"},
}

// contradictionPatterns detect same-answer contradictions when no reference
// exists. Searched across the whole lowercased answer.
var contradictionPatterns = []struct {
	pattern *regexp.Regexp
	penalty float64
}{
	{regexp.MustCompile(`\b(yes|true|correct)\b.*\b(no|false|incorrect)\b`), -0.3},
	{regexp.MustCompile(`\b(always)\b.*\b(never)\b`), -0.2},
	{regexp.MustCompile(`\b(all)\b.*\b(none)\b`), -0.2},
	{regexp.MustCompile(`\b(increase)\b.*\b(decrease)\b`), -0.1},
}

// Specific-indicator classes: quantities with units, exactness adverbs,
// 4-digit years, capitalized-word bigrams (the one case-sensitive class).
var specificIndicators = compileAll(
	`(?i)\b\d+(\.\d+)?\s*(percent|%|degrees?|miles?|kilometers?|years?|months?|days?)\b`,
	`(?i)\b(exactly|precisely|specifically|particularly)\b`,
	`\b\d{4}\b`,
	`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`,
)

var vagueIndicators = compileAll(
	`(?i)\b(some|many|few|several|various|different|often|sometimes|usually)\b`,
	`(?i)\b(approximately|roughly|about|around|nearly)\b`,
	`(?i)\b(might|could|may|possibly|probably|likely)\b`,
)

var goodUncertainty = compileAll(
	`\b(according to|based on|research suggests|studies show)\b`,
	`\b(it depends|varies|may vary)\b`,
	`\b(generally|typically|commonly|usually)\b`,
)

var poorUncertainty = compileAll(
	`\b(definitely|absolutely|certainly|without doubt)\b`,
	`\b(never|always|all|none|every)\b`,
)

var hedgingPatterns = compileAll(
	`\b(i think|i believe|i guess|perhaps|maybe|possibly)\b`,
	`\b(sort of|kind of|somewhat|rather)\b`,
)

var numberPattern = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)

var (
	citationPattern    = regexp.MustCompile(`\b(according to|source|study|research)\b`)
	datePattern        = regexp.MustCompile(`\b\d{4}\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	hedgeWordPattern   = regexp.MustCompile(`\b(might|could|may|possibly|probably)\b`)
	uncertaintyPattern = regexp.MustCompile(`\b(uncertain|unclear|unknown|varies)\b`)
)

// Accuracy measures factual correctness and precision, against a reference
// answer when one exists and via internal-consistency heuristics otherwise.
type Accuracy struct{}

func (Accuracy) Name() string { return "accuracy" }

func (Accuracy) Description() string {
	return "Measures the factual correctness and precision of the answer"
}

func (Accuracy) ScoreRange() (float64, float64) { return 0, 1 }

func (Accuracy) Score(_ context.Context, input core.Input) (core.Result, error) {
	var similarity, consistency, precision float64
	if input.HasExpected() {
		similarity = textmetrics.Similarity(input.Answer, input.Expected)
		consistency = factualConsistency(input.Answer, input.Expected)
		precision = referencePrecision(input.Answer, input.Expected)
	} else {
		similarity = neutralSimilarity
		consistency = internalConsistency(input.Answer)
		precision = standalonePrecision(input.Answer)
	}

	uncertainty := uncertaintyHandling(input.Answer)

	score := similarity*similarityWeight +
		consistency*consistencyWeight +
		precision*precisionWeight +
		uncertainty*uncertaintyWeight

	details := core.NewDetails()
	details.Set("has_expected_answer", input.HasExpected())
	details.Set("similarity_score", round3(similarity))
	details.Set("factual_consistency_score", round3(consistency))
	details.Set("precision_score", round3(precision))
	details.Set("uncertainty_score", round3(uncertainty))
	details.Set("accuracy_indicators", accuracyIndicatorsFor(input.Answer))
	details.Set("analysis", accuracyAnalysis(score, input.HasExpected()))

	return core.Result{Score: score, Details: details}, nil
}

// keyFacts extracts statement-like sentences from text.
func keyFacts(text string) []string {
	var facts []string
	for _, sentence := range textmetrics.SplitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, marker := range factMarkers {
			if strings.Contains(lower, marker) {
				facts = append(facts, sentence)
				break
			}
		}
	}
	return facts
}

// factualConsistency counts matching facts minus contradicted ones,
// normalized by the reference fact count. A pair matches above 0.7
// similarity; it contradicts when moderately similar and bridged by an
// antonym pair.
func factualConsistency(answer, expected string) float64 {
	answerFacts := keyFacts(answer)
	expectedFacts := keyFacts(expected)

	if len(expectedFacts) == 0 {
		return 0.5
	}

	matches, contradictions := 0, 0
	for _, fact := range answerFacts {
		for _, expectedFact := range expectedFacts {
			similarity := textmetrics.Similarity(fact, expectedFact)
			if similarity > 0.7 {
				matches++
			} else if similarity > 0.3 && areContradictory(fact, expectedFact) {
				contradictions++
			}
		}
	}

	return clamp01(float64(matches-contradictions) / float64(len(expectedFacts)))
}

func areContradictory(factA, factB string) bool {
	lowerA := strings.ToLower(factA)
	lowerB := strings.ToLower(factB)
	for _, pair := range antonymPairs {
		if strings.Contains(lowerA, pair[0]) && strings.Contains(lowerB, pair[1]) {
			return true
		}
		if strings.Contains(lowerA, pair[1]) && strings.Contains(lowerB, pair[0]) {
			return true
		}
	}
	return false
}

// internalConsistency starts high and deducts a fixed penalty per detected
// same-answer contradiction pattern. Single-sentence answers are assumed
// consistent.
func internalConsistency(answer string) float64 {
	if len(textmetrics.SplitSentences(answer)) < 2 {
		return 0.8
	}

	score := 0.8
	lower := strings.ToLower(answer)
	for _, cp := range contradictionPatterns {
		if cp.pattern.MatchString(lower) {
			score += cp.penalty
		}
	}
	return clamp01(score)
}

func referencePrecision(answer, expected string) float64 {
	return (specificity(answer) + numericComparison(answer, expected)) / 2
}

func standalonePrecision(answer string) float64 {
	return clamp01(specificity(answer) - hedgingPenalty(answer))
}

// specificity rewards each matched specific-indicator class and deducts for
// each vague-indicator class.
func specificity(text string) float64 {
	score := 0.5
	for _, pattern := range specificIndicators {
		if pattern.MatchString(text) {
			score += 0.1
		}
	}
	for _, pattern := range vagueIndicators {
		if pattern.MatchString(text) {
			score -= 0.05
		}
	}
	return clamp01(score)
}

// numericComparison grades the relative error between the first number found
// in each text. Later numbers are ignored.
func numericComparison(answer, expected string) float64 {
	answerNumbers := numberPattern.FindAllString(answer, -1)
	expectedNumbers := numberPattern.FindAllString(expected, -1)

	if len(answerNumbers) == 0 && len(expectedNumbers) == 0 {
		return 0.8
	}
	if len(answerNumbers) == 0 || len(expectedNumbers) == 0 {
		return 0.3
	}

	answerValue, errA := strconv.ParseFloat(answerNumbers[0], 64)
	expectedValue, errE := strconv.ParseFloat(expectedNumbers[0], 64)
	if errA != nil || errE != nil {
		return 0.5
	}

	if answerValue == expectedValue {
		return 1.0
	}

	relativeError := math.Abs(answerValue-expectedValue) / math.Max(math.Abs(expectedValue), 1)
	return math.Max(0.0, 1.0-relativeError)
}

// hedgingPenalty scales with hedge-phrase frequency, capped at 0.3.
func hedgingPenalty(answer string) float64 {
	lower := strings.ToLower(answer)
	count := countMatches(lower, hedgingPatterns)
	ratio := float64(count) / math.Max(float64(textmetrics.CountWords(answer)), 1)
	return math.Min(0.3, ratio*2)
}

// uncertaintyHandling rewards calibrated language (citations, conditionals)
// and penalizes absolutist language.
func uncertaintyHandling(answer string) float64 {
	lower := strings.ToLower(answer)
	score := 0.7
	for _, pattern := range goodUncertainty {
		if pattern.MatchString(lower) {
			score += 0.1
		}
	}
	for _, pattern := range poorUncertainty {
		if pattern.MatchString(lower) {
			score -= 0.1
		}
	}
	return clamp01(score)
}

type accuracyIndicators struct {
	HasCitations       bool `json:"has_citations"`
	HasSpecificNumbers bool `json:"has_specific_numbers"`
	HasDates           bool `json:"has_dates"`
	UsesHedging        bool `json:"uses_hedging"`
	ShowsUncertainty   bool `json:"shows_uncertainty"`
}

func accuracyIndicatorsFor(answer string) accuracyIndicators {
	lower := strings.ToLower(answer)
	return accuracyIndicators{
		HasCitations:       citationPattern.MatchString(lower),
		HasSpecificNumbers: numberPattern.MatchString(answer),
		HasDates:           datePattern.MatchString(lower),
		UsesHedging:        hedgeWordPattern.MatchString(lower),
		ShowsUncertainty:   uncertaintyPattern.MatchString(lower),
	}
}

func accuracyAnalysis(score float64, hasExpected bool) string {
	var base string
	switch {
	case score >= 0.8:
		base = "High accuracy - Answer appears factually sound"
	case score >= 0.6:
		base = "Good accuracy - Answer is mostly accurate with minor issues"
	case score >= 0.4:
		base = "Moderate accuracy - Answer has some accuracy concerns"
	default:
		base = "Low accuracy - Answer may contain factual errors or inconsistencies"
	}
	if hasExpected {
		return base + " (compared against expected answer)"
	}
	return base + " (evaluated using heuristic methods)"
}
