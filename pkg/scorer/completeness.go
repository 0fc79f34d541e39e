package scorer

import (
	"context"
	"regexp"
	"strings"

	"gradeval/pkg/core"
	"gradeval/pkg/textmetrics"
)

// Completeness weights.
const (
	coverageWeight          = 0.3
	depthWeight             = 0.25
	comprehensivenessWeight = 0.25
	expectedCoverageWeight  = 0.2
)

// neutralExpectedCoverage applies when no reference answer exists.
const neutralExpectedCoverage = 0.7

// expectedSentenceMatch is the similarity above which an answer sentence
// counts as covering a reference sentence.
const expectedSentenceMatch = 0.3

var topicStopWords = wordSetOf(
	"what", "how", "when", "where", "why", "who", "which", "that",
	"the", "and", "for", "are", "you", "can", "does", "will",
)

var complexityConnectives = []string{
	"and", "or", "but", "however", "also", "additionally",
	"compare", "contrast", "analyze", "evaluate", "discuss",
}

var multiPartPatterns = compileAll(
	`\band\b`, `\bor\b`, `\balso\b`, `\badditionally\b`,
	`\?.*\?`, `[;,].*[?]`, `\b(first|second|third)\b`,
)

var exampleNeedTerms = []string{
	"example", "examples", "instance", "such as", "like",
	"demonstrate", "illustrate", "show",
}

var explanationNeedTerms = []string{
	"explain", "describe", "how", "why", "what is", "what are",
	"detail", "elaborate", "discuss",
}

var comparisonNeedTerms = []string{
	"compare", "contrast", "difference", "similar", "versus",
	"vs", "better", "worse", "advantage", "disadvantage",
}

var definitionElements = compileAll(
	`\bis\b.*\ba\b`, `\bare\b.*\bthat\b`, `\bmeans\b`, `\brefers to\b`,
	`\bdefined as\b`, `\bknown as\b`,
)

var processElements = compileAll(
	`\b(first|second|third|next|then|finally)\b`,
	`\b(step|stage|phase|process)\b`,
	`\b(by|through|using|via)\b`,
)

var reasoningElements = compileAll(
	`\b(because|since|due to|as a result|therefore|thus)\b`,
	`\b(reason|cause|factor|leads to|results in)\b`,
)

var comparisonElements = compileAll(
	`\b(compared to|versus|vs|while|whereas|however)\b`,
	`\b(similar|different|alike|unlike|better|worse)\b`,
	`\b(advantage|disadvantage|benefit|drawback)\b`,
)

var multiAspectPatterns = compileAll(
	`\b(also|additionally|furthermore|moreover)\b`,
	`\b(another|other|second|third)\b`,
	`\b(in addition|as well|besides)\b`,
)

// Depth-indicator classes: causal reasoning, examples, contrasts, additions.
var depthIndicators = compileAll(
	`\b(because|since|due to|as a result|therefore)\b`,
	`\b(for example|for instance|such as|including)\b`,
	`\b(however|but|although|while|whereas)\b`,
	`\b(furthermore|moreover|additionally|also)\b`,
)

var (
	elemExamples     = regexp.MustCompile(`\b(for example|for instance|such as)\b`)
	elemReasoning    = regexp.MustCompile(`\b(because|since|due to|therefore)\b`)
	elemContext      = regexp.MustCompile(`\b(context|background|historically|traditionally)\b`)
	elemImplications = regexp.MustCompile(`\b(implication|consequence|result|impact)\b`)
	elemAlternatives = regexp.MustCompile(`\b(alternative|option|choice|instead)\b`)
)

var (
	indReasoning      = regexp.MustCompile(`\b(because|since|therefore)\b`)
	indMultiplePoints = regexp.MustCompile(`\b(first|second|also|additionally)\b`)
	indContext        = regexp.MustCompile(`\b(context|background|history)\b`)
	indImplications   = regexp.MustCompile(`\b(implication|consequence|impact)\b`)
	indAlternatives   = regexp.MustCompile(`\b(alternative|option|instead)\b`)
)

var topicToken = regexp.MustCompile(`\b[A-Za-z]{3,}\b`)

// Completeness measures how thoroughly an answer addresses every aspect the
// query asks for.
type Completeness struct{}

func (Completeness) Name() string { return "completeness" }

func (Completeness) Description() string {
	return "Measures how thoroughly the answer addresses all aspects of the query"
}

func (Completeness) ScoreRange() (float64, float64) { return 0, 1 }

func (Completeness) Score(_ context.Context, input core.Input) (core.Result, error) {
	aspects := analyzeQueryAspects(input.Query)

	coverage := coverageScore(input.Answer, aspects)
	depth := depthScore(input.Answer)
	comprehensiveness := comprehensivenessScore(input.Answer)

	expectedCov := neutralExpectedCoverage
	if input.HasExpected() {
		expectedCov = expectedCoverage(input.Answer, input.Expected)
	}

	score := coverage*coverageWeight +
		depth*depthWeight +
		comprehensiveness*comprehensivenessWeight +
		expectedCov*expectedCoverageWeight

	details := core.NewDetails()
	details.Set("query_aspects", aspects)
	details.Set("coverage_score", round3(coverage))
	details.Set("depth_score", round3(depth))
	details.Set("comprehensive_score", round3(comprehensiveness))
	details.Set("expected_coverage_score", round3(expectedCov))
	details.Set("response_length", textmetrics.CountWords(input.Answer))
	details.Set("completeness_indicators", completenessIndicatorsFor(input.Answer))
	details.Set("analysis", completenessAnalysis(score, aspects.Complexity))

	return core.Result{Score: score, Details: details}, nil
}

// queryAspects describes what a query is asking for.
type queryAspects struct {
	QuestionType        string   `json:"question_type"`
	Complexity          string   `json:"complexity"`
	MultipleParts       bool     `json:"multiple_parts"`
	RequiresExamples    bool     `json:"requires_examples"`
	RequiresExplanation bool     `json:"requires_explanation"`
	RequiresComparison  bool     `json:"requires_comparison"`
	KeyTopics           []string `json:"key_topics"`
}

func analyzeQueryAspects(query string) queryAspects {
	lower := strings.ToLower(query)
	return queryAspects{
		QuestionType:        questionType(query),
		Complexity:          queryComplexity(query),
		MultipleParts:       matchesAny(lower, multiPartPatterns),
		RequiresExamples:    containsAny(lower, exampleNeedTerms...),
		RequiresExplanation: containsAny(lower, explanationNeedTerms...),
		RequiresComparison:  containsAny(lower, comparisonNeedTerms...),
		KeyTopics:           keyTopics(query),
	}
}

func questionType(query string) string {
	lower := strings.TrimSpace(strings.ToLower(query))
	switch {
	case strings.HasPrefix(lower, "what"):
		return "definition/explanation"
	case strings.HasPrefix(lower, "how"):
		return "process/method"
	case strings.HasPrefix(lower, "why"):
		return "reasoning/cause"
	case strings.HasPrefix(lower, "when"):
		return "temporal"
	case strings.HasPrefix(lower, "where"):
		return "location"
	case strings.HasPrefix(lower, "who"):
		return "person/entity"
	case hasPrefixAny(lower, "compare", "contrast"):
		return "comparison"
	case hasPrefixAny(lower, "list", "enumerate"):
		return "enumeration"
	case hasPrefixAny(lower, "explain", "describe"):
		return "explanation"
	default:
		return "general"
	}
}

func queryComplexity(query string) string {
	wordCount := textmetrics.CountWords(query)
	lower := strings.ToLower(query)

	connectives := 0
	for _, term := range complexityConnectives {
		if strings.Contains(lower, term) {
			connectives++
		}
	}

	switch {
	case wordCount > 20 || connectives > 2:
		return "high"
	case wordCount > 10 || connectives > 0:
		return "medium"
	default:
		return "low"
	}
}

// keyTopics extracts alphabetic tokens of length >= 3 minus stop words,
// deduplicated in first-occurrence order.
func keyTopics(query string) []string {
	var topics []string
	seen := make(map[string]struct{})
	for _, token := range topicToken.FindAllString(query, -1) {
		word := strings.ToLower(token)
		if _, stop := topicStopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		topics = append(topics, word)
	}
	return topics
}

// coverageScore rewards type-appropriate elements, literal key-topic
// mentions, and multi-aspect structure for multi-part queries.
func coverageScore(answer string, aspects queryAspects) float64 {
	score := 0.5
	lower := strings.ToLower(answer)

	switch aspects.QuestionType {
	case "definition/explanation":
		if matchesAny(lower, definitionElements) {
			score += 0.2
		}
	case "process/method":
		if matchesAny(lower, processElements) {
			score += 0.2
		}
	case "reasoning/cause":
		if matchesAny(lower, reasoningElements) {
			score += 0.2
		}
	case "comparison":
		if matchesAny(lower, comparisonElements) {
			score += 0.2
		}
	}

	if len(aspects.KeyTopics) > 0 {
		covered := 0
		for _, topic := range aspects.KeyTopics {
			if strings.Contains(lower, topic) {
				covered++
			}
		}
		score += float64(covered) / float64(len(aspects.KeyTopics)) * 0.3
	}

	if aspects.MultipleParts {
		if matchesAny(lower, multiAspectPatterns) {
			score += 0.2
		} else {
			score -= 0.1
		}
	}

	return clamp01(score)
}

// depthScore tiers on word count and rewards depth-indicator density.
func depthScore(answer string) float64 {
	score := 0.5

	wordCount := textmetrics.CountWords(answer)
	switch {
	case wordCount >= 100:
		score += 0.3
	case wordCount >= 50:
		score += 0.2
	case wordCount >= 20:
		score += 0.1
	case wordCount < 10:
		score -= 0.2
	}

	indicators := countMatches(strings.ToLower(answer), depthIndicators)
	if indicators >= 3 {
		score += 0.2
	} else if indicators >= 1 {
		score += 0.1
	}

	return clamp01(score)
}

// comprehensivenessScore grants a fixed bonus per present element class:
// examples, reasoning, context, implications, alternatives.
func comprehensivenessScore(answer string) float64 {
	lower := strings.ToLower(answer)
	elements := []*regexp.Regexp{
		elemExamples, elemReasoning, elemContext, elemImplications, elemAlternatives,
	}

	score := 0.6
	for _, element := range elements {
		if element.MatchString(lower) {
			score += 0.08
		}
	}
	return clamp01(score)
}

// expectedCoverage is the fraction of reference sentences that some answer
// sentence resembles.
func expectedCoverage(answer, expected string) float64 {
	expectedSentences := textmetrics.SplitSentences(expected)
	if len(expectedSentences) == 0 {
		return neutralExpectedCoverage
	}

	answerSentences := textmetrics.SplitSentences(answer)
	covered := 0
	for _, expectedSentence := range expectedSentences {
		for _, answerSentence := range answerSentences {
			if textmetrics.Similarity(expectedSentence, answerSentence) > expectedSentenceMatch {
				covered++
				break
			}
		}
	}

	return float64(covered) / float64(len(expectedSentences))
}

type completenessIndicators struct {
	HasExamples           bool `json:"has_examples"`
	HasReasoning          bool `json:"has_reasoning"`
	HasMultiplePoints     bool `json:"has_multiple_points"`
	HasContext            bool `json:"has_context"`
	HasImplications       bool `json:"has_implications"`
	AddressesAlternatives bool `json:"addresses_alternatives"`
}

func completenessIndicatorsFor(answer string) completenessIndicators {
	lower := strings.ToLower(answer)
	return completenessIndicators{
		HasExamples:           elemExamples.MatchString(lower),
		HasReasoning:          indReasoning.MatchString(lower),
		HasMultiplePoints:     indMultiplePoints.MatchString(lower),
		HasContext:            indContext.MatchString(lower),
		HasImplications:       indImplications.MatchString(lower),
		AddressesAlternatives: indAlternatives.MatchString(lower),
	}
}

func completenessAnalysis(score float64, complexity string) string {
	var base string
	switch {
	case score >= 0.8:
		base = "Highly complete - Thoroughly addresses the query"
	case score >= 0.6:
		base = "Good completeness - Covers most important aspects"
	case score >= 0.4:
		base = "Moderate completeness - Addresses some aspects but lacks depth"
	default:
		base = "Low completeness - Missing significant aspects of the query"
	}

	switch complexity {
	case "high":
		return base + " (complex query with multiple aspects)"
	case "low":
		return base + " (straightforward query)"
	default:
		return base + " (moderately complex query)"
	}
}
