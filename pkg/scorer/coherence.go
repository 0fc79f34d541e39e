package scorer

import (
	"context"
	"math"
	"regexp"
	"strings"

	"gradeval/pkg/core"
	"gradeval/pkg/textmetrics"
)

// Coherence weights.
const (
	structureWeight   = 0.3
	flowWeight        = 0.3
	readabilityWeight = 0.2
	toneWeight        = 0.2
)

// Organizational-cue classes: enumerators, connective adverbs, example
// markers, causal markers.
var organizationalCues = compileAll(
	`\b(first|second|third|finally|lastly|in conclusion)\b`,
	`\b(however|moreover|furthermore|additionally|therefore)\b`,
	`\b(for example|for instance|such as|including)\b`,
	`\b(because|since|due to|as a result)\b`,
)

// Transition-phrase classes: contrast, consequence, addition, example,
// sequence.
var transitionClasses = compileAll(
	`\b(however|but|although|while|whereas)\b`,
	`\b(therefore|thus|consequently|as a result)\b`,
	`\b(furthermore|moreover|additionally|also)\b`,
	`\b(for example|for instance|specifically)\b`,
	`\b(first|second|next|then|finally)\b`,
)

var (
	bulletLine    = regexp.MustCompile(`(?m)^\s*[-•*]\s+`)
	numberedLine  = regexp.MustCompile(`\b\d+\.\s+`)
	multiSentence = regexp.MustCompile(`[.!?].*[.!?]`)
	complexPunct  = regexp.MustCompile(`[;:()"]`)
)

var (
	pastTense    = regexp.MustCompile(`\b\w+ed\b|\bwas\b|\bwere\b|\bhad\b`)
	presentTense = regexp.MustCompile(`\bis\b|\bare\b|\bhas\b|\bhave\b`)
	firstPerson  = regexp.MustCompile(`\b(i|me|my|mine|we|us|our|ours)\b`)
	secondPerson = regexp.MustCompile(`\b(you|your|yours)\b`)
	thirdPerson  = regexp.MustCompile(`\b(he|she|it|they|them|their|his|her|its)\b`)
)

var introPatterns = compileAll(
	`^(to answer|in response|regarding|concerning)`,
	`^(the answer is|this is|it is)`,
	`^(let me explain|to understand)`,
)

var conclusionPatterns = compileAll(
	`\b(in conclusion|to conclude|finally|in summary)\b`,
	`\b(therefore|thus|as a result)\b.*[.!?]\s*$`,
)

var structureTransitions = regexp.MustCompile(`\b(however|therefore|furthermore|moreover)\b`)
var structureExamples = regexp.MustCompile(`\b(for example|for instance|such as)\b`)
var structureEnumeration = regexp.MustCompile(`\b(first|second|third|finally)\b`)

// Coherence measures structure, logical flow, readability, and tonal
// consistency of an answer, independent of the query.
type Coherence struct{}

func (Coherence) Name() string { return "coherence" }

func (Coherence) Description() string {
	return "Measures the logical flow, structure, and readability of the answer"
}

func (Coherence) ScoreRange() (float64, float64) { return 0, 1 }

func (Coherence) Score(_ context.Context, input core.Input) (core.Result, error) {
	structure := structureScore(input.Answer)
	flow := flowScore(input.Answer)
	readability := readabilityScore(input.Answer)
	tone := toneConsistencyScore(input.Answer)

	score := structure*structureWeight +
		flow*flowWeight +
		readability*readabilityWeight +
		tone*toneWeight

	details := core.NewDetails()
	details.Set("structure_score", round3(structure))
	details.Set("flow_score", round3(flow))
	details.Set("readability_score", round3(readability))
	details.Set("consistency_score", round3(tone))
	details.Set("sentence_count", textmetrics.CountSentences(input.Answer))
	details.Set("word_count", textmetrics.CountWords(input.Answer))
	details.Set("structure_analysis", structureFeaturesFor(input.Answer))
	details.Set("analysis", coherenceAnalysis(score))

	return core.Result{Score: score, Details: details}, nil
}

// structureScore rewards organizational cues and list formatting. A single
// sentence short-circuits to 0.7 or 0.4 on length alone.
func structureScore(answer string) float64 {
	sentences := textmetrics.SplitSentences(answer)
	if len(sentences) == 0 {
		return 0.0
	}

	wordCount := textmetrics.CountWords(answer)
	if len(sentences) == 1 {
		if wordCount > 5 {
			return 0.7
		}
		return 0.4
	}

	score := 0.5
	lower := strings.ToLower(answer)
	for _, cue := range organizationalCues {
		if cue.MatchString(lower) {
			score += 0.1
		}
	}

	if bulletLine.MatchString(answer) {
		score += 0.2
	}
	if numberedLine.MatchString(answer) {
		score += 0.2
	}

	if wordCount < 10 {
		score -= 0.1
	} else if wordCount > 200 && !multiSentence.MatchString(answer) {
		score -= 0.2
	}

	return clamp01(score)
}

// flowScore rewards a moderate transition-phrase density and adjacent
// sentences sharing vocabulary. Single sentences get 0.8 outright.
func flowScore(answer string) float64 {
	sentences := textmetrics.SplitSentences(answer)
	if len(sentences) <= 1 {
		return 0.8
	}

	score := 0.7
	lower := strings.ToLower(answer)
	transitions := countMatches(lower, transitionClasses)

	ratio := float64(transitions) / math.Max(float64(len(sentences)-1), 1)
	if ratio >= 0.2 && ratio <= 0.8 {
		score += 0.2
	} else if ratio > 0.8 {
		score -= 0.1
	}

	score += topicContinuity(sentences)
	return clamp01(score)
}

// topicContinuity grants a small bonus per adjacent sentence pair sharing
// at least two words, capped at 0.2.
func topicContinuity(sentences []string) float64 {
	bonus := 0.0
	for i := 0; i+1 < len(sentences); i++ {
		current := textmetrics.WordSet(sentences[i])
		next := textmetrics.WordSet(sentences[i+1])

		shared := 0
		for word := range current {
			if _, ok := next[word]; ok {
				shared++
			}
		}
		if shared >= 2 {
			bonus += 0.02
		}
	}
	return math.Min(0.2, bonus)
}

func readabilityScore(answer string) float64 {
	score := 0.6

	sentences := textmetrics.SplitSentences(answer)
	if len(sentences) > 0 {
		totalWords := 0
		for _, sentence := range sentences {
			totalWords += textmetrics.CountWords(sentence)
		}
		avgLength := float64(totalWords) / float64(len(sentences))
		switch {
		case avgLength >= 10 && avgLength <= 25:
			score += 0.2
		case avgLength > 30:
			score -= 0.2
		case avgLength < 5:
			score -= 0.1
		}
	}

	words := strings.Fields(answer)
	if len(words) > 0 {
		punctRatio := float64(len(complexPunct.FindAllString(answer, -1))) / float64(len(words))
		if punctRatio >= 0.02 && punctRatio <= 0.1 {
			score += 0.1
		} else if punctRatio > 0.15 {
			score -= 0.1
		}

		longWords := 0
		for _, word := range words {
			if len(word) > 8 {
				longWords++
			}
		}
		if float64(longWords)/float64(len(words)) > 0.3 {
			score -= 0.1
		}
	}

	return clamp01(score)
}

// toneConsistencyScore blends a tense-balance term into the base when tense
// markers exist, and deducts when more than two grammatical persons mix.
func toneConsistencyScore(answer string) float64 {
	score := 0.8
	lower := strings.ToLower(answer)

	past := len(pastTense.FindAllString(lower, -1))
	present := len(presentTense.FindAllString(lower, -1))
	if total := past + present; total > 0 {
		tenseBalance := 1 - math.Abs(float64(past-present))/float64(total)
		score = (score + tenseBalance) / 2
	}

	activePersons := 0
	for _, person := range []*regexp.Regexp{firstPerson, secondPerson, thirdPerson} {
		if len(person.FindAllString(lower, -1)) > 0 {
			activePersons++
		}
	}
	if activePersons > 2 {
		score -= 0.1
	}

	return clamp01(score)
}

type structureFeatures struct {
	HasIntroduction bool `json:"has_introduction"`
	HasConclusion   bool `json:"has_conclusion"`
	HasTransitions  bool `json:"has_transitions"`
	HasExamples     bool `json:"has_examples"`
	HasEnumeration  bool `json:"has_enumeration"`
	ParagraphCount  int  `json:"paragraph_count"`
}

func structureFeaturesFor(answer string) structureFeatures {
	lower := strings.ToLower(answer)
	paragraphs := 1
	if strings.Contains(answer, "\n\n") {
		paragraphs = len(strings.Split(answer, "\n\n"))
	}
	return structureFeatures{
		HasIntroduction: matchesAny(strings.TrimSpace(lower), introPatterns),
		HasConclusion:   matchesAny(lower, conclusionPatterns),
		HasTransitions:  structureTransitions.MatchString(lower),
		HasExamples:     structureExamples.MatchString(lower),
		HasEnumeration:  structureEnumeration.MatchString(lower),
		ParagraphCount:  paragraphs,
	}
}

func coherenceAnalysis(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent coherence - Well-structured with clear logical flow"
	case score >= 0.6:
		return "Good coherence - Generally well-organized with minor flow issues"
	case score >= 0.4:
		return "Moderate coherence - Some structural issues affecting readability"
	default:
		return "Poor coherence - Significant issues with structure and logical flow"
	}
}
