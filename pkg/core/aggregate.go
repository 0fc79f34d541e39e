package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// adviceThreshold is the dimension score below which an advisory
// recommendation is emitted.
const adviceThreshold = 0.6

const allGoodMessage = "Great job! The response meets quality standards across all criteria"

// dimensionAdvice holds the fixed advisory string per dimension.
var dimensionAdvice = map[string]string{
	"relevance":    "Consider making the answer more relevant to the specific query",
	"accuracy":     "Verify factual accuracy and provide more precise information",
	"coherence":    "Improve logical flow and structure of the response",
	"completeness": "Provide more comprehensive coverage of the topic",
}

// AggregateResult is the combined outcome of evaluating one input across the
// requested dimensions.
type AggregateResult struct {
	OverallScore    float64             `json:"overall_score"`
	DetailedScores  map[string]float64  `json:"detailed_scores"`
	Details         map[string]*Details `json:"evaluation_details"`
	Criteria        []string            `json:"criteria_evaluated"`
	Recommendations []string            `json:"recommendations"`
	Errors          map[string]string   `json:"errors,omitempty"`
}

// Aggregator dispatches an input to the registered dimension scorers and
// averages their scores. Unknown criteria are skipped with a warning, never
// defaulted to zero.
type Aggregator struct {
	scorers map[string]Scorer
	order   []string
	logger  *zap.Logger
}

func NewAggregator(logger *zap.Logger, scorers ...Scorer) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{
		scorers: make(map[string]Scorer),
		logger:  logger,
	}
	for _, s := range scorers {
		a.Register(s)
	}
	return a
}

// Register adds a scorer under its Name. Re-registering a name replaces the
// scorer but keeps its position.
func (a *Aggregator) Register(s Scorer) {
	name := s.Name()
	if _, ok := a.scorers[name]; !ok {
		a.order = append(a.order, name)
	}
	a.scorers[name] = s
}

// Scorers returns the registered scorers in registration order.
func (a *Aggregator) Scorers() []Scorer {
	out := make([]Scorer, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.scorers[name])
	}
	return out
}

// Dimensions returns the registered dimension names in registration order.
func (a *Aggregator) Dimensions() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Evaluate runs the requested criteria over the input. A nil criteria list
// means every registered dimension; an explicit empty list evaluates nothing
// and yields a zero overall score. A scorer failure is reported per-dimension
// as a zero score with an error annotation; the other dimensions still run.
func (a *Aggregator) Evaluate(ctx context.Context, input Input, criteria []string) AggregateResult {
	if criteria == nil {
		criteria = a.Dimensions()
	}

	out := AggregateResult{
		DetailedScores: make(map[string]float64),
		Details:        make(map[string]*Details),
	}

	for _, name := range criteria {
		scorer, ok := a.scorers[name]
		if !ok {
			a.logger.Warn("unknown evaluation criterion", zap.String("criterion", name))
			continue
		}

		result, err := scoreSafely(ctx, scorer, input)
		if err != nil {
			a.logger.Error("scorer failed",
				zap.String("dimension", name),
				zap.Error(err))
			out.DetailedScores[name] = 0
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[name] = err.Error()
			out.Criteria = append(out.Criteria, name)
			continue
		}

		out.DetailedScores[name] = result.Score
		out.Details[name] = result.Details
		out.Criteria = append(out.Criteria, name)
	}

	if len(out.Criteria) > 0 {
		var sum float64
		for _, name := range out.Criteria {
			sum += out.DetailedScores[name]
		}
		out.OverallScore = sum / float64(len(out.Criteria))
	}

	out.Recommendations = recommendations(out.Criteria, out.DetailedScores)
	return out
}

// scoreSafely converts a scorer panic into a per-dimension error so one
// misbehaving dimension cannot abort the rest.
func scoreSafely(ctx context.Context, s Scorer, input Input) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scorer %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Score(ctx, input)
}

func recommendations(criteria []string, scores map[string]float64) []string {
	var out []string
	for _, name := range criteria {
		if scores[name] >= adviceThreshold {
			continue
		}
		if advice, ok := dimensionAdvice[name]; ok {
			out = append(out, advice)
		}
	}
	if len(out) == 0 {
		out = append(out, allGoodMessage)
	}
	return out
}
