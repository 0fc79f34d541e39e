package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubScorer struct {
	name  string
	score float64
	err   error
	panic bool
}

func (s stubScorer) Name() string                   { return s.name }
func (s stubScorer) Description() string            { return "stub" }
func (s stubScorer) ScoreRange() (float64, float64) { return 0, 1 }

func (s stubScorer) Score(context.Context, Input) (Result, error) {
	if s.panic {
		panic("boom")
	}
	if s.err != nil {
		return Result{}, s.err
	}
	d := NewDetails()
	d.Set("analysis", "stub analysis")
	return Result{Score: s.score, Details: d}, nil
}

func TestAggregatorAveragesRequestedCriteria(t *testing.T) {
	agg := NewAggregator(zap.NewNop(),
		stubScorer{name: "relevance", score: 0.9},
		stubScorer{name: "accuracy", score: 0.7},
	)

	res := agg.Evaluate(context.Background(), Input{Query: "q", Answer: "a"}, nil)
	require.Equal(t, []string{"relevance", "accuracy"}, res.Criteria)
	require.InDelta(t, 0.8, res.OverallScore, 1e-9)
	require.Equal(t, 0.9, res.DetailedScores["relevance"])
	require.Equal(t, []string{allGoodMessage}, res.Recommendations)
}

func TestAggregatorSkipsUnknownCriteria(t *testing.T) {
	agg := NewAggregator(zap.NewNop(), stubScorer{name: "relevance", score: 0.9})

	res := agg.Evaluate(context.Background(), Input{Query: "q", Answer: "a"},
		[]string{"relevance", "sentiment"})

	require.Equal(t, []string{"relevance"}, res.Criteria)
	require.Equal(t, 0.9, res.OverallScore)
	_, present := res.DetailedScores["sentiment"]
	require.False(t, present)
}

func TestAggregatorExplicitEmptyCriteria(t *testing.T) {
	agg := NewAggregator(zap.NewNop(),
		stubScorer{name: "relevance", score: 0.9},
		stubScorer{name: "accuracy", score: 0.7},
	)

	res := agg.Evaluate(context.Background(), Input{Query: "q", Answer: "a"}, []string{})

	require.Empty(t, res.Criteria)
	require.Empty(t, res.DetailedScores)
	require.Equal(t, 0.0, res.OverallScore)
	require.Equal(t, []string{allGoodMessage}, res.Recommendations)
}

func TestAggregatorRecommendsBelowThreshold(t *testing.T) {
	agg := NewAggregator(zap.NewNop(),
		stubScorer{name: "relevance", score: 0.4},
		stubScorer{name: "completeness", score: 0.9},
	)

	res := agg.Evaluate(context.Background(), Input{Query: "q", Answer: "a"}, nil)
	require.Equal(t, []string{
		"Consider making the answer more relevant to the specific query",
	}, res.Recommendations)
}

func TestAggregatorIsolatesFailures(t *testing.T) {
	agg := NewAggregator(zap.NewNop(),
		stubScorer{name: "relevance", score: 0.8},
		stubScorer{name: "accuracy", err: errors.New("scorer broke")},
		stubScorer{name: "coherence", panic: true},
	)

	res := agg.Evaluate(context.Background(), Input{Query: "q", Answer: "a"}, nil)

	require.Equal(t, []string{"relevance", "accuracy", "coherence"}, res.Criteria)
	require.Equal(t, 0.0, res.DetailedScores["accuracy"])
	require.Equal(t, 0.0, res.DetailedScores["coherence"])
	require.InDelta(t, 0.8/3, res.OverallScore, 1e-9)

	require.Equal(t, "scorer broke", res.Errors["accuracy"])
	require.Contains(t, res.Errors["coherence"], "panicked")
}

func TestAggregatorEmptyRegistry(t *testing.T) {
	agg := NewAggregator(nil)
	res := agg.Evaluate(context.Background(), Input{Query: "q", Answer: "a"}, nil)
	require.Equal(t, 0.0, res.OverallScore)
	require.Empty(t, res.Criteria)
	require.Equal(t, []string{allGoodMessage}, res.Recommendations)
}

func TestAggregatorRegisterReplacesInPlace(t *testing.T) {
	agg := NewAggregator(zap.NewNop(),
		stubScorer{name: "relevance", score: 0.2},
		stubScorer{name: "accuracy", score: 0.5},
	)
	agg.Register(stubScorer{name: "relevance", score: 0.9})

	require.Equal(t, []string{"relevance", "accuracy"}, agg.Dimensions())

	res := agg.Evaluate(context.Background(), Input{Query: "q", Answer: "a"},
		[]string{"relevance"})
	require.Equal(t, 0.9, res.OverallScore)
}
