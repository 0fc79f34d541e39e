package core

import "context"

// Scorer grades one quality dimension of an answer. Implementations are
// stateless value types: Score never mutates shared state and is safe to
// call concurrently.
type Scorer interface {
	Name() string
	Description() string
	ScoreRange() (min, max float64)
	Score(ctx context.Context, input Input) (Result, error)
}

// Result is one dimension's score plus the sub-scores behind it. Score is
// always within the scorer's range; Details always carries the rounded
// sub-scores and an analysis string.
type Result struct {
	Score   float64  `json:"score"`
	Details *Details `json:"details"`
}
