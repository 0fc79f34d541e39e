package scorer

import (
	"context"
	"testing"

	"gradeval/pkg/core"

	"github.com/stretchr/testify/require"
)

func allScorers() []core.Scorer {
	return []core.Scorer{Relevance{}, Accuracy{}, Coherence{}, Completeness{}}
}

func TestScoresStayInRange(t *testing.T) {
	inputs := []core.Input{
		{},
		{Query: "?", Answer: "."},
		{Query: "What is the meaning of life?", Answer: ""},
		{Query: "", Answer: "An answer with no question."},
		{Query: "Explain everything.", Answer: "Yes no true false always never all none increase decrease."},
		{Query: "Résumé en français ?", Answer: "Ceci est une réponse avec des accents éàü."},
		{Query: "日本語の質問ですか？", Answer: "はい、そうです。"},
		{
			Query:    "How many moons does Jupiter have?",
			Answer:   "Jupiter has 95 known moons.",
			Expected: "Jupiter has 95 moons.",
		},
	}

	for _, sc := range allScorers() {
		for _, input := range inputs {
			res, err := sc.Score(context.Background(), input)
			require.NoError(t, err, sc.Name())
			require.GreaterOrEqual(t, res.Score, 0.0, "%s on %q", sc.Name(), input.Query)
			require.LessOrEqual(t, res.Score, 1.0, "%s on %q", sc.Name(), input.Query)
			require.NotNil(t, res.Details)

			analysis, ok := res.Details.Get("analysis")
			require.True(t, ok, sc.Name())
			require.NotEmpty(t, analysis, sc.Name())
		}
	}
}

func TestScoringIsDeterministic(t *testing.T) {
	input := core.Input{
		Query:  "Why do seasons change throughout the year?",
		Answer: "Seasons change because the Earth's axis is tilted. As the planet orbits the sun, different hemispheres receive more direct sunlight at different times.",
	}

	for _, sc := range allScorers() {
		first, err := sc.Score(context.Background(), input)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := sc.Score(context.Background(), input)
			require.NoError(t, err)
			require.Equal(t, first.Score, again.Score, sc.Name())
			require.Equal(t, first.Details.Keys(), again.Details.Keys(), sc.Name())
		}
	}
}

func TestScoreRanges(t *testing.T) {
	for _, sc := range allScorers() {
		min, max := sc.ScoreRange()
		require.Equal(t, 0.0, min)
		require.Equal(t, 1.0, max)
		require.NotEmpty(t, sc.Description())
	}
}

func TestRound3(t *testing.T) {
	require.Equal(t, 0.123, round3(0.1234))
	require.Equal(t, 0.124, round3(0.1236))
	require.Equal(t, 1.0, round3(0.9999))
	require.Equal(t, 0.0, round3(0.0))
}
