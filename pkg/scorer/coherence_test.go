package scorer

import (
	"context"
	"testing"

	"gradeval/pkg/core"

	"github.com/stretchr/testify/require"
)

func TestCoherenceSingleSentence(t *testing.T) {
	sc := Coherence{}
	res, err := sc.Score(context.Background(), core.Input{
		Query:  "What is the capital of France?",
		Answer: "The capital of France is Paris.",
	})
	require.NoError(t, err)

	structure, ok := res.Details.Float("structure_score")
	require.True(t, ok)
	require.Equal(t, 0.7, structure)

	flow, ok := res.Details.Float("flow_score")
	require.True(t, ok)
	require.Equal(t, 0.8, flow)
}

func TestCoherenceShortSingleSentence(t *testing.T) {
	sc := Coherence{}
	res, err := sc.Score(context.Background(), core.Input{
		Query:  "What is water?",
		Answer: "A liquid.",
	})
	require.NoError(t, err)

	structure, ok := res.Details.Float("structure_score")
	require.True(t, ok)
	require.Equal(t, 0.4, structure)
}

func TestCoherenceEmptyAnswer(t *testing.T) {
	sc := Coherence{}
	res, err := sc.Score(context.Background(), core.Input{
		Query:  "What is water?",
		Answer: "",
	})
	require.NoError(t, err)

	structure, ok := res.Details.Float("structure_score")
	require.True(t, ok)
	require.Equal(t, 0.0, structure)
	require.GreaterOrEqual(t, res.Score, 0.0)
	require.LessOrEqual(t, res.Score, 1.0)
}

func TestCoherenceTransitionsImproveFlow(t *testing.T) {
	sc := Coherence{}
	query := "Why does ice float on water?"

	withTransitions, err := sc.Score(context.Background(), core.Input{
		Query:  query,
		Answer: "Ice is less dense than liquid water. The density difference comes from the crystal structure of frozen water. Therefore, ice floats on the surface of liquid water. Lakes freeze from the top down in winter.",
	})
	require.NoError(t, err)

	choppy, err := sc.Score(context.Background(), core.Input{
		Query:  query,
		Answer: "Ice floats. Water is dense. Crystals form. Lakes freeze. Winter comes. Fish survive.",
	})
	require.NoError(t, err)

	flowA, _ := withTransitions.Details.Float("flow_score")
	flowB, _ := choppy.Details.Float("flow_score")
	require.Greater(t, flowA, flowB)
}

func TestCoherenceStructuredListRewarded(t *testing.T) {
	sc := Coherence{}
	res, err := sc.Score(context.Background(), core.Input{
		Query:  "List the primary colors.",
		Answer: "The primary colors are the following. First, red is a primary color. Second, blue is a primary color. Finally, yellow is a primary color.",
	})
	require.NoError(t, err)

	structure, ok := res.Details.Float("structure_score")
	require.True(t, ok)
	require.Greater(t, structure, 0.5)
}
