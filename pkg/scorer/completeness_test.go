package scorer

import (
	"context"
	"testing"

	"gradeval/pkg/core"

	"github.com/stretchr/testify/require"
)

func TestCompletenessShallowAnswer(t *testing.T) {
	sc := Completeness{}
	res, err := sc.Score(context.Background(), core.Input{
		Query:  "Explain how photosynthesis works in plants.",
		Answer: "Plants make food.",
	})
	require.NoError(t, err)

	depth, ok := res.Details.Float("depth_score")
	require.True(t, ok)
	require.LessOrEqual(t, depth, 0.3)

	length, ok := res.Details.Get("response_length")
	require.True(t, ok)
	require.Equal(t, 3, length)
}

func TestCompletenessThoroughAnswerScoresHigher(t *testing.T) {
	sc := Completeness{}
	query := "Explain how photosynthesis works in plants."

	thorough, err := sc.Score(context.Background(), core.Input{
		Query: query,
		Answer: "Photosynthesis is the process by which plants convert light energy into chemical energy. " +
			"First, chlorophyll in the leaves absorbs sunlight. Then the plant uses this energy to split " +
			"water molecules and combine carbon dioxide into glucose. For example, a single leaf can produce " +
			"enough sugar to fuel its own growth because the reaction is highly efficient. Additionally, " +
			"oxygen is released as a result of the process, which has a major impact on the atmosphere.",
	})
	require.NoError(t, err)

	shallow, err := sc.Score(context.Background(), core.Input{
		Query:  query,
		Answer: "Plants make food.",
	})
	require.NoError(t, err)

	require.Greater(t, thorough.Score, shallow.Score)
}

func TestCompletenessQueryAspects(t *testing.T) {
	aspects := analyzeQueryAspects("Compare the advantages and disadvantages of solar and wind power, and give examples.")
	require.Equal(t, "comparison", aspects.QuestionType)
	require.Equal(t, "high", aspects.Complexity)
	require.True(t, aspects.MultipleParts)
	require.True(t, aspects.RequiresExamples)
	require.True(t, aspects.RequiresComparison)
	require.Contains(t, aspects.KeyTopics, "solar")
	require.Contains(t, aspects.KeyTopics, "wind")
}

func TestCompletenessQuestionTypes(t *testing.T) {
	require.Equal(t, "definition/explanation", questionType("What is entropy?"))
	require.Equal(t, "process/method", questionType("How does a compiler work?"))
	require.Equal(t, "reasoning/cause", questionType("Why is the sky blue?"))
	require.Equal(t, "temporal", questionType("When did the war end?"))
	require.Equal(t, "location", questionType("Where is the Nile?"))
	require.Equal(t, "person/entity", questionType("Who wrote Hamlet?"))
	require.Equal(t, "enumeration", questionType("List the planets."))
	require.Equal(t, "explanation", questionType("Describe the water cycle."))
	require.Equal(t, "general", questionType("Tell me about dogs."))
}

func TestCompletenessKeyTopicsOrder(t *testing.T) {
	topics := keyTopics("What makes the ocean salty and the ocean deep?")
	require.Equal(t, []string{"makes", "ocean", "salty", "deep"}, topics)
}

func TestCompletenessExpectedCoverage(t *testing.T) {
	full := expectedCoverage(
		"Water boils at 100 degrees celsius. Salt raises the boiling point.",
		"Water boils at 100 degrees celsius. Salt raises the boiling point.",
	)
	require.Equal(t, 1.0, full)

	partial := expectedCoverage(
		"Water boils at 100 degrees celsius.",
		"Water boils at 100 degrees celsius. Salt raises the boiling point of water significantly.",
	)
	require.Equal(t, 0.5, partial)

	require.Equal(t, neutralExpectedCoverage, expectedCoverage("anything", ""))
}

func TestCompletenessAnalysisSuffix(t *testing.T) {
	require.Contains(t, completenessAnalysis(0.9, "high"), "complex query with multiple aspects")
	require.Contains(t, completenessAnalysis(0.5, "low"), "straightforward query")
	require.Contains(t, completenessAnalysis(0.5, "medium"), "moderately complex query")
}
