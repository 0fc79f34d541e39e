package textmetrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("First sentence. Second one! Third?")
	require.Equal(t, []string{"First sentence", "Second one", "Third"}, sentences)
}

func TestSplitSentencesCollapsesRuns(t *testing.T) {
	sentences := SplitSentences("Really?! Yes... Fine.")
	require.Equal(t, []string{"Really", "Yes", "Fine"}, sentences)
}

func TestSplitSentencesEmpty(t *testing.T) {
	require.Empty(t, SplitSentences(""))
	require.Empty(t, SplitSentences("   "))
	require.Empty(t, SplitSentences("..."))
}

func TestCountWords(t *testing.T) {
	require.Equal(t, 0, CountWords(""))
	require.Equal(t, 3, CountWords("  one   two three "))
}

func TestSimilarity(t *testing.T) {
	require.Equal(t, 1.0, Similarity("", ""))
	require.Equal(t, 0.0, Similarity("hello", ""))
	require.Equal(t, 0.0, Similarity("", "hello"))
	require.Equal(t, 1.0, Similarity("Hello World", "world hello"))
	require.Equal(t, 0.0, Similarity("cat dog", "fish bird"))

	// {a, b} vs {b, c}: one shared, three total.
	require.InDelta(t, 1.0/3.0, Similarity("a b", "b c"), 1e-9)
}
