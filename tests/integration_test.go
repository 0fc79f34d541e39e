package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gradeval/pkg/core"
	"gradeval/pkg/dataset"
	"gradeval/pkg/model"
	"gradeval/pkg/reporter"
	"gradeval/pkg/scorer"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fullAggregator() *core.Aggregator {
	return core.NewAggregator(zap.NewNop(),
		scorer.Relevance{},
		scorer.Accuracy{},
		scorer.Coherence{},
		scorer.Completeness{},
	)
}

func TestEndToEndGrading(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	lines := `{"id":"1","query":"What is the capital of France?","answer":"The capital of France is Paris."}
{"id":"2","query":"Explain how photosynthesis works in plants.","answer":"Plants make food."}`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o600))

	ds := dataset.NewFileDataset(path)
	runner := core.Runner{
		Dataset:    ds,
		Aggregator: fullAggregator(),
		Workers:    2,
	}

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Metrics.TotalRecords)
	require.Equal(t, 0, report.Metrics.FailedRecords)
	require.Len(t, report.Results, 2)
	require.Len(t, report.Metrics.DimensionAverages, 4)

	byID := map[string]core.RecordResult{}
	for _, result := range report.Results {
		byID[result.Record.ID] = result
		require.GreaterOrEqual(t, result.Evaluation.OverallScore, 0.0)
		require.LessOrEqual(t, result.Evaluation.OverallScore, 1.0)
		require.NotEmpty(t, result.Evaluation.Recommendations)
	}

	// A direct answer should outscore a three-word response to a complex query.
	require.Greater(t, byID["1"].Evaluation.OverallScore, byID["2"].Evaluation.OverallScore)
}

func TestEndToEndWithProducer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	content := `{"id":"1","query":"What is the capital of Japan?"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	ds := dataset.NewFileDataset(path)
	runner := core.Runner{
		Dataset:    ds,
		Aggregator: fullAggregator(),
		Producer:   model.MockProducer{ResponseText: "The capital of Japan is Tokyo."},
	}

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "mock", report.ProducerName)
	require.Len(t, report.Results, 1)
	require.Equal(t, "The capital of Japan is Tokyo.", report.Results[0].Answer)
	require.Len(t, report.Results[0].Evaluation.Criteria, 4)
}

func TestEndToEndReportFormats(t *testing.T) {
	ds := dataset.NewSliceDataset([]core.Record{
		{ID: "1", Query: "What is water?", Answer: "Water is a compound of hydrogen and oxygen."},
	}, "formats")

	runner := core.Runner{
		Dataset:    ds,
		Aggregator: fullAggregator(),
	}

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	reporters := map[string]func(*os.File) reporter.Reporter{
		"json": func(f *os.File) reporter.Reporter { return reporter.JSONReporter{Writer: f, Pretty: true} },
		"md":   func(f *os.File) reporter.Reporter { return reporter.MarkdownReporter{Writer: f} },
		"csv":  func(f *os.File) reporter.Reporter { return reporter.CSVReporter{Writer: f} },
		"html": func(f *os.File) reporter.Reporter { return reporter.HTMLReporter{Writer: f} },
	}
	for name, build := range reporters {
		f, err := os.Create(filepath.Join(dir, "report."+name))
		require.NoError(t, err)
		require.NoError(t, build(f).Report(report))
		require.NoError(t, f.Close())

		info, err := os.Stat(f.Name())
		require.NoError(t, err)
		require.Greater(t, info.Size(), int64(0), name)
	}
}
