package core_test

import (
	"context"
	"errors"
	"testing"

	"gradeval/pkg/core"
	"gradeval/pkg/dataset"
	"gradeval/pkg/model"
	"gradeval/pkg/scorer"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAggregator() *core.Aggregator {
	return core.NewAggregator(zap.NewNop(),
		scorer.Relevance{},
		scorer.Accuracy{},
		scorer.Coherence{},
		scorer.Completeness{},
	)
}

func TestRunnerGradesRecordsWithAnswers(t *testing.T) {
	ds := dataset.NewSliceDataset([]core.Record{
		{ID: "1", Query: "What is the capital of France?", Answer: "The capital of France is Paris."},
		{ID: "2", Query: "What is the capital of Japan?", Answer: "The capital of Japan is Tokyo."},
	}, "capitals")

	runner := core.Runner{
		Dataset:    ds,
		Aggregator: testAggregator(),
		Workers:    2,
	}

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, "capitals", report.DatasetName)
	require.Equal(t, []string{"relevance", "accuracy", "coherence", "completeness"}, report.Criteria)
	require.Equal(t, 2, report.Metrics.TotalRecords)
	require.Equal(t, 0, report.Metrics.FailedRecords)
	require.Len(t, report.Results, 2)

	for _, result := range report.Results {
		require.Empty(t, result.Error)
		require.Len(t, result.Evaluation.Criteria, 4)
		require.GreaterOrEqual(t, result.Evaluation.OverallScore, 0.0)
		require.LessOrEqual(t, result.Evaluation.OverallScore, 1.0)
	}
}

func TestRunnerDraftsMissingAnswers(t *testing.T) {
	ds := dataset.NewSliceDataset([]core.Record{
		{ID: "1", Query: "What is the capital of France?"},
	}, "drafted")

	runner := core.Runner{
		Dataset:    ds,
		Aggregator: testAggregator(),
		Producer:   model.MockProducer{ResponseText: "The capital of France is Paris."},
	}

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "mock", report.ProducerName)
	require.Len(t, report.Results, 1)
	require.Equal(t, "The capital of France is Paris.", report.Results[0].Answer)
	require.NotNil(t, report.Results[0].Response)
}

func TestRunnerRestrictsCriteria(t *testing.T) {
	ds := dataset.NewSliceDataset([]core.Record{
		{ID: "1", Query: "What is water?", Answer: "Water is a liquid made of hydrogen and oxygen."},
	}, "restricted")

	runner := core.Runner{
		Dataset:    ds,
		Aggregator: testAggregator(),
		Criteria:   []string{"relevance", "coherence"},
	}

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"relevance", "coherence"}, report.Criteria)

	evaluation := report.Results[0].Evaluation
	require.Equal(t, []string{"relevance", "coherence"}, evaluation.Criteria)
	_, scored := evaluation.DetailedScores["accuracy"]
	require.False(t, scored)
}

// faultyDataset delivers some records, then reports a stream error. Its
// error channel closes before the workers finish, like a file stream that
// fails partway through.
type faultyDataset struct {
	records []core.Record
	err     error
}

func (d faultyDataset) Name() string { return "faulty" }

func (d faultyDataset) Len(context.Context) (int, error) { return len(d.records), nil }

func (d faultyDataset) Records(ctx context.Context) (<-chan core.Record, <-chan error) {
	recordCh := make(chan core.Record)
	errCh := make(chan error, 1)
	go func() {
		defer close(recordCh)
		defer close(errCh)
		for _, record := range d.records {
			select {
			case recordCh <- record:
			case <-ctx.Done():
				return
			}
		}
		errCh <- d.err
	}()
	return recordCh, errCh
}

func TestRunnerSurfacesDatasetError(t *testing.T) {
	ds := faultyDataset{
		records: []core.Record{
			{ID: "1", Query: "What is water?", Answer: "Water is a liquid made of hydrogen and oxygen."},
		},
		err: errors.New("stream truncated"),
	}

	runner := core.Runner{
		Dataset:    ds,
		Aggregator: testAggregator(),
	}

	_, err := runner.Run(context.Background())
	require.EqualError(t, err, "stream truncated")
}

func TestRunnerRequiresDatasetAndAggregator(t *testing.T) {
	runner := core.Runner{}
	_, err := runner.Run(context.Background())
	require.Error(t, err)
}
