package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Runner grades a dataset through an aggregator. Producer is optional: when
// set, records without an answer get one drafted before grading.
type Runner struct {
	Dataset      Dataset
	Aggregator   *Aggregator
	Producer     Model
	Options      GenerateOptions
	Criteria     []string
	Workers      int
	Limiter      RateLimiter
	Progress     func(completed, total int)
	TotalRecords int
}

// Run executes the batch and returns a report.
func (r *Runner) Run(ctx context.Context) (BatchReport, error) {
	if r.Dataset == nil || r.Aggregator == nil {
		return BatchReport{}, errors.New("runner: dataset and aggregator are required")
	}

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	started := time.Now()
	recordCh, errCh := r.Dataset.Records(ctx)

	resultsCh := make(chan RecordResult, workers)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for record := range recordCh {
			select {
			case <-ctx.Done():
				return
			default:
			}

			result := r.gradeRecord(ctx, record)
			select {
			case resultsCh <- result:
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var results []RecordResult
	var datasetErr error
	for {
		select {
		case <-ctx.Done():
			return BatchReport{}, ctx.Err()
		case err, ok := <-errCh:
			if !ok {
				// Stop selecting on the closed channel; it would
				// otherwise win every iteration until resultsCh closes.
				errCh = nil
				continue
			}
			if err != nil && datasetErr == nil {
				datasetErr = err
			}
		case result, ok := <-resultsCh:
			if !ok {
				if datasetErr != nil {
					return BatchReport{}, datasetErr
				}
				report := BatchReport{
					RunID:       uuid.NewString(),
					DatasetName: r.Dataset.Name(),
					Criteria:    r.criteria(),
					Metrics:     calculateBatchMetrics(results),
					Results:     results,
					StartedAt:   started,
					FinishedAt:  time.Now(),
				}
				if r.Producer != nil {
					report.ProducerName = r.Producer.Name()
				}
				return report, nil
			}
			results = append(results, result)
			if r.Progress != nil {
				r.Progress(len(results), r.TotalRecords)
			}
		}
	}
}

func (r *Runner) criteria() []string {
	if len(r.Criteria) > 0 {
		return r.Criteria
	}
	return r.Aggregator.Dimensions()
}

func (r *Runner) gradeRecord(ctx context.Context, record Record) RecordResult {
	start := time.Now()
	result := RecordResult{Record: record, Answer: record.Answer}

	if record.Answer == "" && r.Producer != nil {
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				result.Error = err.Error()
				result.Duration = time.Since(start)
				return result
			}
		}
		response, err := r.Producer.Generate(ctx, draftPrompt(record), r.Options)
		if err != nil {
			result.Error = err.Error()
			result.Duration = time.Since(start)
			return result
		}
		result.Answer = response.Content
		result.Response = &response
	}

	result.Evaluation = r.Aggregator.Evaluate(ctx, record.Input(result.Answer), r.criteria())
	result.Duration = time.Since(start)
	return result
}

func draftPrompt(record Record) string {
	var b strings.Builder
	b.WriteString("Answer the question as accurately and completely as you can.\n")
	if record.Context != "" {
		fmt.Fprintf(&b, "Context: %s\n", record.Context)
	}
	fmt.Fprintf(&b, "Question: %s\nAnswer:", record.Query)
	return b.String()
}

func calculateBatchMetrics(results []RecordResult) BatchMetrics {
	if len(results) == 0 {
		return BatchMetrics{}
	}

	overall := make([]float64, 0, len(results))
	dimensionSums := make(map[string]float64)
	dimensionCounts := make(map[string]int)
	latencies := make([]time.Duration, 0, len(results))
	var failed, belowThreshold int
	var totalTokens TokenUsage

	for _, result := range results {
		if result.Error != "" {
			failed++
			continue
		}
		overall = append(overall, result.Evaluation.OverallScore)
		if result.Evaluation.OverallScore < adviceThreshold {
			belowThreshold++
		}
		for dimension, score := range result.Evaluation.DetailedScores {
			dimensionSums[dimension] += score
			dimensionCounts[dimension]++
		}
		if result.Response != nil {
			latencies = append(latencies, result.Response.Latency)
			totalTokens.PromptTokens += result.Response.TokenUsage.PromptTokens
			totalTokens.CompletionTokens += result.Response.TokenUsage.CompletionTokens
			totalTokens.TotalTokens += result.Response.TokenUsage.TotalTokens
		}
	}

	dimensionAverages := make(map[string]float64, len(dimensionSums))
	for dimension, sum := range dimensionSums {
		dimensionAverages[dimension] = sum / float64(dimensionCounts[dimension])
	}

	return BatchMetrics{
		TotalRecords:      len(results),
		FailedRecords:     failed,
		AverageOverall:    average(overall),
		MedianOverall:     percentile(overall, 0.50),
		P95Overall:        percentile(overall, 0.95),
		DimensionAverages: dimensionAverages,
		BelowThreshold:    belowThreshold,
		TokenUsage:        totalTokens,
		AvgLatency:        averageDuration(latencies),
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	copied := make([]float64, len(values))
	copy(copied, values)
	sort.Float64s(copied)

	if p <= 0 {
		return copied[0]
	}
	if p >= 1 {
		return copied[len(copied)-1]
	}

	index := p * float64(len(copied)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return copied[lower]
	}
	weight := index - float64(lower)
	return copied[lower]*(1-weight) + copied[upper]*weight
}

func averageDuration(values []time.Duration) time.Duration {
	if len(values) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range values {
		sum += v
	}
	return time.Duration(int64(sum) / int64(len(values)))
}
