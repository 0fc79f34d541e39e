package reporter

import (
	"fmt"
	"io"
	"strings"

	"gradeval/pkg/core"
)

type MarkdownReporter struct {
	Writer io.Writer
}

func (r MarkdownReporter) Report(report core.BatchReport) error {
	if _, err := fmt.Fprintf(r.Writer, "# Gradeval Report\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "- Dataset: %s\n", report.DatasetName); err != nil {
		return err
	}
	if report.ProducerName != "" {
		if _, err := fmt.Fprintf(r.Writer, "- Producer: %s\n", report.ProducerName); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(r.Writer, "- Criteria: %s\n\n", strings.Join(report.Criteria, ", ")); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(r.Writer, "## Summary\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| Metric | Value |\n|---|---|\n"); err != nil {
		return err
	}
	lines := []struct {
		Name  string
		Value string
	}{
		{"Total records", fmt.Sprintf("%d", report.Metrics.TotalRecords)},
		{"Failed records", fmt.Sprintf("%d", report.Metrics.FailedRecords)},
		{"Average overall", fmt.Sprintf("%.3f", report.Metrics.AverageOverall)},
		{"Median overall", fmt.Sprintf("%.3f", report.Metrics.MedianOverall)},
		{"P95 overall", fmt.Sprintf("%.3f", report.Metrics.P95Overall)},
		{"Below threshold", fmt.Sprintf("%d", report.Metrics.BelowThreshold)},
	}
	for _, dimension := range sortedDimensions(report.Metrics.DimensionAverages) {
		lines = append(lines, struct {
			Name  string
			Value string
		}{
			fmt.Sprintf("Avg %s", dimension),
			fmt.Sprintf("%.3f", report.Metrics.DimensionAverages[dimension]),
		})
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(r.Writer, "| %s | %s |\n", line.Name, line.Value); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(r.Writer, "\n## Records\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.Writer, "| ID | Query | Answer | Overall | Recommendations | Error |\n|---|---|---|---|---|---|\n"); err != nil {
		return err
	}
	for _, result := range report.Results {
		if _, err := fmt.Fprintf(
			r.Writer,
			"| %s | %s | %s | %.3f | %s | %s |\n",
			result.Record.ID,
			escapePipe(result.Record.Query),
			escapePipe(result.Answer),
			result.Evaluation.OverallScore,
			escapePipe(strings.Join(result.Evaluation.Recommendations, "; ")),
			escapePipe(result.Error),
		); err != nil {
			return err
		}
	}
	return nil
}

func escapePipe(input string) string {
	if input == "" {
		return ""
	}
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if r == '|' {
			out = append(out, '\\', r)
		} else if r == '\n' || r == '\r' {
			out = append(out, ' ')
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}
