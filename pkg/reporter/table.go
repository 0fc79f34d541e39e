package reporter

import (
	"fmt"
	"io"
	"sort"

	"gradeval/pkg/core"

	"github.com/olekukonko/tablewriter"
)

type TableReporter struct {
	Writer io.Writer
}

func (r TableReporter) Report(report core.BatchReport) error {
	table := tablewriter.NewWriter(r.Writer)
	table.Header([]string{"Metric", "Value"})
	table.Append([]string{"Dataset", report.DatasetName})
	if report.ProducerName != "" {
		table.Append([]string{"Producer", report.ProducerName})
	}
	table.Append([]string{"Total records", fmt.Sprintf("%d", report.Metrics.TotalRecords)})
	table.Append([]string{"Failed records", fmt.Sprintf("%d", report.Metrics.FailedRecords)})
	table.Append([]string{"Average overall", fmt.Sprintf("%.3f", report.Metrics.AverageOverall)})
	table.Append([]string{"Median overall", fmt.Sprintf("%.3f", report.Metrics.MedianOverall)})
	table.Append([]string{"P95 overall", fmt.Sprintf("%.3f", report.Metrics.P95Overall)})
	table.Append([]string{"Below threshold", fmt.Sprintf("%d", report.Metrics.BelowThreshold)})
	for _, dimension := range sortedDimensions(report.Metrics.DimensionAverages) {
		table.Append([]string{
			fmt.Sprintf("Avg %s", dimension),
			fmt.Sprintf("%.3f", report.Metrics.DimensionAverages[dimension]),
		})
	}
	if report.Metrics.AvgLatency > 0 {
		table.Append([]string{"Avg latency", report.Metrics.AvgLatency.String()})
	}
	table.Render()
	return nil
}

func sortedDimensions(averages map[string]float64) []string {
	out := make([]string, 0, len(averages))
	for dimension := range averages {
		out = append(out, dimension)
	}
	sort.Strings(out)
	return out
}
