package reporter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"gradeval/pkg/core"
)

type CSVReporter struct {
	Writer io.Writer
}

func (r CSVReporter) Report(report core.BatchReport) error {
	writer := csv.NewWriter(r.Writer)
	header := []string{"id", "query", "answer", "expected", "overall_score"}
	header = append(header, report.Criteria...)
	header = append(header, "recommendations", "error", "duration_seconds")
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, result := range report.Results {
		row := []string{
			result.Record.ID,
			result.Record.Query,
			result.Answer,
			result.Record.Expected,
			strconv.FormatFloat(result.Evaluation.OverallScore, 'f', 4, 64),
		}
		for _, criterion := range report.Criteria {
			score, ok := result.Evaluation.DetailedScores[criterion]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(score, 'f', 4, 64))
		}
		row = append(row,
			strings.Join(result.Evaluation.Recommendations, "; "),
			result.Error,
			strconv.FormatFloat(result.Duration.Seconds(), 'f', 6, 64),
		)
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
