package reporter

import "gradeval/pkg/core"

// Reporter writes a batch grading report.
type Reporter interface {
	Report(report core.BatchReport) error
}

const (
	FormatJSON     = "json"
	FormatTable    = "table"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)
