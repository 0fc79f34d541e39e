package reporter

import (
	"html/template"
	"io"
	"strings"

	"gradeval/pkg/core"
)

type HTMLReporter struct {
	Writer io.Writer
	Title  string
}

func (r HTMLReporter) Report(report core.BatchReport) error {
	title := r.Title
	if title == "" {
		title = "Gradeval Report"
	}

	data := struct {
		Title  string
		Report core.BatchReport
	}{
		Title:  title,
		Report: report,
	}

	tpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"join": func(items []string) string { return strings.Join(items, "; ") },
	}).Parse(htmlTemplate))
	return tpl.Execute(r.Writer, data)
}

const htmlTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 24px; }
    table { border-collapse: collapse; width: 100%; margin-top: 16px; }
    th, td { border: 1px solid #ddd; padding: 8px; }
    th { background: #f5f5f5; text-align: left; }
    .meta { margin-bottom: 12px; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <div class="meta">
    <div><strong>Dataset:</strong> {{ .Report.DatasetName }}</div>
    {{ if .Report.ProducerName }}<div><strong>Producer:</strong> {{ .Report.ProducerName }}</div>{{ end }}
    <div><strong>Criteria:</strong> {{ join .Report.Criteria }}</div>
  </div>
  <h2>Summary</h2>
  <table>
    <tr><th>Metric</th><th>Value</th></tr>
    <tr><td>Total records</td><td>{{ .Report.Metrics.TotalRecords }}</td></tr>
    <tr><td>Failed records</td><td>{{ .Report.Metrics.FailedRecords }}</td></tr>
    <tr><td>Average overall</td><td>{{ printf "%.3f" .Report.Metrics.AverageOverall }}</td></tr>
    <tr><td>Median overall</td><td>{{ printf "%.3f" .Report.Metrics.MedianOverall }}</td></tr>
    <tr><td>P95 overall</td><td>{{ printf "%.3f" .Report.Metrics.P95Overall }}</td></tr>
    <tr><td>Below threshold</td><td>{{ .Report.Metrics.BelowThreshold }}</td></tr>
  </table>
  <h2>Records</h2>
  <table>
    <tr><th>ID</th><th>Query</th><th>Answer</th><th>Overall</th><th>Recommendations</th><th>Error</th></tr>
    {{ range .Report.Results }}
    <tr>
      <td>{{ .Record.ID }}</td>
      <td>{{ .Record.Query }}</td>
      <td>{{ .Answer }}</td>
      <td>{{ printf "%.3f" .Evaluation.OverallScore }}</td>
      <td>{{ join .Evaluation.Recommendations }}</td>
      <td>{{ .Error }}</td>
    </tr>
    {{ end }}
  </table>
</body>
</html>
`
