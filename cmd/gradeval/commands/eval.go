package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gradeval/pkg/cache"
	"gradeval/pkg/core"
	"gradeval/pkg/dataset"
	"gradeval/pkg/model"
	"gradeval/pkg/reporter"
	"gradeval/pkg/scorer"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newEvalCommand() *cobra.Command {
	var (
		datasetPath    string
		criteria       []string
		workers        int
		outputPath     string
		format         string
		provider       string
		modelName      string
		mockResponse   string
		rateLimitRPS   float64
		rateLimitBurst int
		useCache       bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Grade a dataset of query/answer records",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveString(datasetPath, appConfig.Dataset)
			if path == "" {
				return errors.New("dataset path is required")
			}
			criteriaResolved := criteria
			if len(criteriaResolved) == 0 {
				criteriaResolved = appConfig.Criteria
			}
			formatResolved := resolveString(format, appConfig.Format)
			if formatResolved == "" {
				formatResolved = "table"
			}
			outputResolved := resolveString(outputPath, appConfig.Output)
			providerResolved := resolveString(provider, appConfig.Provider)
			modelResolved := resolveString(modelName, appConfig.Model.Name)
			mockResolved := resolveString(mockResponse, appConfig.Model.MockResponse)
			workerCount := resolveInt(workers, appConfig.Workers, 1)
			rpsResolved := rateLimitRPS
			if rpsResolved <= 0 {
				rpsResolved = appConfig.RateLimitRPS
			}

			ds := dataset.NewFileDataset(path)
			totalRecords, err := ds.Len(context.Background())
			if err != nil {
				return err
			}

			aggregator := core.NewAggregator(logger,
				scorer.Relevance{},
				scorer.Accuracy{},
				scorer.Coherence{},
				scorer.Completeness{},
			)

			var limiter core.RateLimiter
			stopLimiter := func() {}
			if rpsResolved > 0 {
				burst := rateLimitBurst
				if burst <= 0 {
					burst = appConfig.RateLimitBurst
				}
				rl, stop, err := core.NewRateLimiter(rpsResolved, burst)
				if err != nil {
					return err
				}
				limiter = rl
				stopLimiter = stop
				defer stopLimiter()
			}

			producer, err := buildProducer(providerResolved, modelResolved, mockResolved)
			if err != nil {
				return err
			}
			if producer != nil && useCache {
				responseCache, err := cache.New(appConfig.CacheDir, time.Duration(appConfig.CacheTTLHours)*time.Hour)
				if err != nil {
					return err
				}
				producer = model.CachedProducer{Model: producer, Cache: responseCache}
			}

			progress := newProgressBar(progressWriter(cmd), totalRecords)
			progress.Update(0)

			runner := core.Runner{
				Dataset:      ds,
				Aggregator:   aggregator,
				Producer:     producer,
				Criteria:     criteriaResolved,
				Workers:      workerCount,
				Limiter:      limiter,
				TotalRecords: totalRecords,
				Progress: func(completed, _ int) {
					progress.Update(completed)
				},
			}

			report, err := runner.Run(context.Background())
			if err != nil {
				return err
			}
			if report.Metadata == nil {
				report.Metadata = map[string]string{}
			}
			if providerResolved != "" {
				report.Metadata["provider"] = providerResolved
			}

			writer := os.Stdout
			if outputResolved != "" {
				file, err := os.Create(outputResolved)
				if err != nil {
					return err
				}
				defer file.Close()
				writer = file
			}

			rep, err := buildReporter(formatResolved, writer)
			if err != nil {
				return err
			}
			return rep.Report(report)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "path to dataset file (json or jsonl)")
	cmd.Flags().StringSliceVar(&criteria, "criteria", nil, "criteria to grade (relevance, accuracy, coherence, completeness)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers")
	cmd.Flags().StringVar(&outputPath, "output", "", "output file path")
	cmd.Flags().StringVar(&format, "format", "", "output format (table, json, html, markdown, csv)")
	cmd.Flags().StringVar(&provider, "provider", "", "producer provider for records without answers (mock, openai, anthropic, gemini, ollama)")
	cmd.Flags().StringVar(&modelName, "model", "", "producer model name")
	cmd.Flags().StringVar(&mockResponse, "mock-response", "", "fixed mock producer response")
	cmd.Flags().Float64Var(&rateLimitRPS, "rate-limit-rps", 0, "max producer requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&rateLimitBurst, "rate-limit-burst", 1, "rate limit burst size")
	cmd.Flags().BoolVar(&useCache, "cache", false, "cache producer responses on disk")

	return cmd
}

// buildProducer returns nil when no provider is configured; records then
// must carry their own answers.
func buildProducer(provider, modelName, mockResponse string) (core.Model, error) {
	if provider == "" {
		return nil, nil
	}
	if provider == "mock" {
		return model.MockProducer{NameValue: modelName, ResponseText: mockResponse}, nil
	}

	producer, err := model.New(provider, modelName, appConfig.Ollama.BaseURL)
	if err != nil {
		return nil, err
	}

	switch p := producer.(type) {
	case *model.OpenAIProducer:
		applyPolicy(&p.Policy, appConfig.OpenAI)
		if appConfig.OpenAI.Model != "" && modelName == "" {
			p.Model = appConfig.OpenAI.Model
		}
	case *model.AnthropicProducer:
		cfg := appConfig.Anthropic
		applyPolicy(&p.Policy, ProviderConfig{
			TimeoutSeconds: cfg.TimeoutSeconds,
			MaxRetries:     cfg.MaxRetries,
			BackoffMillis:  cfg.BackoffMillis,
		})
		if cfg.Model != "" && modelName == "" {
			p.Model = cfg.Model
		}
		if cfg.MaxTokens > 0 {
			p.MaxTokens = cfg.MaxTokens
		}
	case *model.GeminiProducer:
		applyPolicy(&p.Policy, appConfig.Gemini)
		if appConfig.Gemini.Model != "" && modelName == "" {
			p.Model = appConfig.Gemini.Model
		}
	}
	return producer, nil
}

func applyPolicy(policy *model.RetryPolicy, cfg ProviderConfig) {
	if cfg.TimeoutSeconds > 0 {
		policy.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		policy.MaxRetries = cfg.MaxRetries
	}
	if cfg.BackoffMillis > 0 {
		policy.Backoff = time.Duration(cfg.BackoffMillis) * time.Millisecond
	}
}

func buildReporter(format string, writer io.Writer) (reporter.Reporter, error) {
	switch format {
	case reporter.FormatJSON:
		return reporter.JSONReporter{Writer: writer, Pretty: true}, nil
	case reporter.FormatTable:
		return reporter.TableReporter{Writer: writer}, nil
	case reporter.FormatHTML:
		return reporter.HTMLReporter{Writer: writer}, nil
	case reporter.FormatMarkdown:
		return reporter.MarkdownReporter{Writer: writer}, nil
	case reporter.FormatCSV:
		return reporter.CSVReporter{Writer: writer}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

type progressBar struct {
	writer io.Writer
	total  int
	start  time.Time
	isTTY  bool
}

func newProgressBar(writer io.Writer, total int) *progressBar {
	return &progressBar{
		writer: writer,
		total:  total,
		start:  time.Now(),
		isTTY:  isTerminal(writer),
	}
}

func (p *progressBar) Update(completed int) {
	width := 30
	if p.total <= 0 {
		elapsed := time.Since(p.start).Truncate(time.Second)
		if p.isTTY {
			fmt.Fprintf(p.writer, "\rGraded %d records (%s)", completed, elapsed)
		} else {
			fmt.Fprintf(p.writer, "Graded %d records (%s)\n", completed, elapsed)
		}
		return
	}

	ratio := float64(completed) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))

	bar := strings.Repeat("=", filled) + strings.Repeat(".", width-filled)
	percent := int(ratio * 100)
	elapsed := time.Since(p.start).Truncate(time.Second)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	line := fmt.Sprintf("[%s] %3d%% (%d/%d) %s", barStyle.Render(bar), percent, completed, p.total, elapsed)
	if p.isTTY {
		fmt.Fprintf(p.writer, "\r%s", line)
	} else {
		fmt.Fprintf(p.writer, "%s\n", line)
	}

	if completed >= p.total {
		fmt.Fprintln(p.writer)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func progressWriter(cmd *cobra.Command) io.Writer {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	if isTerminal(stderr) {
		return stderr
	}
	if isTerminal(stdout) {
		return stdout
	}
	return stderr
}

func resolveString(value string, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func resolveInt(value int, fallback int, defaultValue int) int {
	if value > 0 {
		return value
	}
	if fallback > 0 {
		return fallback
	}
	return defaultValue
}
