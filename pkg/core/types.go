package core

import "time"

// Response is a producer model response plus basic telemetry.
type Response struct {
	Content    string        `json:"content" yaml:"content"`
	TokenUsage TokenUsage    `json:"token_usage" yaml:"token_usage"`
	Latency    time.Duration `json:"latency" yaml:"latency"`
}

// TokenUsage captures token accounting for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" yaml:"total_tokens"`
}

// GenerateOptions controls producer generation behavior.
type GenerateOptions struct {
	Temperature  float32  `json:"temperature" yaml:"temperature"`
	MaxTokens    int      `json:"max_tokens" yaml:"max_tokens"`
	TopP         float32  `json:"top_p" yaml:"top_p"`
	Stop         []string `json:"stop" yaml:"stop"`
	SystemPrompt string   `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}

// RecordResult captures the outcome for one dataset record.
type RecordResult struct {
	Record     Record          `json:"record" yaml:"record"`
	Answer     string          `json:"answer" yaml:"answer"`
	Response   *Response       `json:"response,omitempty" yaml:"response,omitempty"`
	Evaluation AggregateResult `json:"evaluation" yaml:"evaluation"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
	Duration   time.Duration   `json:"duration" yaml:"duration"`
}

// BatchReport summarizes a batch grading run.
type BatchReport struct {
	RunID        string            `json:"run_id" yaml:"run_id"`
	DatasetName  string            `json:"dataset_name" yaml:"dataset_name"`
	ProducerName string            `json:"producer_name,omitempty" yaml:"producer_name,omitempty"`
	Criteria     []string          `json:"criteria" yaml:"criteria"`
	Metrics      BatchMetrics      `json:"metrics" yaml:"metrics"`
	Results      []RecordResult    `json:"results" yaml:"results"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	StartedAt    time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time         `json:"finished_at" yaml:"finished_at"`
}

// BatchMetrics aggregates batch statistics.
type BatchMetrics struct {
	TotalRecords      int                `json:"total_records" yaml:"total_records"`
	FailedRecords     int                `json:"failed_records" yaml:"failed_records"`
	AverageOverall    float64            `json:"average_overall" yaml:"average_overall"`
	MedianOverall     float64            `json:"median_overall" yaml:"median_overall"`
	P95Overall        float64            `json:"p95_overall" yaml:"p95_overall"`
	DimensionAverages map[string]float64 `json:"dimension_averages" yaml:"dimension_averages"`
	BelowThreshold    int                `json:"below_threshold" yaml:"below_threshold"`
	TokenUsage        TokenUsage         `json:"token_usage" yaml:"token_usage"`
	AvgLatency        time.Duration      `json:"avg_latency" yaml:"avg_latency"`
}
