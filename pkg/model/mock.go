package model

import (
	"context"
	"time"

	"gradeval/pkg/core"
)

// MockProducer returns a fixed answer or echoes the prompt. Used in tests
// and offline runs.
type MockProducer struct {
	NameValue    string
	ResponseText string
}

func (m MockProducer) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m MockProducer) Generate(_ context.Context, prompt string, _ core.GenerateOptions) (core.Response, error) {
	start := time.Now()
	content := prompt
	if m.ResponseText != "" {
		content = m.ResponseText
	}
	return core.Response{
		Content: content,
		Latency: time.Since(start),
	}, nil
}
