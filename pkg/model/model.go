// Package model holds the producer backends that draft answers for dataset
// records lacking one. Every producer implements core.Model.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gradeval/pkg/core"
)

// New builds a producer for the given provider. An empty provider or "mock"
// yields the offline mock producer.
func New(provider, modelName, baseURL string) (core.Model, error) {
	switch provider {
	case "", "mock":
		return MockProducer{NameValue: modelName}, nil
	case "openai":
		return NewOpenAIProducerFromEnv(modelName)
	case "anthropic":
		return NewAnthropicProducerFromEnv(modelName)
	case "gemini", "google":
		return NewGeminiProducerFromEnv(modelName)
	case "ollama":
		return NewOllamaProducer(baseURL, modelName)
	default:
		return nil, fmt.Errorf("model: unknown provider %q", provider)
	}
}

// RetryPolicy is the shared timeout/retry/backoff envelope around one
// provider request.
type RetryPolicy struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func (p RetryPolicy) normalized(defaultTimeout time.Duration) RetryPolicy {
	if p.Timeout <= 0 {
		p.Timeout = defaultTimeout
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Backoff <= 0 {
		p.Backoff = 500 * time.Millisecond
	}
	return p
}

// generateWithRetry runs attempt under the policy with linear backoff.
// Context cancellation and deadline errors are terminal, never retried.
func generateWithRetry(ctx context.Context, policy RetryPolicy, attempt func(context.Context) (core.Response, error)) (core.Response, error) {
	var lastErr error
	for try := 0; try <= policy.MaxRetries; try++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
		resp, err := attempt(attemptCtx)
		cancel()
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return core.Response{}, err
		}
		lastErr = err

		if try < policy.MaxRetries {
			select {
			case <-ctx.Done():
				return core.Response{}, ctx.Err()
			case <-time.After(policy.Backoff * time.Duration(try+1)):
			}
		}
	}
	return core.Response{}, fmt.Errorf("request failed after retries: %w", lastErr)
}
