package core

import "context"

// Model drafts answers for prompts. The batch runner uses one when a record
// carries no answer of its own.
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (Response, error)
}
