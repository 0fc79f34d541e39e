package core

import "context"

// Dataset provides records for batch grading.
type Dataset interface {
	Name() string
	Len(ctx context.Context) (int, error)
	Records(ctx context.Context) (<-chan Record, <-chan error)
}
