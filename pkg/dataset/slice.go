package dataset

import (
	"context"

	"gradeval/pkg/core"
)

type SliceDataset struct {
	NameHint string
	Items    []core.Record
}

func NewSliceDataset(records []core.Record, name string) *SliceDataset {
	if name == "" {
		name = "inline"
	}
	return &SliceDataset{NameHint: name, Items: records}
}

func (d *SliceDataset) Name() string {
	return d.NameHint
}

func (d *SliceDataset) Len(ctx context.Context) (int, error) {
	return len(d.Items), nil
}

func (d *SliceDataset) Records(ctx context.Context) (<-chan core.Record, <-chan error) {
	recordCh := make(chan core.Record)
	errCh := make(chan error, 1)
	go func() {
		defer close(recordCh)
		defer close(errCh)
		for _, r := range d.Items {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordCh <- r:
			}
		}
	}()
	return recordCh, errCh
}
