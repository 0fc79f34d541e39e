package model

import (
	"context"

	"gradeval/pkg/cache"
	"gradeval/pkg/core"
)

// CachedProducer wraps another producer with a persistent response cache so
// re-runs over the same dataset skip the provider round trip.
type CachedProducer struct {
	Model core.Model
	Cache *cache.Cache
}

func (c CachedProducer) Name() string {
	if c.Model == nil {
		return ""
	}
	return c.Model.Name()
}

func (c CachedProducer) Generate(ctx context.Context, prompt string, opts core.GenerateOptions) (core.Response, error) {
	if c.Model == nil {
		return core.Response{}, nil
	}
	if c.Cache != nil {
		if resp, ok := c.Cache.Get(c.Name(), prompt, opts); ok {
			return resp, nil
		}
	}
	resp, err := c.Model.Generate(ctx, prompt, opts)
	if err != nil {
		return core.Response{}, err
	}
	if c.Cache != nil {
		_ = c.Cache.Set(c.Name(), prompt, opts, resp)
	}
	return resp, nil
}
