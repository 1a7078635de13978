package registry

import (
	"context"
	"time"

	"ollamatui/config"
)

// Cache stores listings by key. storage.RegistryCache satisfies it.
type Cache interface {
	Get(key string, maxAge time.Duration) ([]string, bool, error)
	Put(key string, values []string) error
}

// CachedSource serves listings from Cache while they are fresh and falls
// back to the wrapped Source otherwise. Cache failures are logged and
// otherwise ignored.
type CachedSource struct {
	Source Source
	Cache  Cache
	TTL    time.Duration
}

func NewCachedSource(src Source, cache Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{Source: src, Cache: cache, TTL: ttl}
}

func ModelsKey() string { return "models" }

func TagsKey(model string) string { return "tags:" + model }

func (c *CachedSource) ListModels(ctx context.Context) ([]string, error) {
	return c.cached(ModelsKey(), func() ([]string, error) {
		return c.Source.ListModels(ctx)
	})
}

func (c *CachedSource) ListTags(ctx context.Context, model string) ([]string, error) {
	return c.cached(TagsKey(model), func() ([]string, error) {
		return c.Source.ListTags(ctx, model)
	})
}

func (c *CachedSource) cached(key string, fetch func() ([]string, error)) ([]string, error) {
	if c.Cache != nil && c.TTL > 0 {
		values, ok, err := c.Cache.Get(key, c.TTL)
		switch {
		case err != nil:
			config.Logf("registry cache read %s: %v", key, err)
		case ok && len(values) > 0:
			config.Logf("registry cache hit %s (%d entries)", key, len(values))
			return values, nil
		}
	}

	values, err := fetch()
	if err != nil {
		return nil, err
	}

	if c.Cache != nil && c.TTL > 0 && len(values) > 0 {
		if err := c.Cache.Put(key, values); err != nil {
			config.Logf("registry cache write %s: %v", key, err)
		}
	}
	return values, nil
}
