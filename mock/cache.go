package mock

import (
	"context"

	"github.com/fwojciec/locsearch"
)

var _ locsearch.Cache = (*Cache)(nil)

// Cache is a mock implementation of locsearch.Cache.
type Cache struct {
	GetFn func(ctx context.Context, url string) (*locsearch.CacheEntry, error)
	PutFn func(ctx context.Context, url, content string) error
}

func (c *Cache) Get(ctx context.Context, url string) (*locsearch.CacheEntry, error) {
	return c.GetFn(ctx, url)
}

func (c *Cache) Put(ctx context.Context, url, content string) error {
	return c.PutFn(ctx, url, content)
}
