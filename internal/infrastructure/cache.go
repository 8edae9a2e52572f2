package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// Cache is a JSON view over bigcache used to keep hot per-tenant reads
// (bot config, menu graph, booking steps, conversation state) off the
// database between turns.
type Cache struct {
	store *bigcache.BigCache
}

func NewCache(ttl time.Duration) (*Cache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.CleanWindow = time.Minute
	cfg.Verbose = false
	store, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cache{store: store}, nil
}

// GetJSON decodes the cached value into v. ok is false on a miss or when the
// cache is disabled (nil receiver).
func (c *Cache) GetJSON(key string, v any) bool {
	if c == nil {
		return false
	}
	b, err := c.store.Get(key)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func (c *Cache) SetJSON(key string, v any) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.store.Set(key, b)
}

func (c *Cache) Delete(keys ...string) {
	if c == nil {
		return
	}
	for _, k := range keys {
		// a miss is not an error here
		_ = c.store.Delete(k)
	}
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.Len()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.store.Close()
}
