package db

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	templateListingKey = "marketplace:templates"

	// DefaultTemplateTTL bounds how stale a cached marketplace read can be
	// when the change happened in another process.
	DefaultTemplateTTL = 30 * time.Second
)

// Cache holds computed marketplace reads. Keys are tracked per kind so a
// whole kind can be dropped at once when templates change.
type Cache struct {
	store *ristretto.Cache
	ttl   time.Duration

	mu           sync.Mutex
	templateKeys map[string]struct{}
	// generation advances on every invalidation so a read that started
	// before it cannot store its result afterwards.
	generation uint64
}

func NewCache() (*Cache, error) {
	return NewCacheWithTTL(DefaultTemplateTTL)
}

func NewCacheWithTTL(ttl time.Duration) (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
		// cost is counted in entries, not bytes
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &Cache{store: store, ttl: ttl, templateKeys: make(map[string]struct{})}, nil
}

func TemplateListingKey() string {
	return templateListingKey
}

func TemplateDetailKey(templateID string) string {
	return "marketplace:template:" + templateID
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Generation is read before loading a value that will be passed to
// SetTemplate.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetTemplate stores value unless the template keys were invalidated since
// generation was read.
func (c *Cache) SetTemplate(key string, value interface{}, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	c.templateKeys[key] = struct{}{}
	c.store.SetWithTTL(key, value, 1, c.ttl)
	c.store.Wait()
	return true
}

func (c *Cache) DelTemplate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for _, key := range keys {
		delete(c.templateKeys, key)
		c.store.Del(key)
	}
}

func (c *Cache) ClearAllTemplates() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for key := range c.templateKeys {
		c.store.Del(key)
	}
	c.templateKeys = make(map[string]struct{})
}

func (c *Cache) Close() {
	c.store.Close()
}
