// Package slugify provides the default slugify capability handed to routers.
package slugify

import (
	"fmt"

	"github.com/gosimple/slug"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of memoized slugs kept by New.
const DefaultCacheSize = 4096

// Make returns the URL slug of s, transliterating non-ASCII text.
func Make(s string) string {
	return slug.Make(s)
}

// Cache memoizes Make. Collection builds slugify the same titles on every
// rebuild, and transliteration dominates their cost.
type Cache struct {
	cache *lru.Cache[string, string]
}

// New creates a memoizing slugifier holding up to size entries.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create slug cache: %w", err)
	}
	return &Cache{cache: c}, nil
}

// Slugify returns the slug of s.
func (c *Cache) Slugify(s string) string {
	if v, ok := c.cache.Get(s); ok {
		return v
	}
	v := Make(s)
	c.cache.Add(s, v)
	return v
}

// Len returns the number of memoized slugs.
func (c *Cache) Len() int {
	return c.cache.Len()
}
