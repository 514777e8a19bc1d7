package catalog

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
)

const defaultDerivationCacheSize = 256

// derivationCache memoizes filter results for one immutable snapshot. Cached slices
// are shared and must be treated as read-only.
type derivationCache struct {
	entries *lru.Cache[string, []Product]
	metrics *instruments
}

func newDerivationCache(size int, metrics *instruments) *derivationCache {
	if size <= 0 {
		size = defaultDerivationCacheSize
	}
	entries, err := lru.New[string, []Product](size)
	if err != nil {
		return nil
	}
	return &derivationCache{entries: entries, metrics: metrics}
}

func (c *derivationCache) byCategory(snapshot []Product, categoryID string) []Product {
	if c == nil || categoryID == "" {
		return FilterByCategory(snapshot, categoryID)
	}
	return c.lookup("category", "c\x00"+categoryID, func() []Product {
		return FilterByCategory(snapshot, categoryID)
	})
}

func (c *derivationCache) bySearch(snapshot []Product, query string) []Product {
	if c == nil || query == "" {
		return FilterBySearch(snapshot, query)
	}
	return c.lookup("search", "q\x00"+cases.Fold().String(query), func() []Product {
		return FilterBySearch(snapshot, query)
	})
}

func (c *derivationCache) lookup(kind, key string, derive func() []Product) []Product {
	if cached, ok := c.entries.Get(key); ok {
		c.metrics.recordLookup(kind, true)
		return cached
	}
	c.metrics.recordLookup(kind, false)
	out := derive()
	c.entries.Add(key, out)
	return out
}

func (c *derivationCache) len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
