package site

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"finitefield.org/hanko-menu/internal/catalog"
)

// Registry is the shared holder of all loaded products. The catalog view-model
// publishes its snapshot here once loaded.
type Registry struct {
	mu       sync.RWMutex
	products []catalog.Product
	counts   map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{counts: map[string]int{}}
}

// PublishProducts implements catalog.SnapshotPublisher.
func (r *Registry) PublishProducts(products []catalog.Product) {
	counts := catalog.CategoryCounts(products)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = slices.Clone(products)
	r.counts = counts
}

// Products returns a copy of the published products.
func (r *Registry) Products() []catalog.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.products)
}

// Count returns the number of published products in a category.
func (r *Registry) Count(categoryID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[categoryID]
}

// CategoryEntry is a category selector row.
type CategoryEntry struct {
	Category
	Count int `json:"count"`
}

// Categories lists the selector entries: configured categories first in settings order,
// then categories that only appear in the products, sorted by id.
func (r *Registry) Categories(settings Settings) []CategoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CategoryEntry, 0, len(settings.Categories)+len(r.counts))
	listed := make(map[string]struct{}, len(settings.Categories))
	for _, c := range settings.Categories {
		listed[c.ID] = struct{}{}
		out = append(out, CategoryEntry{Category: c, Count: r.counts[c.ID]})
	}

	var extra []string
	for id := range r.counts {
		if _, ok := listed[id]; !ok && strings.TrimSpace(id) != "" {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		out = append(out, CategoryEntry{Category: Category{ID: id}, Count: r.counts[id]})
	}
	return out
}

var _ catalog.SnapshotPublisher = (*Registry)(nil)
