package catalog

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Normalize keeps published products and stable-sorts them ascending by sortOrder.
// The input slice is not modified.
func Normalize(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Published() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order() < out[j].Order()
	})
	return out
}

// FilterByCategory returns the products whose category id equals categoryID exactly.
// An empty categoryID selects everything.
func FilterByCategory(products []Product, categoryID string) []Product {
	if categoryID == "" {
		return slices.Clone(products)
	}
	out := make([]Product, 0)
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// FilterBySearch returns the products whose name contains query, ignoring case.
// An empty query selects everything.
func FilterBySearch(products []Product, query string) []Product {
	if query == "" {
		return slices.Clone(products)
	}
	// Casers keep state and must not be shared across goroutines.
	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]Product, 0)
	for _, p := range products {
		if strings.Contains(fold.String(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// ResolveCategoryID picks the active category: the explicit id when set, else the
// configured display category, else "" (all products).
func ResolveCategoryID(explicit, displayCategory string) string {
	if explicit != "" {
		return explicit
	}
	return displayCategory
}
