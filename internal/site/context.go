package site

import (
	"finitefield.org/hanko-menu/internal/catalog"
)

// Context is the per-page selection the menu reads: an explicit category, the
// storefront settings, and the search box contents.
type Context struct {
	ActiveCategoryID string
	Settings         Settings
	SearchQuery      string
}

// CategoryID resolves the category to show: the explicit selection, else the
// configured display category, else all.
func (c Context) CategoryID() string {
	return catalog.ResolveCategoryID(c.ActiveCategoryID, c.Settings.DisplayCategory)
}

// Apply runs the category derivation and then, for a non-empty query, the search
// derivation on vm, returning the resulting view.
func (c Context) Apply(vm *catalog.ViewModel) catalog.View {
	view := vm.DeriveByCategory(c.CategoryID())
	if c.SearchQuery != "" {
		view = vm.DeriveBySearch(c.SearchQuery)
	}
	return view
}
