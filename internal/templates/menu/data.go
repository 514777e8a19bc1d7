package menu

import (
	"net/url"
	"time"

	"finitefield.org/hanko-menu/internal/catalog"
	"finitefield.org/hanko-menu/internal/layout"
	"finitefield.org/hanko-menu/internal/site"
)

const (
	// GridID is the element swapped by category and search requests.
	GridID = "menu-products"

	defaultPagePath     = "/menu"
	defaultFragmentPath = "/menu/products"
)

// Translator looks up UI strings.
type Translator interface {
	T(lang, key string) string
}

// PageData is everything the menu page renders.
type PageData struct {
	Settings     site.Settings
	Categories   []site.CategoryEntry
	View         catalog.View
	Layout       layout.Layout
	Currency     string
	Lang         string
	PagePath     string
	FragmentPath string
	LoadedAt     time.Time
	Messages     Translator
}

// CardData is one product card. AllAddOns is the unfiltered add-on list; the card
// shows the ones that apply to Product.
type CardData struct {
	Product   catalog.Product
	AllAddOns []catalog.AddOn
	Index     int
	Currency  string
	Lang      string
}

// AddOns returns the add-ons offered with the card's product.
func (c CardData) AddOns() []catalog.AddOn {
	return catalog.AddOnsFor(c.Product, c.AllAddOns)
}

// t returns the translation for key, or def when no translator is set.
func (d PageData) t(key, def string) string {
	if d.Messages == nil {
		return def
	}
	if v := d.Messages.T(d.Lang, key); v != "" && v != key {
		return v
	}
	return def
}

func (d PageData) pagePath() string {
	if d.PagePath == "" {
		return defaultPagePath
	}
	return d.PagePath
}

func (d PageData) fragmentPath() string {
	if d.FragmentPath == "" {
		return defaultFragmentPath
	}
	return d.FragmentPath
}

// categoryHref links to a category; the search query is dropped because a
// category choice replaces the search result.
func categoryHref(base, categoryID string) string {
	if categoryID == "" {
		return base
	}
	q := url.Values{}
	q.Set("category", categoryID)
	return base + "?" + q.Encode()
}

func (d PageData) cards() []CardData {
	products := d.View.Products
	out := make([]CardData, 0, len(products))
	for i, p := range products {
		out = append(out, CardData{
			Product:   p,
			AllAddOns: d.View.AddOns,
			Index:     i,
			Currency:  d.Currency,
			Lang:      d.Lang,
		})
	}
	return out
}
