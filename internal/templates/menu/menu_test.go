package menu

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-menu/internal/catalog"
	"finitefield.org/hanko-menu/internal/layout"
	"finitefield.org/hanko-menu/internal/site"
)

func demoView(t *testing.T, category, query string) catalog.View {
	t.Helper()

	vm := catalog.NewViewModel(catalog.DemoSource())
	require.NoError(t, vm.Initialize(context.Background()))
	return site.Context{ActiveCategoryID: category, SearchQuery: query}.Apply(vm)
}

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf), "component must render without error")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, "html must parse")
	return doc
}

func TestPageRendersHeroCategoriesAndGrid(t *testing.T) {
	t.Parallel()

	registry := site.NewRegistry()
	vm := catalog.NewViewModel(catalog.DemoSource(), catalog.WithPublisher(registry))
	require.NoError(t, vm.Initialize(context.Background()))

	settings := site.Settings{
		ShopName: "Hanko Burger",
		Hero:     site.Hero{Title: "Today's menu", Subtitle: "Freshly grilled"},
		Categories: []site.Category{
			{ID: "burgers", Name: "Burgers"},
			{ID: "sides", Name: "Sides"},
		},
	}
	data := PageData{
		Settings:   settings,
		Categories: registry.Categories(settings),
		View:       site.Context{ActiveCategoryID: "burgers", Settings: settings}.Apply(vm),
		Layout:     layout.Resolve("4"),
		Currency:   "JPY",
		Lang:       "ja",
	}

	doc := render(t, Page(data))

	require.Equal(t, "Hanko Burger", doc.Find("title").Text())
	require.Equal(t, "ja", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "Today's menu", strings.TrimSpace(doc.Find("[data-hero] h1").Text()))

	links := doc.Find("[data-category-link]")
	require.Equal(t, 4, links.Length(), "all + two configured + drinks from products")
	current := doc.Find("[data-category-link][aria-current='page']")
	require.Equal(t, 1, current.Length())
	require.Equal(t, "burgers", current.AttrOr("data-category-link", ""))
	require.Equal(t, "/menu/products?category=burgers", current.AttrOr("hx-get", ""))
	require.Equal(t, "#"+GridID, current.AttrOr("hx-target", ""))

	grid := doc.Find("#" + GridID)
	require.Equal(t, "grid grid-cols-2 sm:grid-cols-4 lg:grid-cols-6 gap-3", grid.AttrOr("class", ""))
	require.Equal(t, "v4", grid.AttrOr("data-layout", ""))

	var keys []string
	grid.Find("[data-card]").Each(func(_ int, s *goquery.Selection) {
		require.Equal(t, "v4", s.AttrOr("data-card", ""))
		keys = append(keys, s.AttrOr("data-key", ""))
	})
	require.Equal(t, []string{"p-classic-burger", "p-teriyaki-burger"}, keys)

	require.Equal(t, "burgers", doc.Find("[data-search] input[name='category']").AttrOr("value", ""))
}

func TestGridUsesDefaultLayoutAndShowsSalePrice(t *testing.T) {
	t.Parallel()

	data := PageData{View: demoView(t, "burgers", ""), Currency: "JPY", Lang: "ja"}
	doc := render(t, Grid(data))

	grid := doc.Find("#" + GridID)
	require.Equal(t, "flex flex-col md:flex-row md:flex-wrap gap-3 md:gap-5", grid.AttrOr("class", ""))
	require.Equal(t, "h1", grid.AttrOr("data-layout", ""))

	teriyaki := doc.Find("[data-key='p-teriyaki-burger']")
	require.Equal(t, "¥1,080", teriyaki.Find("[data-price-regular]").Text())
	require.Equal(t, "¥980", teriyaki.Find("[data-price-sale]").Text())

	classic := doc.Find("[data-key='p-classic-burger']")
	require.Equal(t, "Popular", classic.Find("[data-badge]").Text())
	require.Equal(t, "cheddar", classic.Find("[data-description] strong").Text())
	var addOns []string
	classic.Find("[data-addon]").Each(func(_ int, s *goquery.Selection) {
		addOns = append(addOns, s.AttrOr("data-addon", ""))
	})
	require.Equal(t, []string{"a-extra-cheese", "a-bacon"}, addOns)
}

func TestGridSearchSpansCategories(t *testing.T) {
	t.Parallel()

	view := demoView(t, "burgers", "SHAKE")
	doc := render(t, Categories(PageData{View: view}))

	current := doc.Find("[aria-current='page']")
	require.Equal(t, 1, current.Length())
	require.Equal(t, "", current.AttrOr("data-category-link", "missing"), "all is active while searching")

	grid := render(t, Grid(PageData{View: view, Layout: layout.Resolve("6")}))
	names := grid.Find("[data-product-name]")
	require.Equal(t, 1, names.Length())
	require.Equal(t, "Matcha Shake", names.Text())
	require.Equal(t, 1, grid.Find("[data-addon='a-oat-milk']").Length())
}

func TestGridEmptyStates(t *testing.T) {
	t.Parallel()

	doc := render(t, Grid(PageData{View: catalog.View{}}))
	require.Equal(t, 1, doc.Find("[data-empty='unavailable']").Length())

	doc = render(t, Grid(PageData{View: demoView(t, "", "pizza")}))
	require.Equal(t, 1, doc.Find("[data-empty='no-match']").Length())
	require.Equal(t, "0", doc.Find("#"+GridID).AttrOr("data-count", ""))
}

func TestEveryVariantRendersACard(t *testing.T) {
	t.Parallel()

	product := catalog.Product{ID: "p1", Name: "Burger <b>", Price: 1000, Image: "/img/b.jpg", Status: catalog.StatusPublished}
	for _, variant := range layout.Variants() {
		doc := render(t, Card(variant, CardData{Product: product, Currency: "JPY", Lang: "ja"}))
		card := doc.Find("article")
		require.Equal(t, string(variant), card.AttrOr("data-card", ""))
		require.Equal(t, "Burger <b>", card.Find("[data-product-name]").Text(), "names are escaped")
		require.Equal(t, 0, card.Find("b").Length())
	}

	doc := render(t, Card(layout.Variant("nope"), CardData{Product: product}))
	require.Equal(t, "h1", doc.Find("article").AttrOr("data-card", ""))
}

func TestCardKeyFallsBackToNameIndex(t *testing.T) {
	t.Parallel()

	doc := render(t, Card(layout.H6, CardData{Product: catalog.Product{Name: "Soup"}, Index: 2}))
	require.Equal(t, "Soup-2", doc.Find("article").AttrOr("data-key", ""))
}

func TestImageURLsAreSanitized(t *testing.T) {
	t.Parallel()

	product := catalog.Product{ID: "x", Name: "x", Image: "javascript:alert(1)"}
	doc := render(t, Card(layout.V2, CardData{Product: product}))
	require.NotContains(t, doc.Find("img").AttrOr("src", ""), "javascript:")
}

type stubTranslator map[string]string

func (s stubTranslator) T(_, key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return key
}

func TestGridUsesTranslatedMessages(t *testing.T) {
	t.Parallel()

	data := PageData{
		View:     catalog.View{Loaded: true, Products: []catalog.Product{}},
		Lang:     "ja",
		Messages: stubTranslator{"menu.no_match": "該当なし"},
	}
	doc := render(t, Grid(data))
	require.Equal(t, "該当なし", strings.TrimSpace(doc.Find("[data-empty='no-match']").Text()))

	// Keys without a translation keep the built-in text.
	data.View.Loaded = false
	doc = render(t, Grid(data))
	require.Equal(t, "The menu is not available right now.", strings.TrimSpace(doc.Find("[data-empty='unavailable']").Text()))
}

func TestCategoriesHideAllWithDisplayCategory(t *testing.T) {
	t.Parallel()

	registry := site.NewRegistry()
	vm := catalog.NewViewModel(catalog.DemoSource(), catalog.WithPublisher(registry))
	require.NoError(t, vm.Initialize(context.Background()))

	settings := site.Settings{DisplayCategory: "sides"}
	data := PageData{
		Settings:   settings,
		Categories: registry.Categories(settings),
		View:       site.Context{Settings: settings}.Apply(vm.Fork()),
	}
	doc := render(t, Categories(data))

	links := doc.Find("[data-category-link]")
	require.Equal(t, 3, links.Length(), "burgers, drinks and sides without All")
	links.Each(func(_ int, s *goquery.Selection) {
		require.NotEmpty(t, s.AttrOr("data-category-link", ""))
	})
	require.Equal(t, "sides", doc.Find("[aria-current='page']").AttrOr("data-category-link", ""))

	data.Settings = site.Settings{}
	doc = render(t, Categories(data))
	require.Equal(t, 4, doc.Find("[data-category-link]").Length())
}
