package menu

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"finitefield.org/hanko-menu/internal/format"
	"finitefield.org/hanko-menu/internal/layout"
	"finitefield.org/hanko-menu/internal/site"
)

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

// Page renders the full menu document.
func Page(data PageData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		title := data.Settings.ShopName
		if title == "" {
			title = data.t("menu.title", "Menu")
		}
		lang := data.Lang
		if lang == "" {
			lang = "en"
		}

		hw.raw("<!DOCTYPE html><html")
		hw.attr("lang", lang)
		hw.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		hw.text(title)
		hw.raw(`</title><link rel="stylesheet" href="/assets/menu.css"><script`)
		hw.url("src", htmxScript)
		hw.raw(` defer></script></head><body class="bg-slate-50 text-slate-900"><main class="mx-auto flex max-w-6xl flex-col gap-6 px-4 py-6">`)
		hw.component(ctx, Hero(data.Settings.Hero))
		hw.component(ctx, Toolbar(data))
		hw.component(ctx, Grid(data))
		if !data.LoadedAt.IsZero() {
			hw.raw(`<footer class="text-xs text-slate-400" data-updated>`)
			hw.text(data.t("menu.updated", "Updated") + " " + format.FmtDate(data.LoadedAt, data.Lang))
			hw.raw("</footer>")
		}
		hw.raw("</main></body></html>")
	})
}

// Hero renders the banner; nothing is written when it has no title or image.
func Hero(hero site.Hero) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		if hero.Title == "" && hero.Image == "" {
			return
		}
		hw.raw(`<section class="relative overflow-hidden rounded-2xl bg-slate-900 text-white" data-hero>`)
		if hero.Image != "" {
			hw.raw(`<img class="absolute inset-0 h-full w-full object-cover opacity-60" alt=""`)
			hw.url("src", hero.Image)
			hw.raw(">")
		}
		hw.raw(`<div class="relative flex flex-col gap-2 p-8">`)
		if hero.Title != "" {
			hw.raw(`<h1 class="text-3xl font-bold">`)
			hw.text(hero.Title)
			hw.raw("</h1>")
		}
		if hero.Subtitle != "" {
			hw.raw(`<p class="text-base text-slate-200">`)
			hw.text(hero.Subtitle)
			hw.raw("</p>")
		}
		hw.raw("</div></section>")
	})
}

// Toolbar renders the category selector and the search box.
func Toolbar(data PageData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="flex flex-col gap-3 md:flex-row md:items-center md:justify-between">`)
		hw.component(ctx, Categories(data))
		hw.component(ctx, SearchForm(data))
		hw.raw("</div>")
	})
}

// Categories renders the category selector. The active category carries aria-current.
func Categories(data PageData) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		active := data.View.CategoryID
		if data.View.Query != "" {
			// A search result spans every category.
			active = ""
		}
		hw.raw("<nav")
		hw.attr("aria-label", data.t("menu.categories", "Categories"))
		hw.raw(` data-categories><ul class="flex flex-wrap gap-2">`)
		// Without a category the page falls back to the display category, so "All"
		// is only offered when none is configured.
		if data.Settings.DisplayCategory == "" {
			writeCategoryLink(hw, data, "", data.t("menu.all", "All"), -1, active == "")
		}
		for _, entry := range data.Categories {
			writeCategoryLink(hw, data, entry.ID, entry.Label(), entry.Count, entry.ID == active)
		}
		hw.raw("</ul></nav>")
	})
}

func writeCategoryLink(hw *htmlWriter, data PageData, id, label string, count int, current bool) {
	class := "inline-flex items-center gap-1 rounded-full border border-slate-200 bg-white px-3 py-1 text-sm"
	if current {
		class = "inline-flex items-center gap-1 rounded-full bg-slate-900 px-3 py-1 text-sm text-white"
	}
	hw.raw("<li><a")
	hw.attr("class", class)
	hw.url("href", categoryHref(data.pagePath(), id))
	hw.url("hx-get", categoryHref(data.fragmentPath(), id))
	hw.attr("hx-target", "#"+GridID)
	hw.attr("hx-swap", "outerHTML")
	hw.url("hx-push-url", categoryHref(data.pagePath(), id))
	if id == "" {
		hw.raw(" data-category-link")
	} else {
		hw.attr("data-category-link", id)
	}
	if current {
		hw.raw(` aria-current="page"`)
	}
	hw.raw(">")
	hw.text(label)
	if count >= 0 {
		hw.raw(`<span class="text-xs opacity-70">`)
		hw.text(strconv.Itoa(count))
		hw.raw("</span>")
	}
	hw.raw("</a></li>")
}

// SearchForm renders the search box. Typing swaps only the grid.
func SearchForm(data PageData) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<form role="search" class="flex gap-2" data-search`)
		hw.url("action", data.pagePath())
		hw.raw(` method="get"`)
		hw.url("hx-get", data.fragmentPath())
		hw.attr("hx-target", "#"+GridID)
		hw.attr("hx-swap", "outerHTML")
		hw.attr("hx-trigger", "input changed delay:300ms from:find input, submit")
		hw.raw(">")
		if data.View.CategoryID != "" {
			hw.raw(`<input type="hidden" name="category"`)
			hw.attr("value", data.View.CategoryID)
			hw.raw(">")
		}
		hw.raw(`<input type="search" name="q" class="w-full rounded-md border border-slate-300 px-3 py-2 text-sm md:w-64"`)
		hw.attr("placeholder", data.t("menu.search_placeholder", "Search"))
		hw.attr("aria-label", data.t("menu.search", "Search"))
		hw.attr("value", data.View.Query)
		hw.raw("></form>")
	})
}

// Grid renders the product list in the configured layout. It is also the htmx fragment.
func Grid(data PageData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		l := data.Layout
		if l.Variant == "" {
			l = layout.Default
		}
		hw.raw("<section")
		hw.attr("id", GridID)
		hw.attr("class", l.Class)
		hw.attr("data-layout", string(l.Variant))
		hw.attr("data-count", strconv.Itoa(len(data.View.Products)))
		hw.raw(` aria-live="polite">`)

		switch {
		case !data.View.Loaded:
			hw.raw(`<p class="text-sm text-slate-500" data-empty="unavailable">`)
			hw.text(data.t("menu.unavailable", "The menu is not available right now."))
			hw.raw("</p>")
		case len(data.View.Products) == 0:
			hw.raw(`<p class="text-sm text-slate-500" data-empty="no-match">`)
			hw.text(data.t("menu.no_match", "No items match your selection."))
			hw.raw("</p>")
		default:
			for _, card := range data.cards() {
				hw.component(ctx, Card(l.Variant, card))
			}
		}
		hw.raw("</section>")
	})
}
