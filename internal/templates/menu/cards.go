package menu

import (
	"context"

	"github.com/a-h/templ"

	"finitefield.org/hanko-menu/internal/format"
	"finitefield.org/hanko-menu/internal/layout"
	"finitefield.org/hanko-menu/internal/richtext"
)

type cardStyle struct {
	root        string
	media       string
	body        string
	title       string
	image       bool
	description bool
	addOns      bool
}

var cardStyles = map[layout.Variant]cardStyle{
	layout.H1: {
		root:        "flex w-full md:w-[calc(50%-0.625rem)] gap-3 rounded-lg border border-slate-200 bg-white p-3",
		media:       "h-24 w-24 shrink-0 rounded-md object-cover",
		body:        "flex min-w-0 flex-1 flex-col gap-1",
		title:       "text-base font-semibold",
		image:       true,
		description: true,
		addOns:      true,
	},
	layout.H11: {
		root:   "flex w-full md:w-1/2 gap-3 border-b border-slate-200 bg-white p-3",
		media:  "h-20 w-20 shrink-0 object-cover",
		body:   "flex min-w-0 flex-1 flex-col gap-1",
		title:  "text-sm font-semibold",
		image:  true,
		addOns: true,
	},
	layout.H21: {
		root:        "flex w-full gap-4 rounded-xl bg-white p-4 shadow-sm",
		media:       "h-32 w-32 shrink-0 rounded-lg object-cover",
		body:        "flex min-w-0 flex-1 flex-col gap-2",
		title:       "text-lg font-semibold",
		image:       true,
		description: true,
		addOns:      true,
	},
	layout.V2: {
		root:        "flex w-full md:w-72 flex-col overflow-hidden rounded-xl bg-white shadow-sm",
		media:       "aspect-[4/3] w-full object-cover",
		body:        "flex flex-col gap-1 p-4",
		title:       "text-lg font-semibold",
		image:       true,
		description: true,
		addOns:      true,
	},
	layout.V3: {
		root:   "flex w-full md:w-64 flex-col items-center gap-2 rounded-xl bg-white p-4 text-center",
		media:  "h-32 w-32 rounded-full object-cover",
		body:   "flex flex-col items-center gap-1",
		title:  "text-base font-semibold",
		image:  true,
		addOns: true,
	},
	layout.V4: {
		root:  "flex flex-col overflow-hidden rounded-lg bg-white",
		media: "aspect-square w-full object-cover",
		body:  "flex flex-col gap-0.5 p-2",
		title: "text-sm font-medium",
		image: true,
	},
	layout.V5: {
		root:        "flex flex-col overflow-hidden rounded-lg border border-slate-200 bg-white",
		media:       "aspect-[4/3] w-full object-cover",
		body:        "flex flex-col gap-1 p-3",
		title:       "text-base font-semibold",
		image:       true,
		description: true,
		addOns:      true,
	},
	layout.H6: {
		root:   "flex w-full md:w-[calc(50%-0.625rem)] items-baseline justify-between gap-3 border-b border-dashed border-slate-300 py-2",
		body:   "flex min-w-0 flex-1 flex-col",
		title:  "text-base font-medium",
		addOns: true,
	},
	layout.V7: {
		root:  "relative flex flex-col overflow-hidden rounded-lg bg-slate-900 text-white",
		media: "aspect-square w-full object-cover opacity-80",
		body:  "absolute inset-x-0 bottom-0 flex flex-col bg-gradient-to-t from-black/70 p-2",
		title: "text-sm font-semibold",
		image: true,
	},
}

// Card renders a product card in the given variant. Unknown variants render as the
// default layout's card.
func Card(variant layout.Variant, data CardData) templ.Component {
	style, ok := cardStyles[variant]
	if !ok {
		variant = layout.Default.Variant
		style = cardStyles[variant]
	}
	return component(func(ctx context.Context, hw *htmlWriter) {
		p := data.Product
		hw.raw("<article")
		hw.attr("class", style.root)
		hw.attr("data-card", string(variant))
		hw.attr("data-key", p.Key(data.Index))
		hw.attr("data-category", p.CategoryID)
		hw.raw(">")

		if style.image && p.Image != "" {
			hw.raw("<img")
			hw.attr("class", style.media)
			hw.url("src", p.Image)
			hw.attr("alt", p.Name)
			hw.raw(` loading="lazy">`)
		}

		hw.raw("<div")
		hw.attr("class", style.body)
		hw.raw("><h3")
		hw.attr("class", style.title)
		hw.raw(" data-product-name>")
		hw.text(p.Name)
		hw.raw("</h3>")
		if p.Badge != "" {
			hw.raw(`<span class="inline-flex w-fit items-center rounded-full bg-amber-100 px-2 py-0.5 text-xs font-medium text-amber-800" data-badge>`)
			hw.text(p.Badge)
			hw.raw("</span>")
		}
		hw.component(ctx, price(data))
		if style.description {
			if desc := richtext.Render(p.Description); desc != "" {
				hw.raw(`<div class="prose prose-sm text-slate-600" data-description>`)
				hw.raw(desc)
				hw.raw("</div>")
			}
		}
		if style.addOns {
			hw.component(ctx, addOnList(data))
		}
		hw.raw("</div></article>")
	})
}

func price(data CardData) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		p := data.Product
		hw.raw(`<p class="flex items-baseline gap-2" data-price>`)
		if p.OnSale() {
			hw.raw(`<s class="text-sm text-slate-400" data-price-regular>`)
			hw.text(format.FmtAmount(p.Price, data.Currency, data.Lang))
			hw.raw(`</s><span class="font-semibold text-rose-600" data-price-sale>`)
			hw.text(format.FmtAmount(*p.SalePrice, data.Currency, data.Lang))
			hw.raw("</span>")
		} else {
			hw.raw(`<span class="font-semibold">`)
			hw.text(format.FmtAmount(p.Price, data.Currency, data.Lang))
			hw.raw("</span>")
		}
		hw.raw("</p>")
	})
}

func addOnList(data CardData) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		addOns := data.AddOns()
		if len(addOns) == 0 {
			return
		}
		hw.raw(`<ul class="mt-1 flex flex-wrap gap-1 text-xs text-slate-500" data-addons>`)
		for _, a := range addOns {
			hw.raw(`<li class="rounded border border-slate-200 px-1.5 py-0.5"`)
			hw.attr("data-addon", a.ID.String())
			hw.raw(">")
			hw.text(a.Name)
			hw.raw(" +")
			hw.text(format.FmtAmount(a.Price, data.Currency, data.Lang))
			hw.raw("</li>")
		}
		hw.raw("</ul>")
	})
}
