package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/hanko-menu/internal/catalog"
	"finitefield.org/hanko-menu/internal/i18n"
	"finitefield.org/hanko-menu/internal/layout"
	custommw "finitefield.org/hanko-menu/internal/middleware"
	"finitefield.org/hanko-menu/internal/platform/httpx"
	"finitefield.org/hanko-menu/internal/platform/observability"
	"finitefield.org/hanko-menu/internal/platform/requestctx"
	"finitefield.org/hanko-menu/internal/site"
	menutpl "finitefield.org/hanko-menu/internal/templates/menu"
)

const (
	pagePath       = "/menu"
	fragmentPath   = "/menu/products"
	maxQueryLength = 100
	maxCategoryLen = 128
)

// SettingsProvider returns the current storefront settings.
type SettingsProvider interface {
	Settings() site.Settings
}

// StaticSettings serves fixed settings.
type StaticSettings site.Settings

// Settings implements SettingsProvider.
func (s StaticSettings) Settings() site.Settings { return site.Settings(s) }

// MenuDependencies collects what the menu handlers need.
type MenuDependencies struct {
	ViewModel *catalog.ViewModel
	Settings  SettingsProvider
	Registry  *site.Registry
	Layout    layout.Layout
	Currency  string
	Lang      string
	Messages  *i18n.Bundle
}

// MenuHandlers serves the menu page, its htmx fragment, and the JSON view.
type MenuHandlers struct {
	vm       *catalog.ViewModel
	settings SettingsProvider
	registry *site.Registry
	layout   layout.Layout
	currency string
	lang     string
	messages *i18n.Bundle
}

// NewMenuHandlers wires the menu handler set.
func NewMenuHandlers(deps MenuDependencies) *MenuHandlers {
	vm := deps.ViewModel
	if vm == nil {
		vm = catalog.NewViewModel(nil)
	}
	settings := deps.Settings
	if settings == nil {
		settings = StaticSettings(site.DefaultSettings(deps.Currency, deps.Lang))
	}
	registry := deps.Registry
	if registry == nil {
		registry = site.NewRegistry()
	}
	l := deps.Layout
	if l.Variant == "" {
		l = layout.Default
	}
	messages := deps.Messages
	if messages == nil {
		if b, err := i18n.Default(); err == nil {
			messages = b
		}
	}
	return &MenuHandlers{
		vm:       vm,
		settings: settings,
		registry: registry,
		layout:   l,
		currency: deps.Currency,
		lang:     deps.Lang,
		messages: messages,
	}
}

// Routes registers the menu endpoints.
func (h *MenuHandlers) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, pagePath, http.StatusFound)
	})
	r.Get(pagePath, h.Page)
	r.With(custommw.RequireHTMX(pagePath), custommw.NoStore()).Get(fragmentPath, h.Fragment)
	r.Get("/api/menu", h.JSON)
	r.Get("/api/initialData", h.InitialData)
}

// Page renders the full menu document.
func (h *MenuHandlers) Page(w http.ResponseWriter, r *http.Request) {
	data, ok := h.pageData(w, r)
	if !ok {
		return
	}
	w.Header().Add("Vary", "Accept-Language")
	templ.Handler(menutpl.Page(data)).ServeHTTP(w, r)
}

// Fragment renders only the product grid for htmx swaps.
func (h *MenuHandlers) Fragment(w http.ResponseWriter, r *http.Request) {
	data, ok := h.pageData(w, r)
	if !ok {
		return
	}
	w.Header().Add("Vary", "Accept-Language")
	templ.Handler(menutpl.Grid(data)).ServeHTTP(w, r)
}

type menuResponse struct {
	Layout     layout.Layout     `json:"layout"`
	CategoryID string            `json:"categoryId"`
	Query      string            `json:"query"`
	Loaded     bool              `json:"loaded"`
	Products   []catalog.Product `json:"products"`
	AddOns     []catalog.AddOn   `json:"addons"`
}

// JSON returns the derived view as JSON.
func (h *MenuHandlers) JSON(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := sc.Apply(h.vm.Fork())
	httpx.WriteJSON(w, http.StatusOK, menuResponse{
		Layout:     h.layout,
		CategoryID: view.CategoryID,
		Query:      view.Query,
		Loaded:     view.Loaded,
		Products:   view.Products,
		AddOns:     view.AddOns,
	})
}

// InitialData serves the embedded demo catalog in the upstream wire format.
func (h *MenuHandlers) InitialData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(catalog.DemoPayload())
}

func (h *MenuHandlers) pageData(w http.ResponseWriter, r *http.Request) (menutpl.PageData, bool) {
	sc, ok := h.selection(w, r)
	if !ok {
		return menutpl.PageData{}, false
	}
	view := sc.Apply(h.vm.Fork())

	requestctx.Logger(r.Context()).Debug("menu derived",
		zap.String("category_id", view.CategoryID),
		zap.String("query", observability.SanitizeQuery(view.Query)),
		zap.Int("visible", len(view.Products)),
		zap.Bool("loaded", view.Loaded),
		zap.Bool("htmx", custommw.IsHTMXRequest(r.Context())),
	)

	currency := firstNonEmpty(sc.Settings.Currency, h.currency)
	lang := h.language(r, sc.Settings)
	return menutpl.PageData{
		Settings:     sc.Settings,
		Categories:   h.registry.Categories(sc.Settings),
		View:         view,
		Layout:       h.layout,
		Currency:     currency,
		Lang:         lang,
		PagePath:     pagePath,
		FragmentPath: fragmentPath,
		LoadedAt:     h.vm.LoadedAt(),
		Messages:     h.messages,
	}, true
}

// language prefers the shop's configured language, then Accept-Language, then the
// server default.
func (h *MenuHandlers) language(r *http.Request, settings site.Settings) string {
	if settings.Lang != "" {
		return settings.Lang
	}
	if h.messages != nil {
		if lang, ok := h.messages.Match(r.Header.Get("Accept-Language")); ok {
			return lang
		}
	}
	return h.lang
}

func (h *MenuHandlers) selection(w http.ResponseWriter, r *http.Request) (site.Context, bool) {
	q := r.URL.Query()
	// Category ids match exactly, so the value is used as sent.
	category := q.Get("category")
	query := q.Get("q")

	if len(category) > maxCategoryLen {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_category", "category is too long", http.StatusBadRequest))
		return site.Context{}, false
	}
	if utf8.RuneCountInString(query) > maxQueryLength {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_query", "search query is too long", http.StatusBadRequest).
			WithDetails(map[string]any{"max_length": maxQueryLength}))
		return site.Context{}, false
	}

	return site.Context{
		ActiveCategoryID: category,
		Settings:         h.settings.Settings(),
		SearchQuery:      query,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
