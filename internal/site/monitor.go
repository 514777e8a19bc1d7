package site

import (
	"sync"

	"go.uber.org/zap"

	"finitefield.org/hanko-menu/internal/catalog"
)

// DisplayCategoryMonitor checks the configured display category against the loaded
// catalog. It re-checks when the catalog loads and whenever the settings change.
type DisplayCategoryMonitor struct {
	registry *Registry
	logger   *zap.Logger

	mu       sync.Mutex
	loaded   bool
	settings Settings
}

// NewDisplayCategoryMonitor builds a monitor starting from the given settings.
func NewDisplayCategoryMonitor(registry *Registry, initial Settings, logger *zap.Logger) *DisplayCategoryMonitor {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisplayCategoryMonitor{registry: registry, logger: logger, settings: initial}
}

// OnView is registered with catalog.ViewModel.Subscribe.
func (m *DisplayCategoryMonitor) OnView(view catalog.View) {
	if !view.Loaded {
		return
	}
	m.mu.Lock()
	first := !m.loaded
	m.loaded = true
	settings := m.settings
	m.mu.Unlock()

	if first {
		m.Check(settings)
	}
}

// OnSettings is registered with Store.Subscribe.
func (m *DisplayCategoryMonitor) OnSettings(settings Settings) {
	m.mu.Lock()
	m.settings = settings
	loaded := m.loaded
	m.mu.Unlock()

	if loaded {
		m.Check(settings)
	}
}

// Check reports whether the display category selects at least one published product.
// An unset display category always passes.
func (m *DisplayCategoryMonitor) Check(settings Settings) bool {
	id := settings.DisplayCategory
	if id == "" {
		return true
	}
	count := m.registry.Count(id)
	if count == 0 {
		m.logger.Warn("display category has no published products", zap.String("display_category", id))
		return false
	}
	m.logger.Info("display category resolved", zap.String("display_category", id), zap.Int("products", count))
	return true
}
