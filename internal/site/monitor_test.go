package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"finitefield.org/hanko-menu/internal/catalog"
)

func TestDisplayCategoryMonitorChecksOnLoadAndSettingsChange(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	registry := NewRegistry()
	monitor := NewDisplayCategoryMonitor(registry, Settings{DisplayCategory: "desserts"}, zap.New(core))

	vm := catalog.NewViewModel(catalog.DemoSource(), catalog.WithPublisher(registry))
	unsubscribe := vm.Subscribe(monitor.OnView)
	defer unsubscribe()

	// Settings changes before the catalog loads are only recorded.
	monitor.OnSettings(Settings{DisplayCategory: "snacks"})
	require.Zero(t, logs.Len())

	require.NoError(t, vm.Initialize(context.Background()))
	warnings := logs.FilterMessage("display category has no published products").All()
	require.Len(t, warnings, 1)
	require.Equal(t, "snacks", warnings[0].ContextMap()["display_category"])

	monitor.OnSettings(Settings{DisplayCategory: "sides"})
	resolved := logs.FilterMessage("display category resolved").All()
	require.Len(t, resolved, 1)
	require.EqualValues(t, 2, resolved[0].ContextMap()["products"])

	// Later view changes do not repeat the load-time check.
	vm.DeriveByCategory("drinks")
	require.Len(t, logs.FilterMessage("display category has no published products").All(), 1)
}

func TestDisplayCategoryMonitorFollowsStore(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	registry := NewRegistry()
	registry.PublishProducts([]catalog.Product{{ID: "1", CategoryID: "burgers"}})

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display_category: burgers\n"), 0o600))
	store, err := NewStore(path, Settings{})
	require.NoError(t, err)

	monitor := NewDisplayCategoryMonitor(registry, store.Settings(), zap.New(core))
	unsubscribe := store.Subscribe(monitor.OnSettings)
	defer unsubscribe()
	monitor.OnView(catalog.View{Loaded: true})
	require.Equal(t, 1, logs.FilterMessage("display category resolved").Len())

	require.NoError(t, os.WriteFile(path, []byte("display_category: desserts\n"), 0o600))
	require.NoError(t, store.Reload())
	require.Equal(t, 1, logs.FilterMessage("display category has no published products").Len())
}

func TestDisplayCategoryMonitorIgnoresUnsetCategory(t *testing.T) {
	t.Parallel()

	monitor := NewDisplayCategoryMonitor(nil, Settings{}, nil)
	require.True(t, monitor.Check(Settings{}))
	require.False(t, monitor.Check(Settings{DisplayCategory: "burgers"}))
}
