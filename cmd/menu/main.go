package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/hanko-menu/internal/catalog"
	"finitefield.org/hanko-menu/internal/handlers"
	"finitefield.org/hanko-menu/internal/i18n"
	"finitefield.org/hanko-menu/internal/layout"
	"finitefield.org/hanko-menu/internal/platform/config"
	"finitefield.org/hanko-menu/internal/platform/observability"
	"finitefield.org/hanko-menu/internal/site"
	"finitefield.org/hanko-menu/public"
)

func main() {
	startedAt := time.Now().UTC()

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", invalid.Fields())
		} else {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		}
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("menu")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = observability.WithLogger(ctx, logger)

	store, err := site.NewStore(cfg.Settings.File,
		// Lang stays empty so Accept-Language applies unless the settings file pins one.
		site.DefaultSettings(cfg.Display.Currency, ""),
		site.WithStoreLogger(logger.Named("settings")),
	)
	if err != nil {
		logger.Fatal("failed to load site settings", zap.Error(err), zap.String("path", cfg.Settings.File))
	}

	source, err := catalog.NewSource(cfg.Catalog.URL, cfg.Catalog.Timeout)
	if err != nil {
		logger.Fatal("failed to initialise catalog source", zap.Error(err))
	}
	if cfg.Catalog.URL == "" {
		logger.Info("catalog url not configured; serving demo catalog")
	}

	registry := site.NewRegistry()
	vm := catalog.NewViewModel(source,
		catalog.WithLogger(logger.Named("catalog")),
		catalog.WithPublisher(registry),
		catalog.WithDerivationCacheSize(cfg.Catalog.DerivationCache),
	)
	defer vm.Close()

	// Requests derive on forks of vm; the shared instance only holds the snapshot.
	monitor := site.NewDisplayCategoryMonitor(registry, store.Settings(), logger.Named("settings"))
	stopSettings := store.Subscribe(monitor.OnSettings)
	defer stopSettings()
	stopViews := vm.Subscribe(monitor.OnView)
	defer stopViews()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout+2*time.Second)
		defer cancel()
		// Failures are logged by the view-model; the menu stays empty and /readyz reports 503.
		_ = vm.Initialize(loadCtx)
	}()

	if cfg.Settings.Watch && cfg.Settings.File != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Watch(ctx); err != nil {
				logger.Warn("settings watcher disabled", zap.Error(err))
			}
		}()
	}

	cardLayout := layout.Resolve(cfg.Display.ProductCardType)
	if cfg.Display.ProductCardType != "" && !layout.Known(cfg.Display.ProductCardType) {
		logger.Warn("unknown product card type; using default layout", zap.String("value", cfg.Display.ProductCardType))
	}

	messages, err := i18n.Default()
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	staticContent, err := public.StaticFS()
	if err != nil {
		logger.Fatal("failed to open embedded assets", zap.Error(err))
	}

	menuHandlers := handlers.NewMenuHandlers(handlers.MenuDependencies{
		ViewModel: vm,
		Settings:  store,
		Registry:  registry,
		Layout:    cardLayout,
		Currency:  cfg.Display.Currency,
		Lang:      cfg.Display.Lang,
		Messages:  messages,
	})

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthStartedAt(startedAt),
		handlers.WithReadiness(vm.Loaded),
		handlers.WithCatalogLoadedAt(vm.LoadedAt),
	)

	middlewares := []func(http.Handler) http.Handler{
		chimw.Compress(5),
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(cfg.Trace.ProjectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithAssets(staticContent),
		handlers.WithMenuRoutes(menuHandlers.Routes),
	)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverLogger := logger.Named("http").With(
		zap.String("addr", server.Addr),
		zap.String("environment", cfg.Server.Environment),
		zap.String("layout", string(cardLayout.Variant)),
	)
	go func() {
		serverLogger.Info("menu server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	wg.Wait()
}
