package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.URL != "" {
		t.Errorf("expected demo catalog by default, got %q", cfg.Catalog.URL)
	}
	if cfg.Catalog.Timeout != defaultCatalogTimeout {
		t.Errorf("unexpected catalog timeout: %s", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.DerivationCache != defaultDerivationCache {
		t.Errorf("unexpected derivation cache size: %d", cfg.Catalog.DerivationCache)
	}
	if cfg.Display.ProductCardType != "" {
		t.Errorf("expected unset card type, got %q", cfg.Display.ProductCardType)
	}
	if cfg.Display.Currency != "JPY" || cfg.Display.Lang != "ja" {
		t.Errorf("unexpected display defaults: %+v", cfg.Display)
	}
	if cfg.Settings.File != defaultSettingsFile || !cfg.Settings.Watch {
		t.Errorf("unexpected settings defaults: %+v", cfg.Settings)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("unexpected log level %q", cfg.Logging.Level)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"MENU_SERVER_PORT":           "9090",
		"MENU_SERVER_IDLE_TIMEOUT":   "2m",
		"MENU_CATALOG_URL":           "http://localhost:3000/api/initialData",
		"MENU_CATALOG_TIMEOUT":       "3s",
		"MENU_PRODUCT_CARD_TYPE":     " 21 ",
		"MENU_DEFAULT_CURRENCY":      "usd",
		"MENU_DEFAULT_LANG":          "EN",
		"MENU_SETTINGS_FILE":         "/etc/menu/settings.yaml",
		"MENU_SETTINGS_WATCH":        "off",
		"MENU_DERIVATION_CACHE_SIZE": "64",
		"MENU_TRACE_PROJECT_ID":      "menu-prod",
		"LOG_LEVEL":                  "debug",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Catalog.URL != "http://localhost:3000/api/initialData" {
		t.Errorf("unexpected catalog url %q", cfg.Catalog.URL)
	}
	if cfg.Catalog.Timeout != 3*time.Second {
		t.Errorf("unexpected catalog timeout %s", cfg.Catalog.Timeout)
	}
	if cfg.Display.ProductCardType != "21" {
		t.Errorf("expected trimmed card type 21, got %q", cfg.Display.ProductCardType)
	}
	if cfg.Display.Currency != "USD" || cfg.Display.Lang != "en" {
		t.Errorf("expected normalised display config, got %+v", cfg.Display)
	}
	if cfg.Settings.Watch {
		t.Errorf("expected settings watch disabled")
	}
	if cfg.Catalog.DerivationCache != 64 {
		t.Errorf("unexpected derivation cache size %d", cfg.Catalog.DerivationCache)
	}
	if cfg.Trace.ProjectID != "menu-prod" {
		t.Errorf("unexpected trace project %q", cfg.Trace.ProjectID)
	}
}

func TestLoadFallsBackToCloudRunPortAndLegacyCardType(t *testing.T) {
	env := map[string]string{
		"PORT":                          "7000",
		"NEXT_PUBLIC_PRODUCT_CARD_TYPE": "4",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}
	if cfg.Display.ProductCardType != "4" {
		t.Errorf("expected legacy card type fallback, got %q", cfg.Display.ProductCardType)
	}
}

func TestLoadDotEnvFallback(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "# local overrides\nexport MENU_SERVER_PORT=7070\nMENU_PRODUCT_CARD_TYPE=\"5\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dotenv file: %v", err)
	}

	cfg, err := Load(WithEnvFile(envPath), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from dotenv 7070, got %s", cfg.Server.Port)
	}
	if cfg.Display.ProductCardType != "5" {
		t.Errorf("expected card type from dotenv, got %q", cfg.Display.ProductCardType)
	}
}

func TestLoadEnvMapOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("MENU_SERVER_PORT=7070\n"), 0o644); err != nil {
		t.Fatalf("failed to write dotenv file: %v", err)
	}

	cfg, err := Load(WithEnvFile(envPath), WithEnvMap(map[string]string{"MENU_SERVER_PORT": "6060"}), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "6060" {
		t.Errorf("expected env map to win, got %s", cfg.Server.Port)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"MENU_SERVER_PORT":           "eighty",
		"MENU_CATALOG_URL":           "ftp://catalog",
		"MENU_DERIVATION_CACHE_SIZE": "0",
		"MENU_DEFAULT_CURRENCY":      "YEN!",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	want := map[string]bool{
		"Server.Port":             false,
		"Catalog.URL":             false,
		"Catalog.DerivationCache": false,
		"Display.Currency":        false,
	}
	for _, field := range vErr.Fields() {
		if _, ok := want[field]; ok {
			want[field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("expected %s to be reported, got %v", field, vErr.Fields())
		}
	}
}
