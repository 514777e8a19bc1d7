package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile           = ".env"
	defaultPort              = "8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultCatalogTimeout    = 8 * time.Second
	defaultSettingsFile      = "settings.yaml"
	defaultCurrency          = "JPY"
	defaultLang              = "ja"
	defaultDerivationCache   = 256
	defaultLogLevel          = "info"
	defaultEnvironment       = "local"
	maxDerivationCacheSize   = 4096
	catalogURLEnvKey         = "MENU_CATALOG_URL"
	productCardTypeEnvKey    = "MENU_PRODUCT_CARD_TYPE"
	legacyProductCardTypeKey = "NEXT_PUBLIC_PRODUCT_CARD_TYPE"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Display  DisplayConfig
	Settings SettingsConfig
	Logging  LoggingConfig
	Trace    TraceConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// CatalogConfig describes the upstream endpoint returning products and add-ons.
// An empty URL selects the embedded demo catalog.
type CatalogConfig struct {
	URL             string
	Timeout         time.Duration
	DerivationCache int
}

// DisplayConfig groups storefront presentation options.
type DisplayConfig struct {
	ProductCardType string
	Currency        string
	Lang            string
}

// SettingsConfig locates the site settings file.
type SettingsConfig struct {
	File  string
	Watch bool
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string
}

// TraceConfig controls Cloud Trace correlation.
type TraceConfig struct {
	ProjectID string
}

// ValidationError is returned when configuration fields are invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the menu service configuration by combining defaults, .env overrides,
// and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	port := stringWithDefault(lookup, "MENU_SERVER_PORT", "")
	if port == "" {
		// Cloud Run injects PORT.
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cardType := stringWithDefault(lookup, productCardTypeEnvKey, "")
	if cardType == "" {
		cardType = stringWithDefault(lookup, legacyProductCardTypeKey, "")
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  durationWithDefault(lookup, "MENU_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "MENU_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "MENU_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			Environment:  strings.ToLower(stringWithDefault(lookup, "MENU_ENVIRONMENT", defaultEnvironment)),
		},
		Catalog: CatalogConfig{
			URL:             strings.TrimSpace(stringWithDefault(lookup, catalogURLEnvKey, "")),
			Timeout:         durationWithDefault(lookup, "MENU_CATALOG_TIMEOUT", defaultCatalogTimeout),
			DerivationCache: intWithDefault(lookup, "MENU_DERIVATION_CACHE_SIZE", defaultDerivationCache),
		},
		Display: DisplayConfig{
			ProductCardType: strings.TrimSpace(cardType),
			Currency:        strings.ToUpper(stringWithDefault(lookup, "MENU_DEFAULT_CURRENCY", defaultCurrency)),
			Lang:            strings.ToLower(stringWithDefault(lookup, "MENU_DEFAULT_LANG", defaultLang)),
		},
		Settings: SettingsConfig{
			File:  stringWithDefault(lookup, "MENU_SETTINGS_FILE", defaultSettingsFile),
			Watch: boolWithDefault(lookup, "MENU_SETTINGS_WATCH", true),
		},
		Logging: LoggingConfig{
			Level: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		},
		Trace: TraceConfig{
			ProjectID: stringWithDefault(lookup, "MENU_TRACE_PROJECT_ID", ""),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		invalid = append(invalid, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		invalid = append(invalid, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		invalid = append(invalid, "Server.WriteTimeout")
	}
	if cfg.Catalog.URL != "" {
		parsed, err := url.Parse(cfg.Catalog.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			invalid = append(invalid, "Catalog.URL")
		}
	}
	if cfg.Catalog.Timeout <= 0 {
		invalid = append(invalid, "Catalog.Timeout")
	}
	if cfg.Catalog.DerivationCache <= 0 || cfg.Catalog.DerivationCache > maxDerivationCacheSize {
		invalid = append(invalid, "Catalog.DerivationCache")
	}
	if len(cfg.Display.Currency) != 3 {
		invalid = append(invalid, "Display.Currency")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
