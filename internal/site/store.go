package site

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const defaultReloadDebounce = 200 * time.Millisecond

// Store holds the current settings and notifies subscribers when the settings file changes.
type Store struct {
	path     string
	defaults Settings
	logger   *zap.Logger
	debounce time.Duration

	mu          sync.RWMutex
	current     Settings
	subscribers []settingsSubscriber
}

type settingsSubscriber struct {
	id string
	fn func(Settings)
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for reload diagnostics.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReloadDebounce groups file events that arrive within d into one reload.
func WithReloadDebounce(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// NewStore loads the settings file at path (optional) over defaults.
func NewStore(path string, defaults Settings, opts ...StoreOption) (*Store, error) {
	s := &Store{
		path:     path,
		defaults: defaults,
		logger:   zap.NewNop(),
		debounce: defaultReloadDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	current, err := LoadSettings(path, defaults)
	if err != nil {
		return nil, err
	}
	s.current = current
	return s, nil
}

// Settings returns the current settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to receive settings after every successful reload.
func (s *Store) Subscribe(fn func(Settings)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	id := ulid.Make().String()
	s.mu.Lock()
	s.subscribers = append(s.subscribers, settingsSubscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subscribers = slices.DeleteFunc(s.subscribers, func(sub settingsSubscriber) bool {
				return sub.id == id
			})
		})
	}
}

// Reload re-reads the settings file. On error the previous settings stay active.
func (s *Store) Reload() error {
	next, err := LoadSettings(s.path, s.defaults)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = next
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub.fn(next)
	}
	s.logger.Info("settings reloaded",
		zap.String("path", s.path),
		zap.String("display_category", next.DisplayCategory),
		zap.Int("categories", len(next.Categories)),
	)
	return nil
}

// Watch reloads the settings whenever the file changes until ctx is done. The
// parent directory is watched so that editors replacing the file are noticed.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("site: create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("site: resolve %s: %w", s.path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("site: watch %s: %w", filepath.Dir(abs), err)
	}
	s.logger.Info("settings watcher started", zap.String("path", abs))

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	schedule := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(s.debounce, func() {
			if err := s.Reload(); err != nil {
				s.logger.Warn("settings reload failed", zap.Error(err))
			}
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("settings watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.logger.Debug("settings file event", zap.String("op", event.Op.String()))
			schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("settings watcher error", zap.Error(err))
		}
	}
}
