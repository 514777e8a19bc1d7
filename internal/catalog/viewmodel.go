package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrNotLoaded is returned when the catalog snapshot has not been loaded yet.
var ErrNotLoaded = errors.New("catalog: snapshot not loaded")

// Trigger names the signal that produced a View.
type Trigger string

const (
	TriggerInitialize Trigger = "initialize"
	TriggerCategory   Trigger = "category"
	TriggerSearch     Trigger = "search"
)

// View is an immutable copy of the view-model state handed to renderers and subscribers.
type View struct {
	Products   []Product
	AddOns     []AddOn
	CategoryID string
	Query      string
	Trigger    Trigger
	Loaded     bool
}

// Listener receives a View after every change to the visible list.
type Listener func(View)

// SnapshotPublisher receives the full normalized product list once it is loaded.
type SnapshotPublisher interface {
	PublishProducts(products []Product)
}

// PublisherFunc adapts a function to SnapshotPublisher.
type PublisherFunc func(products []Product)

// PublishProducts implements SnapshotPublisher.
func (fn PublisherFunc) PublishProducts(products []Product) {
	if fn != nil {
		fn(products)
	}
}

// Option customises a ViewModel.
type Option func(*ViewModel)

// WithLogger sets the logger used for load failures and diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(vm *ViewModel) {
		if logger != nil {
			vm.logger = logger
		}
	}
}

// WithPublisher registers the sink that receives the snapshot after a successful load.
func WithPublisher(publisher SnapshotPublisher) Option {
	return func(vm *ViewModel) {
		vm.publisher = publisher
	}
}

// WithDerivationCacheSize bounds the number of memoized category/search results.
func WithDerivationCacheSize(size int) Option {
	return func(vm *ViewModel) {
		vm.cacheSize = size
	}
}

// WithMeter injects the OpenTelemetry meter; the global provider is used otherwise.
func WithMeter(m metric.Meter) Option {
	return func(vm *ViewModel) {
		vm.meter = m
	}
}

// WithClock overrides the clock used to stamp the load time.
func WithClock(clock func() time.Time) Option {
	return func(vm *ViewModel) {
		if clock != nil {
			vm.clock = clock
		}
	}
}

// ViewModel owns the catalog snapshot and derives the visible product list from
// category and search signals. The snapshot is written once by Initialize and is
// read-only afterwards; every derivation starts from the full snapshot.
type ViewModel struct {
	source    Source
	publisher SnapshotPublisher
	logger    *zap.Logger
	cacheSize int
	clock     func() time.Time
	meter     metric.Meter
	metrics   *instruments

	mu          sync.RWMutex
	cache       *derivationCache
	snapshot    []Product
	addOns      []AddOn
	loadedAt    time.Time
	loaded      bool
	started     bool
	closed      bool
	categoryID  string
	query       string
	visible     []Product
	lastTrigger Trigger
	listeners   []subscription
}

type subscription struct {
	id string
	fn Listener
}

// NewViewModel constructs a view-model that loads its snapshot from source.
func NewViewModel(source Source, opts ...Option) *ViewModel {
	vm := &ViewModel{
		source:    source,
		logger:    zap.NewNop(),
		cacheSize: defaultDerivationCacheSize,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.metrics = newInstruments(vm.meter, vm.logger)
	return vm
}

// Initialize performs the single catalog fetch. On success the snapshot is stored,
// published, and the visible list is derived for the category known at that time.
// On failure the error is logged and returned; the snapshot and visible list stay
// empty and no retry happens. Calls after the first are no-ops.
func (vm *ViewModel) Initialize(ctx context.Context) error {
	vm.mu.Lock()
	if vm.started || vm.closed {
		vm.mu.Unlock()
		return nil
	}
	vm.started = true
	vm.mu.Unlock()

	if vm.source == nil {
		err := fmt.Errorf("%w: no source configured", ErrSourceUnavailable)
		vm.logger.Error("catalog load failed", zap.Error(err))
		return err
	}

	fetchStart := vm.clock()
	payload, err := vm.source.Fetch(ctx)
	vm.metrics.recordFetch(ctx, vm.clock().Sub(fetchStart), err)
	if err != nil {
		vm.logger.Error("catalog load failed", zap.Error(err))
		return fmt.Errorf("catalog: initialize: %w", err)
	}

	snapshot := Normalize(payload.Products)
	addOns := slices.Clone(payload.AddOns)
	if addOns == nil {
		addOns = []AddOn{}
	}

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		vm.logger.Debug("catalog response discarded after close")
		return nil
	}
	vm.snapshot = snapshot
	vm.addOns = addOns
	vm.loaded = true
	vm.loadedAt = vm.clock().UTC()
	vm.cache = newDerivationCache(vm.cacheSize, vm.metrics)
	vm.visible = vm.cache.byCategory(snapshot, vm.categoryID)
	vm.lastTrigger = TriggerInitialize
	view := vm.viewLocked()
	listeners := slices.Clone(vm.listeners)
	vm.mu.Unlock()

	if vm.publisher != nil {
		vm.publisher.PublishProducts(slices.Clone(snapshot))
	}
	notify(listeners, view)

	vm.logger.Info("catalog loaded",
		zap.Int("products", len(payload.Products)),
		zap.Int("published", len(snapshot)),
		zap.Int("addons", len(addOns)),
		zap.String("category_id", view.CategoryID),
	)
	return nil
}

// DeriveByCategory recomputes the visible list from the full snapshot: everything when
// categoryID is empty, otherwise the products in exactly that category.
func (vm *ViewModel) DeriveByCategory(categoryID string) View {
	vm.mu.Lock()
	if vm.closed {
		view := vm.viewLocked()
		vm.mu.Unlock()
		return view
	}
	vm.categoryID = categoryID
	vm.visible = vm.cache.byCategory(vm.snapshot, categoryID)
	vm.lastTrigger = TriggerCategory
	view := vm.viewLocked()
	listeners := slices.Clone(vm.listeners)
	vm.mu.Unlock()

	notify(listeners, view)
	return view
}

// DeriveBySearch recomputes the visible list from the full snapshot: everything when
// query is empty, otherwise the products whose name contains query ignoring case.
// The active category does not narrow the result; it applies again on the next
// DeriveByCategory.
func (vm *ViewModel) DeriveBySearch(query string) View {
	vm.mu.Lock()
	if vm.closed {
		view := vm.viewLocked()
		vm.mu.Unlock()
		return view
	}
	vm.query = query
	vm.visible = vm.cache.bySearch(vm.snapshot, query)
	vm.lastTrigger = TriggerSearch
	view := vm.viewLocked()
	listeners := slices.Clone(vm.listeners)
	vm.mu.Unlock()

	notify(listeners, view)
	return view
}

// Subscribe registers fn for change notifications and returns a func that removes it.
func (vm *ViewModel) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	id := ulid.Make().String()

	vm.mu.Lock()
	vm.listeners = append(vm.listeners, subscription{id: id, fn: fn})
	vm.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			vm.mu.Lock()
			defer vm.mu.Unlock()
			vm.listeners = slices.DeleteFunc(vm.listeners, func(s subscription) bool {
				return s.id == id
			})
		})
	}
}

// Fork returns a view-model that shares this one's snapshot and derivation cache but
// keeps its own selection and visible list. Forks never fetch or publish.
func (vm *ViewModel) Fork() *ViewModel {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return &ViewModel{
		source:      vm.source,
		logger:      vm.logger,
		cacheSize:   vm.cacheSize,
		clock:       vm.clock,
		meter:       vm.meter,
		metrics:     vm.metrics,
		cache:       vm.cache,
		snapshot:    vm.snapshot,
		addOns:      vm.addOns,
		loadedAt:    vm.loadedAt,
		loaded:      vm.loaded,
		started:     true,
		visible:     vm.snapshot,
		lastTrigger: TriggerInitialize,
	}
}

// Close detaches all subscribers. A fetch still in flight is discarded when it returns.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.closed = true
	vm.listeners = nil
}

// View returns the current state.
func (vm *ViewModel) View() View {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.viewLocked()
}

// Visible returns a copy of the visible list.
func (vm *ViewModel) Visible() []Product {
	return vm.View().Products
}

// AddOns returns a copy of the unfiltered add-on list.
func (vm *ViewModel) AddOns() []AddOn {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return copyAddOns(vm.addOns)
}

// Snapshot returns a copy of the normalized catalog, or ErrNotLoaded before a successful Initialize.
func (vm *ViewModel) Snapshot() ([]Product, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if !vm.loaded {
		return nil, ErrNotLoaded
	}
	return copyProducts(vm.snapshot), nil
}

// Loaded reports whether the snapshot is available.
func (vm *ViewModel) Loaded() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.loaded
}

// LoadedAt returns when the snapshot was stored; zero before load.
func (vm *ViewModel) LoadedAt() time.Time {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.loadedAt
}

func (vm *ViewModel) viewLocked() View {
	return View{
		Products:   copyProducts(vm.visible),
		AddOns:     copyAddOns(vm.addOns),
		CategoryID: vm.categoryID,
		Query:      vm.query,
		Trigger:    vm.lastTrigger,
		Loaded:     vm.loaded,
	}
}

func notify(listeners []subscription, view View) {
	for _, l := range listeners {
		l.fn(view)
	}
}

func copyProducts(in []Product) []Product {
	out := make([]Product, len(in))
	copy(out, in)
	return out
}

func copyAddOns(in []AddOn) []AddOn {
	out := make([]AddOn, len(in))
	copy(out, in)
	return out
}
