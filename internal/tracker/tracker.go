// Package tracker holds the rolling token list, drives periodic generation
// and exposes filtered views and aggregates to a rendering layer.
package tracker

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"token-tracker/internal/domain"
	"token-tracker/internal/generator"
	"token-tracker/internal/logging"
	"token-tracker/internal/observability"
	"token-tracker/internal/storage"
	"token-tracker/internal/storage/memory"
)

// Defaults.
const (
	DefaultMinTickDelay = 4 * time.Second
	DefaultMaxTickDelay = 7 * time.Second
	DefaultRecentWindow = 5 * time.Minute
	DefaultSeedBackdate = time.Hour
	DefaultSeedCount    = 15
)

// Observer receives a snapshot after every mutation.
// Observers run synchronously on the mutating goroutine, in mutation order,
// and must not call back into the Tracker.
type Observer = func(domain.Snapshot)

// Tracker is the token store and tick scheduler.
type Tracker struct {
	store        storage.TokenStore
	gen          *generator.Generator
	rng          generator.Rand
	now          func() time.Time
	minDelay     time.Duration
	maxDelay     time.Duration
	recentWindow time.Duration
	seedBackdate time.Duration
	logger       *logrus.Entry

	// mu guards scheduler and filter state. Store mutations also happen
	// under mu so that a tick and a command never interleave.
	mu      sync.Mutex
	running bool
	filter  domain.Filter
	timer   *time.Timer
	epoch   uint64 // bumped on every schedule and stop; stale timers compare against it

	// notifyMu serialises observer delivery so snapshots arrive in mutation order.
	notifyMu  sync.Mutex
	obsMu     sync.RWMutex
	observers map[uint64]Observer
	nextObsID uint64
}

// Options contains configuration for creating a Tracker.
type Options struct {
	Store        storage.TokenStore   // Default: memory store of capacity 50
	Generator    *generator.Generator // Default: built from Rand and Now
	Rand         generator.Rand       // Default: process-wide source
	Now          func() time.Time     // Default: time.Now
	MinTickDelay time.Duration        // Default: 4s
	MaxTickDelay time.Duration        // Default: 7s
	RecentWindow time.Duration        // Default: 5m
	SeedBackdate time.Duration        // Default: 1h
	Logger       *logrus.Entry
}

// New creates a paused tracker with an empty store and the ALL filter.
func New(opts Options) *Tracker {
	t := &Tracker{
		store:        opts.Store,
		gen:          opts.Generator,
		rng:          opts.Rand,
		now:          opts.Now,
		minDelay:     opts.MinTickDelay,
		maxDelay:     opts.MaxTickDelay,
		recentWindow: opts.RecentWindow,
		seedBackdate: opts.SeedBackdate,
		logger:       opts.Logger,
		filter:       domain.FilterAll,
		observers:    make(map[uint64]Observer),
	}

	if t.store == nil {
		t.store = memory.NewTokenStore(memory.DefaultCapacity)
	}
	if t.rng == nil {
		t.rng = generator.DefaultRand()
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.gen == nil {
		t.gen = generator.New(generator.Options{Rand: t.rng, Now: t.now})
	}
	if t.minDelay <= 0 {
		t.minDelay = DefaultMinTickDelay
	}
	if t.maxDelay <= t.minDelay {
		t.maxDelay = t.minDelay + (DefaultMaxTickDelay - DefaultMinTickDelay)
	}
	if t.recentWindow <= 0 {
		t.recentWindow = DefaultRecentWindow
	}
	if t.seedBackdate <= 0 {
		t.seedBackdate = DefaultSeedBackdate
	}
	if t.logger == nil {
		t.logger = logging.Discard()
	}

	return t
}

// Seed inserts n generated tokens, each backdated by a random offset within
// the seed window and none highlighted. Intended to run once at startup.
func (t *Tracker) Seed(n int) {
	t.mu.Lock()

	nowMs := t.now().UnixMilli()
	window := float64(t.seedBackdate.Milliseconds())
	seeded, evicted := 0, 0
	for i := 0; i < n; i++ {
		offset := int64(t.rng.Float64() * window)
		tok := t.gen.GenerateAt(nowMs - offset)

		dropped, err := t.store.Prepend(&tok)
		if err != nil {
			t.logger.WithError(err).WithField("token_id", tok.ID).Warn("seed token rejected")
			continue
		}
		seeded++
		evicted += len(dropped)
	}

	observability.RecordSeed(seeded, evicted, t.store.Len())
	t.logger.WithFields(logrus.Fields{"seeded": seeded, "size": t.store.Len()}).Info("store seeded")

	t.publishLocked()
}

// Tick generates one token, clears every existing highlight, prepends the
// token and truncates the list to capacity.
func (t *Tracker) Tick() {
	t.mu.Lock()
	t.tickLocked()
	t.publishLocked()
}

// SetRunning starts or stops the tick scheduler. Stopping cancels the pending
// tick: once SetRunning(false) returns no tick fires until SetRunning(true).
func (t *Tracker) SetRunning(running bool) {
	t.mu.Lock()

	if running == t.running {
		t.mu.Unlock()
		return
	}

	t.running = running
	if running {
		t.scheduleLocked()
	} else {
		t.stopLocked()
	}

	observability.RecordRunning(running)
	t.logger.WithField("running", running).Info("scheduler toggled")

	t.publishLocked()
}

// SetFilter changes the active view selector. Invalid selectors are ignored.
func (t *Tracker) SetFilter(f domain.Filter) {
	if !f.IsValid() {
		t.logger.WithField("filter", f).Warn("ignoring invalid filter")
		return
	}

	t.mu.Lock()

	if f == t.filter {
		t.mu.Unlock()
		return
	}
	t.filter = f

	observability.RecordFilterChange(f.String())
	t.logger.WithField("filter", f).Debug("filter changed")

	t.publishLocked()
}

// CurrentView returns the tokens selected by the active filter, newest first.
func (t *Tracker) CurrentView() []domain.Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked(t.filter)
}

// View returns the tokens selected by f without changing the active filter.
func (t *Tracker) View(f domain.Filter) []domain.Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked(f)
}

// Aggregates summarises the full store, independent of the active filter.
func (t *Tracker) Aggregates() domain.Aggregates {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Aggregate(t.viewLocked(domain.FilterAll))
}

// Token returns one held token. Returns storage.ErrNotFound if not held.
func (t *Tracker) Token(id string) (domain.Token, error) {
	tok, err := t.store.GetByID(id)
	if err != nil {
		return domain.Token{}, err
	}
	result := *tok
	result.IsNew = result.HighlightedAt(t.now().UnixMilli())
	return result, nil
}

// IsRunning reports whether the scheduler is live.
func (t *Tracker) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// ActiveFilter returns the active view selector.
func (t *Tracker) ActiveFilter() domain.Filter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter
}

// Len returns the number of held tokens.
func (t *Tracker) Len() int {
	return t.store.Len()
}

// Snapshot returns the current view, full-store aggregates and scheduler state.
func (t *Tracker) Snapshot() domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Subscribe registers an observer. The returned function removes it.
func (t *Tracker) Subscribe(o Observer) (unsubscribe func()) {
	t.obsMu.Lock()
	id := t.nextObsID
	t.nextObsID++
	t.observers[id] = o
	t.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.obsMu.Lock()
			delete(t.observers, id)
			t.obsMu.Unlock()
		})
	}
}

// tickLocked performs one generation-and-merge cycle. Caller holds mu.
func (t *Tracker) tickLocked() {
	tok := t.gen.Generate()

	cleared := t.store.ClearHighlights(tok.CreatedAt)
	evicted, err := t.store.Prepend(&tok)
	if err != nil {
		// IDs are unique per generator; a rejection means a foreign writer.
		if errors.Is(err, storage.ErrDuplicateKey) {
			t.logger.WithField("token_id", tok.ID).Error("generated duplicate token id")
		} else {
			t.logger.WithError(err).Error("prepend generated token")
		}
		return
	}

	observability.RecordTick(len(evicted), t.store.Len())
	t.logger.WithFields(logrus.Fields{
		"token_id": tok.ID,
		"symbol":   tok.Symbol,
		"evicted":  len(evicted),
		"demoted":  cleared,
		"size":     t.store.Len(),
	}).Debug("tick")
}

func (t *Tracker) viewLocked(f domain.Filter) []domain.Token {
	nowMs := t.now().UnixMilli()
	return applyFilter(t.store.List(), f, nowMs, t.recentWindow.Milliseconds())
}

func (t *Tracker) snapshotLocked() domain.Snapshot {
	nowMs := t.now().UnixMilli()
	all := applyFilter(t.store.List(), domain.FilterAll, nowMs, t.recentWindow.Milliseconds())

	view := all
	if t.filter != domain.FilterAll {
		view = applyFilter(t.store.List(), t.filter, nowMs, t.recentWindow.Milliseconds())
	}

	return domain.Snapshot{
		Tokens:      view,
		Aggregates:  Aggregate(all),
		Running:     t.running,
		Filter:      t.filter,
		GeneratedAt: nowMs,
	}
}

// publishLocked takes a snapshot, releases mu and delivers the snapshot to
// every observer. Caller holds mu; mu is released on return.
func (t *Tracker) publishLocked() {
	t.obsMu.RLock()
	if len(t.observers) == 0 {
		t.obsMu.RUnlock()
		t.mu.Unlock()
		return
	}
	observers := make([]Observer, 0, len(t.observers))
	for _, o := range t.observers {
		observers = append(observers, o)
	}
	t.obsMu.RUnlock()

	snap := t.snapshotLocked()

	t.notifyMu.Lock()
	t.mu.Unlock()
	defer t.notifyMu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}
