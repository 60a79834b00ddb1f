package viewstate

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chhitz007/nexora-page/internal/carousel"
	"github.com/chhitz007/nexora-page/internal/clock"
	"github.com/chhitz007/nexora-page/internal/content"
	"github.com/chhitz007/nexora-page/internal/forms"
	"github.com/chhitz007/nexora-page/internal/overlay"
	"github.com/chhitz007/nexora-page/internal/toast"
)

const (
	DefaultIdleTTL       = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

var (
	// ErrClosed is returned by Mount after Close.
	ErrClosed = errors.New("viewstate: registry closed")
	// ErrNotFound means the view is unknown, evicted or owned by another session.
	ErrNotFound = errors.New("viewstate: view not found")
)

// Registry holds mounted views keyed by id.
type Registry struct {
	site     *content.Site
	clock    clock.Clock
	logger   *zap.Logger
	interval time.Duration
	pageSize int
	idleTTL  time.Duration
	sweep    time.Duration
	newID    func() string

	mu      sync.Mutex
	views   map[string]*View
	janitor clock.Timer
	closed  bool
}

// Option configures a Registry.
type Option func(*Registry)

func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCarouselInterval sets the founders rotation period.
func WithCarouselInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithPageSize sets the founders per carousel page.
func WithPageSize(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithIdleTTL sets how long an untouched view survives.
func WithIdleTTL(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.idleTTL = d
		}
	}
}

// WithSweepInterval sets the janitor period.
func WithSweepInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.sweep = d
		}
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

func NewRegistry(site *content.Site, opts ...Option) *Registry {
	r := &Registry{
		site:     site,
		clock:    clock.Real(),
		logger:   zap.NewNop(),
		interval: carousel.DefaultInterval,
		pageSize: carousel.DefaultPageSize,
		idleTTL:  DefaultIdleTTL,
		sweep:    DefaultSweepInterval,
		newID:    func() string { return uuid.NewString() },
		views:    make(map[string]*View),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Site is the content the registry renders from.
func (r *Registry) Site() *content.Site { return r.site }

// PageSize is the number of founders per carousel page.
func (r *Registry) PageSize() int { return r.pageSize }

// Mount creates a view for kind owned by the given session and starts its timers.
func (r *Registry) Mount(kind Kind, owner string) (*View, error) {
	now := r.clock.Now()
	lock := &overlay.LockRecorder{}
	v := &View{
		id:       r.newID(),
		kind:     kind,
		owner:    owner,
		mounted:  now,
		lastSeen: now,
		state: State{
			Overlay: overlay.NewCoordinator(r.site.Founders, lock),
			Lock:    lock,
			Values:  make(map[forms.Kind]forms.Values),
			Invalid: make(map[forms.Kind][]string),
		},
	}
	switch kind {
	case KindHome:
		total := carousel.TotalPages(len(r.site.Founders), r.pageSize)
		v.Carousel = carousel.NewRotator(total, carousel.WithClock(r.clock), carousel.WithInterval(r.interval))
	case KindContact, KindInvestors:
		v.Banner = toast.NewBanner(toast.WithClock(r.clock))
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	r.views[v.id] = v
	r.mu.Unlock()

	if v.Carousel != nil {
		v.Carousel.Start()
	}
	r.logger.Debug("view mounted", zap.String("view_id", v.id), zap.String("view_kind", string(kind)))
	return v, nil
}

// Get returns the view with id when owner mounted it, refreshing its idle deadline.
func (r *Registry) Get(id, owner string) (*View, error) {
	r.mu.Lock()
	v, ok := r.views[id]
	r.mu.Unlock()
	if !ok || v.owner != owner || v.Stopped() {
		return nil, ErrNotFound
	}
	v.touch(r.clock.Now())
	return v, nil
}

// Unmount stops and forgets the view.
func (r *Registry) Unmount(id, owner string) bool {
	r.mu.Lock()
	v, ok := r.views[id]
	if !ok || v.owner != owner {
		r.mu.Unlock()
		return false
	}
	delete(r.views, id)
	r.mu.Unlock()

	v.stop()
	r.logger.Debug("view unmounted", zap.String("view_id", id), zap.String("view_kind", string(v.kind)))
	return true
}

// Len is the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep evicts views idle for longer than the TTL and returns how many were stopped.
func (r *Registry) Sweep() int {
	cutoff := r.clock.Now().Add(-r.idleTTL)

	r.mu.Lock()
	var idle []*View
	for id, v := range r.views {
		if v.idleSince().Before(cutoff) {
			idle = append(idle, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range idle {
		v.stop()
		r.logger.Info("view evicted", zap.String("view_id", v.id), zap.String("view_kind", string(v.kind)))
	}
	return len(idle)
}

// StartJanitor sweeps idle views every sweep interval until Close.
func (r *Registry) StartJanitor() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.janitor != nil {
		return
	}
	r.scheduleJanitorLocked()
}

func (r *Registry) scheduleJanitorLocked() {
	r.janitor = r.clock.AfterFunc(r.sweep, func() {
		r.Sweep()
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return
		}
		r.scheduleJanitorLocked()
	})
}

// Close stops the janitor and every view. Mount fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.janitor != nil {
		r.janitor.Stop()
		r.janitor = nil
	}
	views := make([]*View, 0, len(r.views))
	for id, v := range r.views {
		views = append(views, v)
		delete(r.views, id)
	}
	r.mu.Unlock()

	for _, v := range views {
		v.stop()
	}
	r.logger.Info("view registry closed", zap.Int("views_stopped", len(views)))
}
