package carousel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chhitz007/nexora-page/internal/clock"
)

// DefaultInterval is the auto-rotation period.
const DefaultInterval = 6 * time.Second

// ErrPageOutOfRange is returned by Select for an invalid page.
var ErrPageOutOfRange = errors.New("carousel: page out of range")

// Rotator advances a page cursor on a timer. The cursor can be overridden with Select,
// which restarts the countdown.
type Rotator struct {
	mu       sync.Mutex
	clock    clock.Clock
	interval time.Duration
	total    int
	current  int

	timer   clock.Timer
	gen     uint64
	dueAt   time.Time
	started bool
	stopped bool

	onTick func(page int)
}

// Option configures a Rotator.
type Option func(*Rotator)

// WithClock replaces the real clock.
func WithClock(c clock.Clock) Option {
	return func(r *Rotator) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(r *Rotator) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithOnTick registers a callback invoked after each timer-driven advance, outside the lock.
func WithOnTick(fn func(page int)) Option {
	return func(r *Rotator) {
		r.onTick = fn
	}
}

// NewRotator returns a stopped rotator over totalPages pages.
func NewRotator(totalPages int, opts ...Option) *Rotator {
	r := &Rotator{
		clock:    clock.Real(),
		interval: DefaultInterval,
		total:    max(totalPages, 0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Start schedules the first tick one interval from now. It is a no-op after the first
// call, after Stop, or when there is at most one page.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true
	r.scheduleLocked()
}

// Stop cancels the pending tick. No tick mutates state after Stop returns.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	r.cancelLocked()
}

// Tick advances the cursor and, while running, reschedules the next tick.
func (r *Rotator) Tick() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceLocked()
	if r.started && !r.stopped {
		r.scheduleLocked()
	}
	return r.current
}

// Select moves to page and restarts the countdown from a full interval.
func (r *Rotator) Select(page int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if page < 0 || page >= r.total {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrPageOutOfRange, page, r.total)
	}
	r.current = page
	if r.started && !r.stopped {
		r.scheduleLocked()
	}
	return nil
}

// Current is the page on display.
func (r *Rotator) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// TotalPages is the page count fixed at construction.
func (r *Rotator) TotalPages() int {
	return r.total
}

// Interval is the rotation period.
func (r *Rotator) Interval() time.Duration {
	return r.interval
}

// NextTickAt reports when the pending tick fires, or the zero time when none is pending.
func (r *Rotator) NextTickAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dueAt
}

func (r *Rotator) advanceLocked() {
	if r.total <= 1 {
		return
	}
	r.current = (r.current + 1) % r.total
}

func (r *Rotator) cancelLocked() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.dueAt = time.Time{}
}

func (r *Rotator) scheduleLocked() {
	r.cancelLocked()
	if r.total <= 1 {
		return
	}
	gen := r.gen
	r.dueAt = r.clock.Now().Add(r.interval)
	r.timer = r.clock.AfterFunc(r.interval, func() { r.fire(gen) })
}

func (r *Rotator) fire(gen uint64) {
	r.mu.Lock()
	if r.stopped || gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	r.advanceLocked()
	r.scheduleLocked()
	page := r.current
	onTick := r.onTick
	r.mu.Unlock()

	if onTick != nil {
		onTick(page)
	}
}
