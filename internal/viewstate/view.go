// Package viewstate keeps the server-side state of every mounted page: the home
// carousel and overlays, the contact form panel and the status banner.
package viewstate

import (
	"sync"
	"time"

	"github.com/chhitz007/nexora-page/internal/carousel"
	"github.com/chhitz007/nexora-page/internal/forms"
	"github.com/chhitz007/nexora-page/internal/overlay"
	"github.com/chhitz007/nexora-page/internal/toast"
)

// Kind is the page a view was mounted for.
type Kind string

const (
	KindHome      Kind = "home"
	KindContact   Kind = "contact"
	KindInvestors Kind = "investors"
)

// State is the mutable part of a view. It is only reachable through View.Update, which
// holds the view lock.
type State struct {
	Overlay *overlay.Coordinator
	Lock    *overlay.LockRecorder

	// ActiveForm is the open contact form panel, empty when none is open.
	ActiveForm forms.Kind
	Values     map[forms.Kind]forms.Values
	Invalid    map[forms.Kind][]string
}

// OpenForm opens a contact form panel, locking scroll when nothing else was open.
func (s *State) OpenForm(kind forms.Kind) {
	wasOpen := s.ActiveForm != "" || s.Overlay.Locked()
	s.ActiveForm = kind
	if !wasOpen {
		s.Lock.Engage()
	}
}

// CloseForm closes the panel when kind is the open one.
func (s *State) CloseForm(kind forms.Kind) bool {
	if s.ActiveForm == "" || s.ActiveForm != kind {
		return false
	}
	s.ActiveForm = ""
	if !s.Overlay.Locked() {
		s.Lock.Release()
	}
	return true
}

// FormValues returns the preserved input for def, or its initial values.
func (s *State) FormValues(def forms.Definition) forms.Values {
	if v, ok := s.Values[def.Kind]; ok {
		return v
	}
	return def.Initial()
}

// ResetForm restores def to its initial state.
func (s *State) ResetForm(def forms.Definition) {
	delete(s.Values, def.Kind)
	delete(s.Invalid, def.Kind)
}

// KeepForm stores entered values and the fields that failed validation.
func (s *State) KeepForm(def forms.Definition, values forms.Values, invalid []string) {
	s.Values[def.Kind] = values
	if len(invalid) == 0 {
		delete(s.Invalid, def.Kind)
		return
	}
	s.Invalid[def.Kind] = invalid
}

// View is the server-side twin of one rendered page.
type View struct {
	id      string
	kind    Kind
	owner   string
	mounted time.Time

	// Carousel is nil for pages without the founders carousel.
	Carousel *carousel.Rotator
	// Banner is nil for pages without forms.
	Banner *toast.Banner

	mu       sync.Mutex
	lastSeen time.Time
	state    State
	stopped  bool
}

func (v *View) ID() string           { return v.id }
func (v *View) Kind() Kind           { return v.kind }
func (v *View) Owner() string        { return v.owner }
func (v *View) MountedAt() time.Time { return v.mounted }

// Update runs fn with the view locked.
func (v *View) Update(fn func(*State)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.state)
}

// Stopped reports whether the view has been unmounted.
func (v *View) Stopped() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stopped
}

func (v *View) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *View) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// stop cancels every timer the view owns. It is idempotent.
func (v *View) stop() {
	v.mu.Lock()
	if v.stopped {
		v.mu.Unlock()
		return
	}
	v.stopped = true
	v.mu.Unlock()

	if v.Carousel != nil {
		v.Carousel.Stop()
	}
	if v.Banner != nil {
		v.Banner.Stop()
	}
}
