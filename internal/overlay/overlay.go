// Package overlay tracks which detail panel is open on the home page and keeps page
// scrolling locked while one is.
package overlay

import (
	"fmt"
	"strings"

	"github.com/chhitz007/nexora-page/internal/content"
)

// Kind names an overlay variant.
type Kind int

const (
	KindNone Kind = iota
	KindPillar
	KindVisionMission
	KindFounder
)

func (k Kind) String() string {
	switch k {
	case KindPillar:
		return "pillar"
	case KindVisionMission:
		return "vision"
	case KindFounder:
		return "founder"
	default:
		return "none"
	}
}

// ParseKind maps a route segment to a Kind.
func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pillar":
		return KindPillar, true
	case "vision", "mission":
		return KindVisionMission, true
	case "founder":
		return KindFounder, true
	default:
		return KindNone, false
	}
}

// Active is the open overlay. The zero value is KindNone.
type Active struct {
	kind    Kind
	index   int
	pillar  content.Pillar
	panel   content.Panel
	founder content.Founder
}

func (a Active) Kind() Kind { return a.kind }

// Pillar returns the open pillar and its index.
func (a Active) Pillar() (content.Pillar, int, bool) {
	if a.kind != KindPillar {
		return content.Pillar{}, -1, false
	}
	return a.pillar, a.index, true
}

// Panel returns the open vision or mission panel.
func (a Active) Panel() (content.Panel, bool) {
	if a.kind != KindVisionMission {
		return content.Panel{}, false
	}
	return a.panel, true
}

// Founder returns the open founder and its position in the sequence.
func (a Active) Founder() (content.Founder, int, bool) {
	if a.kind != KindFounder {
		return content.Founder{}, -1, false
	}
	return a.founder, a.index, true
}

// ScrollLock is the page-scroll side effect.
type ScrollLock interface {
	Engage()
	Release()
}

// Coordinator owns the active overlay. It is not safe for concurrent use; the owning
// view serialises calls.
type Coordinator struct {
	founders []content.Founder
	lock     ScrollLock
	active   Active
}

// NewCoordinator builds a coordinator navigating over founders.
func NewCoordinator(founders []content.Founder, lock ScrollLock) *Coordinator {
	if lock == nil {
		lock = nopLock{}
	}
	return &Coordinator{founders: founders, lock: lock}
}

func (c *Coordinator) Active() Active { return c.active }

// Locked reports whether scrolling is locked.
func (c *Coordinator) Locked() bool { return c.active.kind != KindNone }

func (c *Coordinator) OpenPillar(index int, p content.Pillar) {
	c.open(Active{kind: KindPillar, index: index, pillar: p})
}

func (c *Coordinator) OpenVisionMission(p content.Panel) {
	c.open(Active{kind: KindVisionMission, panel: p})
}

// OpenFounder opens the founder at position index.
func (c *Coordinator) OpenFounder(index int) error {
	if index < 0 || index >= len(c.founders) {
		return fmt.Errorf("overlay: founder index %d out of range", index)
	}
	c.open(Active{kind: KindFounder, index: index, founder: c.founders[index]})
	return nil
}

func (c *Coordinator) ClosePillar() bool        { return c.Close(KindPillar) }
func (c *Coordinator) CloseVisionMission() bool { return c.Close(KindVisionMission) }
func (c *Coordinator) CloseFounder() bool       { return c.Close(KindFounder) }

// Close clears the overlay when it is of kind. A close for any other kind is ignored.
func (c *Coordinator) Close(kind Kind) bool {
	if kind == KindNone || c.active.kind != kind {
		return false
	}
	c.active = Active{}
	c.lock.Release()
	return true
}

// NextFounder moves the founder panel forward, wrapping at the end.
func (c *Coordinator) NextFounder() (content.Founder, bool) {
	return c.stepFounder(1)
}

// PrevFounder moves the founder panel back, wrapping at the start.
func (c *Coordinator) PrevFounder() (content.Founder, bool) {
	return c.stepFounder(-1)
}

func (c *Coordinator) stepFounder(delta int) (content.Founder, bool) {
	n := len(c.founders)
	if c.active.kind != KindFounder || n == 0 {
		return content.Founder{}, false
	}
	i := ((c.active.index+delta)%n + n) % n
	c.active.index = i
	c.active.founder = c.founders[i]
	return c.active.founder, true
}

func (c *Coordinator) open(next Active) {
	wasLocked := c.Locked()
	c.active = next
	if !wasLocked {
		c.lock.Engage()
	}
}

type nopLock struct{}

func (nopLock) Engage()  {}
func (nopLock) Release() {}
