// Package toast implements the auto-dismissing status banner shown after form submits.
package toast

import (
	"sync"
	"time"

	"github.com/chhitz007/nexora-page/internal/clock"
)

// Level is the banner tone.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const (
	SuccessHeadline = "Transmission Complete"
	ErrorHeadline   = "Error Detected"
)

// Message is one banner. Seq identifies it for dismissal.
type Message struct {
	Seq       uint64
	Level     Level
	Headline  string
	Text      string
	DismissAt time.Time
}

// Success builds a success message with the default headline.
func Success(text string) Message {
	return Message{Level: LevelSuccess, Headline: SuccessHeadline, Text: text}
}

// Error builds an error message with the default headline.
func Error(text string) Message {
	return Message{Level: LevelError, Headline: ErrorHeadline, Text: text}
}

// Banner holds at most one message and clears it after a delay.
type Banner struct {
	mu      sync.Mutex
	clock   clock.Clock
	seq     uint64
	current *Message
	timer   clock.Timer
	stopped bool
}

// Option configures a Banner.
type Option func(*Banner)

// WithClock replaces the real clock.
func WithClock(c clock.Clock) Option {
	return func(b *Banner) {
		if c != nil {
			b.clock = c
		}
	}
}

func NewBanner(opts ...Option) *Banner {
	b := &Banner{clock: clock.Real()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Show replaces the current message and schedules its dismissal after d. The previous
// message's timer is cancelled.
func (b *Banner) Show(msg Message, d time.Duration) Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return Message{}
	}
	b.cancelLocked()
	b.seq++
	msg.Seq = b.seq
	msg.DismissAt = b.clock.Now().Add(d)
	b.current = &msg

	seq := msg.Seq
	b.timer = b.clock.AfterFunc(d, func() { b.Dismiss(seq) })
	return msg
}

// Dismiss clears the message with seq. It reports false when a different message (or
// none) is showing.
func (b *Banner) Dismiss(seq uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.Seq != seq {
		return false
	}
	b.cancelLocked()
	b.current = nil
	return true
}

// Current returns the message on display.
func (b *Banner) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Message{}, false
	}
	return *b.current, true
}

// Stop cancels any pending dismissal and rejects further messages.
func (b *Banner) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	b.cancelLocked()
	b.current = nil
}

func (b *Banner) cancelLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
