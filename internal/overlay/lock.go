package overlay

// Transition is a change of scroll-lock state.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionEngaged
	TransitionReleased
)

// LockRecorder is a ScrollLock that remembers the latest transition so a response can
// tell the browser to lock or unlock the document.
type LockRecorder struct {
	locked  bool
	pending Transition
}

func (r *LockRecorder) Engage() {
	r.locked = true
	r.pending = TransitionEngaged
}

func (r *LockRecorder) Release() {
	r.locked = false
	r.pending = TransitionReleased
}

func (r *LockRecorder) Locked() bool { return r.locked }

// Drain returns the pending transition and clears it.
func (r *LockRecorder) Drain() Transition {
	t := r.pending
	r.pending = TransitionNone
	return t
}
