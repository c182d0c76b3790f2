package logic

import "time"

// DefaultDebounce is the settle time applied to raw button samples.
const DefaultDebounce = 25 * time.Millisecond

// Debouncer turns raw button samples into a stable pressed/released state.
// A raw level must persist for the debounce window before it becomes stable.
type Debouncer struct {
	window       time.Duration
	stable       bool
	pending      bool
	hasPending   bool
	pendingSince time.Time
	lastChange   time.Time
	held         time.Duration
	baselined    bool
}

// NewDebouncer creates a debouncer with the given settle window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Sample feeds one raw reading and reports whether it completed a press edge
// (released -> pressed).
func (d *Debouncer) Sample(pressed bool, now time.Time) bool {
	// The first reading is taken as the starting level.
	if !d.baselined {
		d.stable = pressed
		d.lastChange = now
		d.baselined = true
		return false
	}

	if pressed == d.stable {
		// Bounce back to the stable level, clear any pending change
		d.hasPending = false
		return false
	}

	if !d.hasPending || d.pending != pressed {
		d.pending = pressed
		d.pendingSince = now
		d.hasPending = true
	}

	if now.Sub(d.pendingSince) < d.window {
		return false
	}

	d.held = d.pendingSince.Sub(d.lastChange)
	d.stable = pressed
	d.lastChange = d.pendingSince
	d.hasPending = false
	return pressed
}

// Pressed returns the stable state.
func (d *Debouncer) Pressed() bool {
	return d.stable
}

// Held returns how long the previous stable state lasted before the most
// recent transition.
func (d *Debouncer) Held() time.Duration {
	return d.held
}

// LastChange returns when the stable state last changed.
func (d *Debouncer) LastChange() time.Time {
	return d.lastChange
}
