package gpio

import (
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// RawSource reads the undebounced level of a button line (1 = pressed).
type RawSource interface {
	Value() (int, error)
}

// DebouncedButton applies a logic.Debouncer to a raw source.
type DebouncedButton struct {
	src       RawSource
	debouncer *logic.Debouncer
	edge      bool
}

// NewDebouncedButton wraps src with a debouncer using the given settle window.
func NewDebouncedButton(src RawSource, window time.Duration) *DebouncedButton {
	return &DebouncedButton{
		src:       src,
		debouncer: logic.NewDebouncer(window),
	}
}

// Read samples the raw line and advances the debouncer.
// A failed read clears the pending edge.
func (b *DebouncedButton) Read(now time.Time) error {
	b.edge = false
	v, err := b.src.Value()
	if err != nil {
		return err
	}
	b.edge = b.debouncer.Sample(v == 1, now)
	return nil
}

// WasPressed reports whether the last Read completed a press edge.
func (b *DebouncedButton) WasPressed() bool {
	return b.edge
}

// SinceChange returns how long the previous stable state lasted.
func (b *DebouncedButton) SinceChange() time.Duration {
	return b.debouncer.Held()
}

// Pressed returns the debounced level.
func (b *DebouncedButton) Pressed() bool {
	return b.debouncer.Pressed()
}
