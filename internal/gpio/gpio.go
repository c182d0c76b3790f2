// Package gpio provides button, indicator LED and buzzer access with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

import (
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// Button is a debounced push button.
type Button interface {
	// Read samples the button. It must be called once per control loop tick.
	Read(now time.Time) error

	// WasPressed reports whether the last Read completed a press edge.
	WasPressed() bool

	// SinceChange returns how long the button held its previous state before
	// the latest transition.
	SinceChange() time.Duration

	// Close releases GPIO resources.
	Close() error
}

// Indicator drives the front and back LEDs.
type Indicator interface {
	// Set shows the given colours. The change is visible when Set returns.
	Set(front, back logic.Color) error

	// Clear turns both LEDs off.
	Clear() error

	// Close releases GPIO resources.
	Close() error
}

// Buzzer drives a simple on/off buzzer.
type Buzzer interface {
	On() error
	Off() error
	Close() error
}

// RGB holds the BCM pin numbers of one common-cathode RGB LED.
type RGB struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// Pins holds the BCM pin numbers used by the device.
type Pins struct {
	Button int `yaml:"button"`
	Buzzer int `yaml:"buzzer"`
	Front  RGB `yaml:"front"`
	Back   RGB `yaml:"back"`
}

// Pin definitions (BCM numbering)
const (
	DefaultPinButton = 17
	DefaultPinBuzzer = 27
)

// DefaultPins returns the wiring of the reference board.
func DefaultPins() Pins {
	return Pins{
		Button: DefaultPinButton,
		Buzzer: DefaultPinBuzzer,
		Front:  RGB{R: 5, G: 6, B: 13},
		Back:   RGB{R: 19, G: 26, B: 21},
	}
}

// offsets returns the six LED line offsets, front first.
func (p Pins) offsets() []int {
	return []int{p.Front.R, p.Front.G, p.Front.B, p.Back.R, p.Back.G, p.Back.B}
}

// colorBits returns the (r, g, b) line levels for a colour.
func colorBits(c logic.Color) [3]int {
	switch c {
	case logic.ColorRed:
		return [3]int{1, 0, 0}
	case logic.ColorGreen:
		return [3]int{0, 1, 0}
	}
	return [3]int{0, 0, 0}
}

// ledValues returns the six line levels for a front/back colour pair.
func ledValues(front, back logic.Color) []int {
	f := colorBits(front)
	b := colorBits(back)
	return []int{f[0], f[1], f[2], b[0], b[1], b[2]}
}
