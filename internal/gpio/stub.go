//go:build !linux

package gpio

import (
	"errors"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealDevice is not available on non-Linux platforms.
type RealDevice struct{}

// NewRealDevice returns an error on non-Linux platforms.
func NewRealDevice(chipName string, pins Pins, debounce time.Duration) (*RealDevice, error) {
	return nil, errUnsupported
}

// Raw is not implemented on non-Linux platforms.
func (d *RealDevice) Raw() (bool, error) { return false, errUnsupported }

// Read is not implemented on non-Linux platforms.
func (d *RealDevice) Read(now time.Time) error { return errUnsupported }

// WasPressed always reports false.
func (d *RealDevice) WasPressed() bool { return false }

// SinceChange always reports zero.
func (d *RealDevice) SinceChange() time.Duration { return 0 }

// Set is not implemented on non-Linux platforms.
func (d *RealDevice) Set(front, back logic.Color) error { return errUnsupported }

// Clear is not implemented on non-Linux platforms.
func (d *RealDevice) Clear() error { return errUnsupported }

// On is not implemented on non-Linux platforms.
func (d *RealDevice) On() error { return errUnsupported }

// Off is not implemented on non-Linux platforms.
func (d *RealDevice) Off() error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (d *RealDevice) Close() error { return nil }
