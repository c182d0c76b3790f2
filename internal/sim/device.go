// Package sim runs the timer against a simulated button, LEDs and buzzer
// in the terminal.
package sim

import (
	"errors"
	"sync"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// ErrClosed is returned by a Device after Close.
var ErrClosed = errors.New("sim: device closed")

// State is a point-in-time view of the simulated outputs.
type State struct {
	Front   logic.Color
	Back    logic.Color
	Buzzing bool
	Beeps   int
}

// Device implements gpio.Button, gpio.Indicator and gpio.Buzzer in memory.
// Press is called from the UI goroutine, everything else from the control loop.
type Device struct {
	mu          sync.Mutex
	queued      bool
	pressed     bool
	lastChange  time.Time
	sinceChange time.Duration
	state       State
	closed      bool
	onChange    func()
}

// NewDevice creates a device with both LEDs off.
func NewDevice() *Device {
	return &Device{state: State{Front: logic.ColorOff, Back: logic.ColorOff}}
}

// OnChange registers fn to be called after any output changes.
func (d *Device) OnChange(fn func()) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Press queues a button press for the next Read.
func (d *Device) Press() {
	d.mu.Lock()
	d.queued = true
	d.mu.Unlock()
}

// Read consumes a queued press. A press counts as a full press-release
// cycle, so SinceChange is the time since the previous press.
func (d *Device) Read(now time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.lastChange.IsZero() {
		d.lastChange = now
	}
	d.pressed = d.queued
	d.queued = false
	if d.pressed {
		d.sinceChange = now.Sub(d.lastChange)
		d.lastChange = now
	}
	return nil
}

// WasPressed reports whether the last Read consumed a press.
func (d *Device) WasPressed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pressed
}

// SinceChange returns the gap before the latest press.
func (d *Device) SinceChange() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sinceChange
}

// Set shows the given LED colours.
func (d *Device) Set(front, back logic.Color) error {
	return d.update(func(s *State) {
		s.Front = front
		s.Back = back
	})
}

// Clear turns both LEDs off.
func (d *Device) Clear() error {
	return d.Set(logic.ColorOff, logic.ColorOff)
}

// On starts the buzzer.
func (d *Device) On() error {
	return d.update(func(s *State) {
		if !s.Buzzing {
			s.Beeps++
		}
		s.Buzzing = true
	})
}

// Off stops the buzzer.
func (d *Device) Off() error {
	return d.update(func(s *State) { s.Buzzing = false })
}

// Close marks the device closed. It is safe to call more than once, since
// the same Device is closed as button, indicator and buzzer.
func (d *Device) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// State returns the current outputs.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Device) update(fn func(*State)) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	fn(&d.state)
	notify := d.onChange
	d.mu.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}
