package gpio

import (
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// ButtonSample is a single scripted button reading.
type ButtonSample struct {
	Pressed     bool          // press edge on this read
	SinceChange time.Duration // hold guard reported with the edge
}

// FakeButton is a test double that returns scripted button samples.
type FakeButton struct {
	// Samples contains scripted readings. Each call to Read() consumes the
	// next sample; once exhausted, reads report no edge.
	Samples []ButtonSample

	// index tracks current position in Samples
	index int

	current ButtonSample

	// Reads counts calls to Read.
	Reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeButton creates a FakeButton with the given samples.
func NewFakeButton(samples []ButtonSample) *FakeButton {
	return &FakeButton{Samples: samples}
}

// Read consumes the next scripted sample.
func (f *FakeButton) Read(now time.Time) error {
	f.Reads++
	if f.ReadError != nil {
		f.current = ButtonSample{}
		return f.ReadError
	}
	if f.index >= len(f.Samples) {
		f.current = ButtonSample{SinceChange: f.current.SinceChange}
		return nil
	}
	f.current = f.Samples[f.index]
	f.index++
	return nil
}

// WasPressed returns the edge of the current sample.
func (f *FakeButton) WasPressed() bool {
	return f.current.Pressed
}

// SinceChange returns the hold guard of the current sample.
func (f *FakeButton) SinceChange() time.Duration {
	return f.current.SinceChange
}

// Close marks the button as closed.
func (f *FakeButton) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the button to the beginning of samples.
func (f *FakeButton) Reset() {
	f.index = 0
	f.current = ButtonSample{}
	f.Reads = 0
	f.Closed = false
}

// IndicatorState is one recorded Set call.
type IndicatorState struct {
	Front logic.Color
	Back  logic.Color
}

// FakeIndicator records indicator output for test assertions.
type FakeIndicator struct {
	// States contains every colour pair shown, in order. Clear records OFF/OFF.
	States []IndicatorState

	// SetError, if set, will be returned by Set and Clear.
	SetError error

	Closed bool
}

// NewFakeIndicator creates a FakeIndicator for testing.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// Set records the colour pair.
func (f *FakeIndicator) Set(front, back logic.Color) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.States = append(f.States, IndicatorState{Front: front, Back: back})
	return nil
}

// Clear records both LEDs off.
func (f *FakeIndicator) Clear() error {
	return f.Set(logic.ColorOff, logic.ColorOff)
}

// Close marks the indicator as closed.
func (f *FakeIndicator) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent state, or OFF/OFF if nothing was shown.
func (f *FakeIndicator) Last() IndicatorState {
	if len(f.States) == 0 {
		return IndicatorState{Front: logic.ColorOff, Back: logic.ColorOff}
	}
	return f.States[len(f.States)-1]
}

// FakeBuzzer records buzzer output for test assertions.
type FakeBuzzer struct {
	// Ons counts calls to On.
	Ons int
	// Offs counts calls to Off.
	Offs int
	// Sounding is true between On and Off.
	Sounding bool

	// Error, if set, will be returned by On and Off.
	Error error

	Closed bool
}

// NewFakeBuzzer creates a FakeBuzzer for testing.
func NewFakeBuzzer() *FakeBuzzer {
	return &FakeBuzzer{}
}

// On records the buzzer starting.
func (f *FakeBuzzer) On() error {
	if f.Error != nil {
		return f.Error
	}
	f.Ons++
	f.Sounding = true
	return nil
}

// Off records the buzzer stopping.
func (f *FakeBuzzer) Off() error {
	if f.Error != nil {
		return f.Error
	}
	f.Offs++
	f.Sounding = false
	return nil
}

// Close marks the buzzer as closed.
func (f *FakeBuzzer) Close() error {
	f.Closed = true
	return nil
}
