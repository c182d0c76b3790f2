// Package logic contains the pure focus/break timer state machine.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Phase is the device's current operating mode.
type Phase string

const (
	PhaseIdle     Phase = "IDLE"
	PhaseFocus    Phase = "FOCUS"
	PhaseBreak    Phase = "BREAK"
	PhaseFinished Phase = "FINISHED"
)

// Color is the colour of a single indicator LED.
type Color string

const (
	ColorOff   Color = "OFF"
	ColorRed   Color = "RED"
	ColorGreen Color = "GREEN"
)

// CommandType identifies a side effect requested by the machine.
type CommandType string

const (
	CommandSetIndicator CommandType = "SET_INDICATOR"
	CommandBeep         CommandType = "BEEP"
	CommandAnnounce     CommandType = "ANNOUNCE"
	CommandLog          CommandType = "LOG"
	CommandTransition   CommandType = "TRANSITION"
)

// Announcement is a fixed blocking indicator/buzzer sequence.
type Announcement string

const (
	// AnnounceStart is the acknowledgment played when leaving Idle.
	AnnounceStart Announcement = "START"
	// AnnounceTripleBeep is three beeps separated by a fixed gap.
	AnnounceTripleBeep Announcement = "TRIPLE_BEEP"
)

// ReportKind identifies a log line produced by the machine.
type ReportKind string

const (
	ReportFocusOn        ReportKind = "FOCUS_ON"
	ReportProgress       ReportKind = "PROGRESS"
	ReportFocusCompleted ReportKind = "FOCUS_COMPLETED"
	ReportBreakStarted   ReportKind = "BREAK_STARTED"
	ReportFocusSummary   ReportKind = "FOCUS_SUMMARY"
	ReportBreakFinished  ReportKind = "BREAK_FINISHED"
	ReportBreakSummary   ReportKind = "BREAK_SUMMARY"
	ReportFocusStarted   ReportKind = "FOCUS_STARTED"
	ReportSession        ReportKind = "SESSION_SUMMARY"
	ReportBreakCount     ReportKind = "BREAK_COUNT"
	ReportDone           ReportKind = "DONE"
)

// Report carries the typed fields of a log line. Formatting happens in
// package report.
type Report struct {
	Kind        ReportKind
	Phase       Phase
	Elapsed     time.Duration
	BreaksTaken int
}

// TransitionEvent names a phase change for external consumers.
type TransitionEvent string

const (
	EventFocusStarted   TransitionEvent = "FOCUS_STARTED"
	EventBreakStarted   TransitionEvent = "BREAK_STARTED"
	EventBreakFinished  TransitionEvent = "BREAK_FINISHED"
	EventFocusCompleted TransitionEvent = "FOCUS_COMPLETED"
	EventSessionEnded   TransitionEvent = "SESSION_ENDED"
)

// Transition represents a phase change to be published.
type Transition struct {
	Timestamp   time.Time
	Event       TransitionEvent
	From        Phase
	To          Phase
	BreaksTaken int
	// Elapsed is the time spent in the phase being left (zero for Idle and Finished).
	Elapsed time.Duration
}

// Command is a single side effect returned by Tick. Only the fields relevant
// to Type are set.
type Command struct {
	Type         CommandType
	Front        Color
	Back         Color
	Announcement Announcement
	Report       Report
	Transition   Transition
}

// Input represents a single sample of clock and button state.
type Input struct {
	Now time.Time
	// Pressed is true if a press edge was seen since the previous sample.
	Pressed bool
	// SinceChange is how long the button held its previous state before the
	// latest transition.
	SinceChange time.Duration
}

// Config holds the fixed timer durations.
type Config struct {
	FocusDuration  time.Duration
	BreakDuration  time.Duration
	MaxBreaks      int // reserved, not enforced
	ReportInterval time.Duration
	DebounceGuard  time.Duration
}

// DefaultConfig returns the production durations.
func DefaultConfig() Config {
	return Config{
		FocusDuration:  25 * time.Minute,
		BreakDuration:  5 * time.Minute,
		MaxBreaks:      4,
		ReportInterval: time.Second,
		DebounceGuard:  100 * time.Millisecond,
	}
}

// BenchConfig returns short durations for trying the device out on a bench.
func BenchConfig() Config {
	cfg := DefaultConfig()
	cfg.FocusDuration = 5 * time.Second
	cfg.BreakDuration = time.Second
	return cfg
}
