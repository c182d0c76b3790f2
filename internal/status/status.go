// Package status provides a thread-safe mirror of the timer state for the
// HTTP status page and MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	FocusMs     int64
	BreakMs     int64
	MaxBreaks   int
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Phase          logic.Phase
	PhaseStartedAt time.Time // zero in Idle and Finished
	BreaksTaken    int
	Sessions       int
	LastEvent      logic.TransitionEvent
	StartTime      time.Time
	Now            time.Time
	MQTTConnected  bool
	Config         Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// PhaseElapsed returns the time spent in the current timed phase.
func (s Snapshot) PhaseElapsed() time.Duration {
	if s.PhaseStartedAt.IsZero() {
		return 0
	}
	return s.Now.Sub(s.PhaseStartedAt)
}

// PhaseRemaining returns the time left in the current timed phase.
func (s Snapshot) PhaseRemaining() time.Duration {
	var total time.Duration
	switch s.Phase {
	case logic.PhaseFocus:
		total = time.Duration(s.Config.FocusMs) * time.Millisecond
	case logic.PhaseBreak:
		total = time.Duration(s.Config.BreakMs) * time.Millisecond
	default:
		return 0
	}
	left := total - s.PhaseElapsed()
	if left < 0 {
		return 0
	}
	return left
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker in the Idle phase with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Phase:     logic.PhaseIdle,
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Record applies a phase transition. Called from the control loop.
func (t *Tracker) Record(tr logic.Transition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap.Phase = tr.To
	t.snap.BreaksTaken = tr.BreaksTaken
	t.snap.LastEvent = tr.Event
	switch tr.To {
	case logic.PhaseFocus, logic.PhaseBreak:
		t.snap.PhaseStartedAt = tr.Timestamp
	default:
		t.snap.PhaseStartedAt = time.Time{}
	}
	if tr.Event == logic.EventSessionEnded {
		t.snap.Sessions++
	}
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
