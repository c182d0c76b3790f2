package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/focus-timer/internal/announce"
	"github.com/sweeney/focus-timer/internal/gpio"
	"github.com/sweeney/focus-timer/internal/logic"
	"github.com/sweeney/focus-timer/internal/mqtt"
	"github.com/sweeney/focus-timer/internal/report"
	"github.com/sweeney/focus-timer/internal/status"
)

// rawLevels replays scripted raw button levels, one per Value call.
type rawLevels struct {
	levels []int
	i      int
}

func (r *rawLevels) Value() (int, error) {
	v := r.levels[r.i]
	if r.i < len(r.levels)-1 {
		r.i++
	}
	return v, nil
}

func levels(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func concat(parts ...[]int) []int {
	var out []int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// TestIntegrationFullFlow drives raw button levels through the debouncer,
// the state machine and the fake outputs, as the control loop does.
func TestIntegrationFullFlow(t *testing.T) {
	// 50ms polling:
	//   0.00s released
	//   1.00s pressed (edge at 1.05s after debounce, focus entered at 1.10s
	//         once the start announcement has played)
	//   1.20s released
	//   1.50s single-sample bounce
	//   3.00s pressed again (edge at 3.05s, released 1.8s before)
	//   3.20s released until 5.00s
	raw := concat(
		levels(0, 20),
		levels(1, 4),
		levels(0, 6),
		levels(1, 1),
		levels(0, 29),
		levels(1, 4),
		levels(0, 37),
	)

	button := gpio.NewDebouncedButton(&rawLevels{levels: raw}, 25*time.Millisecond)
	indicator := gpio.NewFakeIndicator()
	buzzer := gpio.NewFakeBuzzer()
	player := announce.NewPlayer(indicator, buzzer, func(time.Duration) {})
	publisher := mqtt.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := status.NewTracker(startTime, status.Config{FocusMs: 10000, BreakMs: 1000})

	machine := logic.NewMachine(logic.Config{
		FocusDuration:  10 * time.Second,
		BreakDuration:  time.Second,
		MaxBreaks:      4,
		ReportInterval: time.Second,
		DebounceGuard:  100 * time.Millisecond,
	})

	pollInterval := 50 * time.Millisecond
	var lines []string

	// Simulate the main loop
	for i := range raw {
		now := startTime.Add(time.Duration(i) * pollInterval)
		if err := button.Read(now); err != nil {
			t.Fatalf("sample %d: gpio read error: %v", i, err)
		}

		cmds := machine.Tick(logic.Input{
			Now:         now,
			Pressed:     button.WasPressed(),
			SinceChange: button.SinceChange(),
		})
		for _, c := range cmds {
			switch c.Type {
			case logic.CommandSetIndicator:
				indicator.Set(c.Front, c.Back)
			case logic.CommandBeep:
				player.Beep()
			case logic.CommandAnnounce:
				player.Play(c.Announcement)
			case logic.CommandLog:
				lines = append(lines, report.Line(c.Report))
			case logic.CommandTransition:
				if err := publisher.Publish(c.Transition); err != nil {
					t.Fatalf("sample %d: publish error: %v", i, err)
				}
				tracker.Record(c.Transition)
			}
		}
	}

	wantEvents := []struct {
		event   logic.TransitionEvent
		at      time.Duration
		elapsed int64
	}{
		{logic.EventFocusStarted, 1100 * time.Millisecond, 0},
		{logic.EventBreakStarted, 3050 * time.Millisecond, 1},
		{logic.EventBreakFinished, 4050 * time.Millisecond, 1},
	}
	if len(publisher.Transitions) != len(wantEvents) {
		t.Fatalf("expected %d transitions, got %d: %+v", len(wantEvents), len(publisher.Transitions), publisher.Transitions)
	}
	for i, want := range wantEvents {
		var p mqtt.Payload
		if err := json.Unmarshal(publisher.Payloads[i], &p); err != nil {
			t.Fatalf("payload %d: %v", i, err)
		}
		if p.Timer.Event != string(want.event) {
			t.Errorf("event %d: got %s, want %s", i, p.Timer.Event, want.event)
		}
		if !publisher.Transitions[i].Timestamp.Equal(startTime.Add(want.at)) {
			t.Errorf("event %d: at %v, want %v", i, publisher.Transitions[i].Timestamp, startTime.Add(want.at))
		}
		if p.Timer.ElapsedSeconds != want.elapsed {
			t.Errorf("event %d: elapsed_seconds %d, want %d", i, p.Timer.ElapsedSeconds, want.elapsed)
		}
	}

	if machine.Phase() != logic.PhaseFocus {
		t.Errorf("final phase: got %s, want FOCUS", machine.Phase())
	}
	snap := tracker.Snapshot()
	if snap.Phase != logic.PhaseFocus || snap.BreaksTaken != 1 {
		t.Errorf("tracker: phase=%s breaks=%d", snap.Phase, snap.BreaksTaken)
	}
	if last := indicator.Last(); last.Front != logic.ColorRed || last.Back != logic.ColorOff {
		t.Errorf("indicator: got %v, want RED/OFF", last)
	}
	// start 1 + break 1 + triple 3
	if buzzer.Ons != 5 || buzzer.Sounding {
		t.Errorf("buzzer: ons=%d sounding=%v", buzzer.Ons, buzzer.Sounding)
	}

	for _, want := range []string{
		"Focus Mode on",
		"Break started",
		"In Focus state: You focused for 1 Seconds, switching to break mode.",
		"You took a break for 1 Seconds",
		"Focus started",
	} {
		found := false
		for _, l := range lines {
			if l == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing log line %q", want)
		}
	}
}

// TestIntegrationReleaseDoesNotStartFocus checks that letting go of a button
// held at power-on is not taken as a press.
func TestIntegrationReleaseDoesNotStartFocus(t *testing.T) {
	raw := concat(levels(1, 10), levels(0, 10))
	button := gpio.NewDebouncedButton(&rawLevels{levels: raw}, 25*time.Millisecond)
	machine := logic.NewMachine(logic.DefaultConfig())
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := range raw {
		now := start.Add(time.Duration(i) * 50 * time.Millisecond)
		button.Read(now)
		machine.Tick(logic.Input{Now: now, Pressed: button.WasPressed(), SinceChange: button.SinceChange()})
	}

	if machine.Phase() != logic.PhaseIdle {
		t.Errorf("phase: got %s, want IDLE", machine.Phase())
	}
}
