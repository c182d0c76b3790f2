// Package mqtt publishes timer phase changes and lifecycle events, with an
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
	"github.com/sweeney/focus-timer/internal/report"
)

// Topic is the MQTT topic for phase transition events.
const Topic = "focus/timer/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "focus/timer/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a phase transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(tr logic.Transition) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Timer TimerPayload `json:"timer"`
}

// TimerPayload contains the transition details.
type TimerPayload struct {
	Timestamp      string `json:"timestamp"`
	Event          string `json:"event"`
	From           string `json:"from"`
	To             string `json:"to"`
	BreaksTaken    int    `json:"breaks_taken"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}

// FormatPayload creates the JSON payload for a phase transition.
func FormatPayload(tr logic.Transition) ([]byte, error) {
	payload := Payload{
		Timer: TimerPayload{
			Timestamp:      tr.Timestamp.UTC().Format(time.RFC3339),
			Event:          string(tr.Event),
			From:           string(tr.From),
			To:             string(tr.To),
			BreaksTaken:    tr.BreaksTaken,
			ElapsedSeconds: report.Seconds(tr.Elapsed),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots) and must be valid JSON.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		if !json.Valid(event.RawPayload) {
			return nil, fmt.Errorf("%s: raw payload is not valid JSON", event.Event)
		}
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
