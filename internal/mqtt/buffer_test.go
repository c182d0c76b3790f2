package mqtt

import (
	"testing"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// seq pushes payloads first..last (inclusive) onto rb.
func seq(rb *ringBuffer, first, last int) {
	for i := first; i <= last; i++ {
		rb.push(bufferedMsg{topic: Topic, payload: []byte{byte(i)}})
	}
}

func payloadBytes(msgs []bufferedMsg) []byte {
	out := make([]byte, len(msgs))
	for i, m := range msgs {
		out[i] = m.payload[0]
	}
	return out
}

func TestRingBufferDrainOrder(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		pushed int
		want   []byte
	}{
		{"empty", 4, 0, nil},
		{"partial", 4, 3, []byte{0, 1, 2}},
		{"full", 4, 4, []byte{0, 1, 2, 3}},
		{"overflow by one", 4, 5, []byte{1, 2, 3, 4}},
		{"wrapped twice", 3, 8, []byte{5, 6, 7}},
		{"single slot", 1, 3, []byte{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := newRingBuffer(tt.size)
			seq(rb, 0, tt.pushed-1)

			if rb.len() != len(tt.want) {
				t.Errorf("len: got %d, want %d", rb.len(), len(tt.want))
			}
			got := rb.drainAll()
			if tt.want == nil {
				if got != nil {
					t.Errorf("expected nil drain, got %d items", len(got))
				}
				return
			}
			if string(payloadBytes(got)) != string(tt.want) {
				t.Errorf("drained %v, want %v", payloadBytes(got), tt.want)
			}
			if rb.len() != 0 {
				t.Errorf("len after drain: got %d", rb.len())
			}
		})
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	rb := newRingBuffer(3)

	// An outage that overflows, a reconnect, then a short second outage.
	seq(rb, 0, 4)
	rb.drainAll()
	seq(rb, 10, 11)

	got := payloadBytes(rb.drainAll())
	if string(got) != string([]byte{10, 11}) {
		t.Errorf("second outage drained %v, want [10 11]", got)
	}
}

func TestRingBufferOverflowFlag(t *testing.T) {
	rb := newRingBuffer(2)

	seq(rb, 0, 1)
	if rb.overflow {
		t.Error("overflow set before anything was dropped")
	}
	seq(rb, 2, 3)
	if !rb.overflow {
		t.Error("expected overflow after dropping messages")
	}
	rb.drainAll()
	if rb.overflow {
		t.Error("drain should reset the overflow flag")
	}
}

func TestRingBufferKeepsTransitionPayload(t *testing.T) {
	tr := logic.Transition{
		Timestamp:   time.Date(2026, 1, 1, 9, 25, 0, 0, time.UTC),
		Event:       logic.EventFocusCompleted,
		From:        logic.PhaseFocus,
		To:          logic.PhaseFinished,
		BreaksTaken: 2,
		Elapsed:     25 * time.Minute,
	}
	payload, err := FormatPayload(tr)
	if err != nil {
		t.Fatal(err)
	}

	rb := newRingBuffer(BufferSize)
	rb.push(bufferedMsg{topic: Topic, payload: payload, qos: 1})
	rb.push(bufferedMsg{topic: TopicSystem, payload: []byte(`{}`), qos: 1, retained: true})

	got := rb.drainAll()
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].topic != Topic || got[0].qos != 1 || got[0].retained {
		t.Errorf("transition message: got %+v", got[0])
	}
	if string(got[0].payload) != string(payload) {
		t.Errorf("payload changed while buffered: %s", got[0].payload)
	}
	if got[1].topic != TopicSystem || !got[1].retained {
		t.Errorf("system message: got %+v", got[1])
	}
}
