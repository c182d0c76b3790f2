package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/focus-timer/internal/logic"
)

// BufferSize is the number of messages held while the broker is unreachable.
const BufferSize = 100

// ClientID identifies the device to the broker.
const ClientID = "focus-timer"

// RealPublisher publishes to an actual MQTT broker.
// Messages published while disconnected are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	isOpen func() bool

	mu            sync.Mutex
	buffer        *ringBuffer
	connectedOnce bool
}

// NewRealPublisher creates a publisher for the given broker. It does not wait
// for the connection; paho retries in the background.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{buffer: newRingBuffer(BufferSize)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	if will, ok := systemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE", Reason: "LWT"}); ok {
		opts.SetBinaryWill(TopicSystem, will, 1, true)
	}

	p.client = paho.NewClient(opts)
	p.isOpen = p.client.IsConnectionOpen
	p.client.Connect()
	return p
}

// onConnect replays buffered messages. Reconnections are announced on the
// system topic.
func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	first := !p.connectedOnce
	p.connectedOnce = true
	p.mu.Unlock()
	pending := p.takeBuffered()

	if first {
		log.Printf("mqtt: connected")
	} else {
		log.Printf("mqtt: reconnected, replaying %d buffered messages", len(pending))
		if payload, ok := systemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"}); ok {
			c.Publish(TopicSystem, 1, false, payload)
		}
	}

	for _, msg := range pending {
		c.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	}
}

// Publish sends a phase transition to the MQTT broker.
func (p *RealPublisher) Publish(tr logic.Transition) error {
	payload, err := FormatPayload(tr)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 1, not retained
	return p.publish(Topic, 1, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if p.bufferIfOffline(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained}) {
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// bufferIfOffline queues msg if the connection is down. The check and the push
// share the lock that onConnect drains under, so a message is either queued
// before the drain or sent on the open connection.
func (p *RealPublisher) bufferIfOffline(msg bufferedMsg) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isOpen() {
		return false
	}
	p.buffer.push(msg)
	return true
}

// takeBuffered removes and returns every queued message, oldest first.
func (p *RealPublisher) takeBuffered() []bufferedMsg {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.drainAll()
}

// systemPayload formats a fixed system event, logging and reporting false if
// it cannot be encoded.
func systemPayload(event SystemEvent) ([]byte, bool) {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		log.Printf("mqtt: %s payload: %v", event.Event, err)
		return nil, false
	}
	return payload, true
}

// IsConnected reports whether the broker connection is currently open.
func (p *RealPublisher) IsConnected() bool {
	return p.isOpen()
}

// Buffered returns the number of messages waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second quiesce
	return nil
}
