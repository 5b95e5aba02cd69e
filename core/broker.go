package core

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Event is a structured notification emitted by the simulator and the
// evolution loop. Consumers (websocket bridge, dashboards) are optional;
// nothing in the simulator depends on anyone listening.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event types published during a run.
const (
	EventPhase            = "phase"
	EventAgentCreated     = "agent_created"
	EventGraphBuilt       = "graph_built"
	EventTickStarted      = "tick_started"
	EventInteraction      = "interaction"
	EventGenerationResult = "generation_result"
	EventEvolution        = "evolution"
	EventRunDone          = "run_done"
	EventRunError         = "run_error"
)

// RunSubject returns the NATS subject events for a run are published on.
func RunSubject(runID string) string {
	return "sim.run." + runID
}

// EventPublisher is the sink boundary the simulator writes events through.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// PublishEvent marshals and publishes an event, logging rather than failing:
// a dead sink must never affect simulation correctness.
func PublishEvent(pub EventPublisher, subject, eventType string, payload interface{}) {
	if pub == nil {
		return
	}
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("event marshal failed for %s: %v", eventType, err)
		return
	}
	if err := pub.Publish(subject, data); err != nil {
		log.Printf("event publish failed for %s: %v", eventType, err)
	}
}

// NoopPublisher discards all events.
type NoopPublisher struct{}

// Publish implements EventPublisher.
func (NoopPublisher) Publish(string, []byte) error { return nil }

// NATSBroker encapsulates a NATS connection.
type NATSBroker struct {
	Conn *nats.Conn
}

// NewNATSBroker creates a new NATSBroker connected to the provided URL.
func NewNATSBroker(url string) (*NATSBroker, error) {
	nc, err := nats.Connect(url,
		nats.Timeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSBroker{Conn: nc}, nil
}

// Publish sends data on the provided subject.
func (b *NATSBroker) Publish(subject string, data []byte) error {
	return b.Conn.Publish(subject, data)
}

// Subscribe registers a callback for a specific subject.
func (b *NATSBroker) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	return b.Conn.Subscribe(subject, cb)
}

// Close gracefully closes the connection.
func (b *NATSBroker) Close() {
	b.Conn.Close()
}

// Global instance of the NATS broker.
var NatsBrokerInstance *NATSBroker

// SetupNATS initializes the global NATS broker. Call this function at startup.
func SetupNATS(url string) {
	broker, err := NewNATSBroker(url)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	NatsBrokerInstance = broker
	log.Printf("Connected to NATS at %s", url)
}

// CloseNATS shuts the global broker down.
func CloseNATS() {
	if NatsBrokerInstance != nil {
		NatsBrokerInstance.Close()
		NatsBrokerInstance = nil
	}
}
