package communication

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"github.com/mimetic-labs/resonance/core"
)

// Bridge subscribes to a run's NATS subject and rebroadcasts every event to
// all connected websocket clients. Events are fire-and-forget; a run
// proceeds identically with zero listeners.
type Bridge struct {
	sub *nats.Subscription
}

// BridgeRun starts forwarding events for the given run. Call Stop when the
// run finishes.
func BridgeRun(broker *core.NATSBroker, runID string) (*Bridge, error) {
	sub, err := broker.Subscribe(core.RunSubject(runID), func(msg *nats.Msg) {
		var event core.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("Dropping malformed event on %s: %v", msg.Subject, err)
			return
		}
		BroadcastEvent(event.Type, event.Payload)
	})
	if err != nil {
		return nil, err
	}
	return &Bridge{sub: sub}, nil
}

// Stop unsubscribes the bridge from its run subject.
func (b *Bridge) Stop() {
	if b.sub != nil {
		b.sub.Unsubscribe()
	}
}
