// Package communication fans simulation events out to dashboard clients
// over websockets, fed by the NATS run subjects.
package communication

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mimetic-labs/resonance/core"
)

// WSManager owns the set of connected dashboard clients and serializes all
// writes through a single run loop.
type WSManager struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan core.Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

var (
	wsManager *WSManager
	once      sync.Once
)

// GetWSManager returns the process-wide manager, starting its run loop on
// first use.
func GetWSManager() *WSManager {
	once.Do(func() {
		wsManager = &WSManager{
			clients:    make(map[*websocket.Conn]bool),
			broadcast:  make(chan core.Event, 64),
			register:   make(chan *websocket.Conn),
			unregister: make(chan *websocket.Conn),
		}
		go wsManager.run()
	})
	return wsManager
}

func (m *WSManager) run() {
	for {
		select {
		case conn := <-m.register:
			m.mu.Lock()
			m.clients[conn] = true
			m.mu.Unlock()

		case conn := <-m.unregister:
			m.drop(conn)

		case event := <-m.broadcast:
			m.mu.Lock()
			var dead []*websocket.Conn
			for conn := range m.clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("WebSocket write failed, dropping client: %v", err)
					dead = append(dead, conn)
				}
			}
			for _, conn := range dead {
				delete(m.clients, conn)
				conn.Close()
			}
			m.mu.Unlock()
		}
	}
}

func (m *WSManager) drop(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clients[conn] {
		delete(m.clients, conn)
		conn.Close()
	}
}

// BroadcastEvent pushes an event to every connected client. Slow or dead
// clients never block a run: when the buffer fills the event is dropped.
func BroadcastEvent(eventType string, payload interface{}) {
	select {
	case GetWSManager().broadcast <- core.Event{Type: eventType, Payload: payload}:
	default:
		log.Printf("WebSocket broadcast buffer full, dropping %s event", eventType)
	}
}

// Register returns the channel a new connection announces itself on.
func (m *WSManager) Register() chan<- *websocket.Conn {
	return m.register
}

// Unregister returns the channel a closing connection announces itself on.
func (m *WSManager) Unregister() chan<- *websocket.Conn {
	return m.unregister
}
