package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

// broadcastBuffer bounds the events queued for Run. Publish drops events when it is full.
const broadcastBuffer = 256

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws").Logger(),
	}
}

// Publish encodes event as JSON and queues it for every connected client.
// It never blocks the caller, which is usually a request that just committed.
func (h *Hub) Publish(event interface{}) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("encode event")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn().Msg("broadcast queue full, event dropped")
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Serve registers conn and blocks until the client goes away.
func (h *Hub) Serve(conn *websocket.Conn) {
	select {
	case h.Register <- conn:
	case <-h.done:
		return
	}
	defer func() {
		select {
		case h.Unregister <- conn:
		case <-h.done:
		}
	}()

	for {
		// clients only listen; reads detect disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug().Int("clients", h.Count()).Msg("client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Debug().Err(err).Msg("dropping client")
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
