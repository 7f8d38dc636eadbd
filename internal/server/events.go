package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/trickcheck/internal/app"
)

const (
	writeWait = 5 * time.Second

	// eventBuffer is how many events may wait for the broadcaster before
	// Publish starts dropping them.
	eventBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler broadcasts finished detection sessions via WebSocket.
// Publish only queues; a single broadcaster goroutine does all writes.
type EventsHandler struct {
	logger  *zap.Logger
	clients map[*websocket.Conn]bool
	mu      sync.Mutex

	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once
	dropped   int
}

// NewEventsHandler creates a new EventsHandler and starts its broadcaster.
// Call Close to stop it.
func NewEventsHandler(logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &EventsHandler{
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
		queue:   make(chan []byte, eventBuffer),
		done:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns the number of events discarded because the queue was full.
func (h *EventsHandler) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Publish queues e for every connected client. It never blocks: when the
// broadcaster is behind, the event is dropped.
func (h *EventsHandler) Publish(e app.Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("encode event failed", zap.Error(err))
		return
	}

	select {
	case <-h.done:
	case h.queue <- msg:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		h.logger.Warn("event queue full, dropping event", zap.String("source", e.Source))
	}
}

// Close stops the broadcaster and disconnects every client.
func (h *EventsHandler) Close() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
	})
}

// broadcast writes queued events to a snapshot of the clients, outside the
// lock. Clients that cannot be written to are dropped.
func (h *EventsHandler) broadcast() {
	for {
		var msg []byte
		select {
		case <-h.done:
			return
		case msg = <-h.queue:
		}

		h.mu.Lock()
		conns := make([]*websocket.Conn, 0, len(h.clients))
		for conn := range h.clients {
			conns = append(conns, conn)
		}
		h.mu.Unlock()

		for _, conn := range conns {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("dropping websocket client", zap.Error(err))
				conn.Close()
				h.remove(conn)
			}
		}
	}
}

func (h *EventsHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}
