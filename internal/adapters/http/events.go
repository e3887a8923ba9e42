package httpadapter

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Hotate516/kiga-workspace/internal/domain"
	"github.com/Hotate516/kiga-workspace/internal/observability"
)

// EventHub fans note change events out to websocket subscribers on /events.
// It implements domain.EventSink, so the notes service can publish into it
// without knowing about websockets.
type EventHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

var _ domain.EventSink = (*EventHub)(nil)

func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			// Browser clients come from the web front-end origin; the API is
			// already CORS-open, so the handshake is too.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Publish sends the event to every connected client. Clients that fail the
// write are dropped.
func (h *EventHub) Publish(ev domain.NoteEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			observability.Logger().Warn("event delivery failed, dropping client", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *EventHub) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Reads are only consumed to notice the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// ClientCount reports connected subscribers, for health introspection.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
