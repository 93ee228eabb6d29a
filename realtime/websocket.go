package realtime

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI is served from a different origin during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHub fans broker traffic out to websocket clients. It subscribes to
// the same broadcast stream as the SSE endpoint; clients that fall
// behind are dropped rather than allowed to stall the hub.
type WSHub struct {
	broker *Broker

	mu    sync.Mutex
	conns map[*websocket.Conn]chan []byte
}

// NewWSHub creates a websocket hub attached to the broker.
func NewWSHub(broker *Broker) *WSHub {
	return &WSHub{
		broker: broker,
		conns:  make(map[*websocket.Conn]chan []byte),
	}
}

// ServeHTTP upgrades the request and streams broker events until the
// client disconnects.
func (h *WSHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := make(chan []byte, 32)
	h.mu.Lock()
	h.conns[conn] = client
	h.mu.Unlock()
	h.broker.register <- client
	log.Printf("WS client connected. Total: %d", h.count())

	defer func() {
		h.broker.unregister <- client
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
		log.Printf("WS client disconnected. Total: %d", h.count())
	}()

	// Reader goroutine: the client sends nothing we act on, but reads
	// must be drained for close/ping-pong handling to work.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WSHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
