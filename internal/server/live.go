package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"Vaultium/internal/metrics"
	"Vaultium/internal/model"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 16
)

// RatesFrame is pushed to live clients after every drift tick.
type RatesFrame struct {
	Type  string                `json:"type"`
	Rates map[string]model.Rate `json:"rates"`
	USD   float64               `json:"usd"`
}

// NoticeFrame is pushed when a notice is raised, e.g. a confirmed tracker.
type NoticeFrame struct {
	Type   string       `json:"type"`
	Notice model.Notice `json:"notice"`
}

// Hub fans JSON frames out to connected websocket clients. Slow clients are
// dropped rather than blocking the simulation.
type Hub struct {
	Upgrader websocket.Upgrader
	Metrics  *metrics.Metrics

	mu      sync.Mutex
	clients map[*liveClient]struct{}
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub creates an empty Hub.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		Upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		Metrics:  m,
		clients:  make(map[*liveClient]struct{}),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast marshals v and queues it for every client.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[ERROR] marshal live frame: %v", err)
		return
	}
	h.mu.Lock()
	var slow []*liveClient
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		log.Printf("[WARN] dropping slow live client %s", c.conn.RemoteAddr())
		h.remove(c)
	}
}

// ServeWS upgrades the request and registers the client. first, if non-nil,
// is sent before any broadcast.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, first any) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}
	c := &liveClient{conn: conn, send: make(chan []byte, sendBuffer)}
	if first != nil {
		if data, err := json.Marshal(first); err == nil {
			c.send <- data
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	if h.Metrics != nil {
		h.Metrics.LiveClients.Set(float64(n))
	}

	go h.writePump(c)
	go h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*liveClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) remove(c *liveClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if !ok {
		return
	}
	c.once.Do(func() { close(c.send) })
	if h.Metrics != nil {
		h.Metrics.LiveClients.Set(float64(n))
	}
}

// readPump discards client messages and unregisters on disconnect.
func (h *Hub) readPump(c *liveClient) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *liveClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
