package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 16
	pingInterval = 30 * time.Second
	pongWait     = 90 * time.Second
	writeWait    = 10 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans session updates out to every connected WebSocket client.
type Hub struct {
	clients  map[*client]struct{}
	logger   *slog.Logger
	onChange func(n int)
	upgrader websocket.Upgrader
	mu       sync.Mutex
}

// NewHub returns a hub with no clients. onChange, if not nil, is called with
// the number of clients after every connect and disconnect.
func NewHub(logger *slog.Logger, onChange func(n int)) *Hub {
	return &Hub{
		clients:  make(map[*client]struct{}),
		logger:   logger,
		onChange: onChange,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *Hub) changed(n int) {
	if h.onChange != nil {
		h.onChange(n)
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.changed(n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()

	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}

	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.close()
		h.changed(n)
	}
}

// Broadcast sends v as JSON to every client. Clients that cannot keep up are
// disconnected.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encoding push message failed", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	var slow []*client

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow push client", slog.String("remote", c.conn.RemoteAddr().String()))
		h.remove(c)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))

	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.add(c)

	go h.writeLoop(c)
	go h.readLoop(c)
}

type incoming struct {
	Type           string `json:"type"`
	ElapsedMinutes *int   `json:"elapsed_minutes,omitempty"`
}

// readLoop keeps the read deadline alive and answers timer_tick messages
// with an echo to the sender.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg incoming

		if json.Unmarshal(data, &msg) != nil || msg.Type != "timer_tick" {
			continue
		}

		reply, err := json.Marshal(msg)
		if err != nil {
			continue
		}

		func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if _, ok := h.clients[c]; !ok {
				return
			}

			select {
			case c.send <- reply:
			default:
			}
		}()
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}

			err := c.conn.WriteMessage(websocket.TextMessage, data)
			if err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				h.remove(c)
				return
			}
		}
	}
}
