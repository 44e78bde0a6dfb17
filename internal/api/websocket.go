package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/JuniperReader/internal/library"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/server"
	"github.com/FocuswithJustin/JuniperReader/internal/theme"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// Client "next" requests: a burst of 5, refilled at one per second.
	messageBurst = 5
	messageRate  = 1
)

// FeedMessage is pushed to /ws/random clients.
type FeedMessage struct {
	Type      string           `json:"type"` // "passage", "theme", "error"
	Passage   *library.Passage `json:"passage,omitempty"`
	Theme     *theme.State     `json:"theme,omitempty"`
	Message   string           `json:"message,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// Client is one websocket connection.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *server.Bucket
}

type delivery struct {
	client *Client
	data   []byte
}

// Hub tracks feed clients. The client set is owned by Run.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan delivery
	register   chan *Client
	unregister chan *Client
	requests   chan *Client
	done       chan struct{}
	count      atomic.Int64
}

// NewHub creates a hub. Nothing is delivered until Run is called.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		direct:     make(chan delivery, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		requests:   make(chan *Client, 64),
		done:       make(chan struct{}),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Requests delivers clients asking for another passage.
func (h *Hub) Requests() <-chan *Client {
	return h.requests
}

// Run serves registrations and deliveries until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			h.drop(c)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			logging.FeedEvent("client_connected", len(h.clients))

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				logging.FeedEvent("client_disconnected", len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}

		case d := <-h.direct:
			if h.clients[d.client] {
				h.deliver(d.client, d.data)
			}
		}
	}
}

// deliver queues msg for c, dropping clients that cannot keep up.
func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.drop(c)
		logging.FeedEvent("slow_client_dropped", len(h.clients))
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
}

// add registers c, reporting false once the hub has stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// request asks the feed for a passage for c alone. Requests beyond the queue
// are dropped.
func (h *Hub) request(c *Client) {
	select {
	case h.requests <- c:
	default:
	}
}

// Broadcast sends msg to every connected client.
func (h *Hub) Broadcast(msg FeedMessage) {
	data, ok := encode(msg)
	if !ok {
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		logging.Warn("broadcast channel full, dropping message", "type", msg.Type)
	}
}

// Send sends msg to c only.
func (h *Hub) Send(c *Client, msg FeedMessage) {
	data, ok := encode(msg)
	if !ok {
		return
	}
	select {
	case h.direct <- delivery{client: c, data: data}:
	case <-h.done:
	default:
		logging.Warn("direct channel full, dropping message", "type", msg.Type)
	}
}

func encode(msg FeedMessage) ([]byte, bool) {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("failed to marshal feed message", "type", msg.Type, "error", err)
		return nil, false
	}
	return data, true
}

// readPump handles client messages. {"type":"next"} asks for a passage now.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error("websocket unexpected close", "error", err)
			}
			return
		}
		if !c.limiter.Allow() {
			logging.SecurityEvent("message_rate_exceeded", "websocket",
				"client_ip", c.conn.RemoteAddr().String())
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "next" {
			c.hub.Send(c, FeedMessage{Type: "error", Message: `expected {"type":"next"}`})
			continue
		}
		c.hub.request(c)
	}
}

// writePump writes queued messages and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// checkOrigin admits non-browser clients (no Origin header) and, when origins
// are configured, only the listed browser origins.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		if server.OriginAllowed(origin, allowed) {
			return true
		}
		logging.SecurityEvent("websocket_origin_rejected", "websocket",
			"origin", server.SanitizeInput(origin),
			"client_ip", server.ClientIP(r))
		return false
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &Client{
		hub:     s.hub,
		conn:    conn,
		send:    make(chan []byte, 16),
		limiter: server.NewBucket(messageBurst, messageRate),
	}
	if !s.hub.add(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()

	// Greet with a passage rather than making the client wait a full interval.
	s.hub.request(c)
}

// runFeed pushes a random passage to all clients every interval, and to
// single clients on request, until ctx is done.
func (s *Server) runFeed(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FeedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.hub.Clients() == 0 {
				continue
			}
			s.hub.Broadcast(s.randomMessage(ctx))
		case c := <-s.hub.Requests():
			s.hub.Send(c, s.randomMessage(ctx))
		}
	}
}

func (s *Server) randomMessage(ctx context.Context) FeedMessage {
	p, err := s.lib.Random(ctx)
	switch {
	case err != nil:
		return FeedMessage{Type: "error", Message: err.Error()}
	case p.Unavailable:
		return FeedMessage{Type: "error", Message: "verse data is unavailable"}
	}
	return FeedMessage{Type: "passage", Passage: &p}
}
