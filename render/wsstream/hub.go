// Package wsstream broadcasts a fountain's frames to websocket clients and
// accepts key commands back from them.
package wsstream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/plus3/fountain/particles"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Frames queued per client before new frames are dropped for it.
	sendBuffer = 4
)

// Hello is the first message a client receives, as JSON text.
type Hello struct {
	Type       string `json:"type"`
	Simulation string `json:"simulation"`
	Count      int    `json:"count"`
	Stride     int    `json:"stride"`
}

// Hub is an http.Handler that upgrades clients to websockets, and a
// particles.Sink that broadcasts every frame to them as a binary message.
//
// Text messages from clients are treated as key presses and queued on the
// driver's commands.
type Hub struct {
	// Stride keeps one particle out of every Stride submitted. Values below
	// 2 send every particle.
	Stride int

	id       uuid.UUID
	count    int
	commands *particles.Commands
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	active   bool // clients were connected at BeginFrame
	uniforms particles.Uniforms
	pending  []particles.Attribute
	seen     int
	buf      []byte
	frames   int
	dropped  int
}

// NewHub creates a hub streaming sim and forwarding controls to commands.
func NewHub(sim *particles.Simulation, commands *particles.Commands, logger *slog.Logger) *Hub {
	return &Hub{
		Stride:   1,
		id:       sim.ID(),
		count:    sim.Store().Len(),
		commands: commands,
		logger:   logger.With("component", "wsstream"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	hello, err := json.Marshal(Hello{
		Type:       "hello",
		Simulation: h.id.String(),
		Count:      h.count,
		Stride:     max(h.Stride, 1),
	})
	if err != nil {
		conn.Close()
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan message, sendBuffer+1)}
	c.send <- message{kind: websocket.TextMessage, data: hello}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected", "remote", r.RemoteAddr, "clients", n)

	go c.writePump()
	go c.readPump()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Frames returns the number of frames broadcast to at least one client.
func (h *Hub) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Dropped returns the number of frames not delivered to slow clients.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Info("client disconnected", "clients", len(h.clients))
	}
	h.mu.Unlock()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// BeginFrame decides whether this frame is streamed at all. A client that
// connects after it receives its first frame on the next BeginFrame, so no
// client ever sees a partial frame.
func (h *Hub) BeginFrame(u particles.Uniforms) error {
	h.active = h.Clients() > 0
	h.uniforms = u
	h.pending = h.pending[:0]
	h.seen = 0
	return nil
}

func (h *Hub) Submit(batch []particles.Attribute) error {
	if !h.active {
		return nil
	}
	stride := max(h.Stride, 1)
	if stride == 1 {
		h.pending = append(h.pending, batch...)
		return nil
	}
	for _, a := range batch {
		if h.seen%stride == 0 {
			h.pending = append(h.pending, a)
		}
		h.seen++
	}
	return nil
}

func (h *Hub) EndFrame() error {
	if !h.active {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return nil
	}

	// Each client gets its own copy: the write pump may still hold the
	// previous frame.
	h.buf = EncodeFrame(h.buf[:0], h.uniforms, h.pending)
	for c := range h.clients {
		data := make([]byte, len(h.buf))
		copy(data, h.buf)
		select {
		case c.send <- message{kind: websocket.BinaryMessage, data: data}:
		default:
			h.dropped++
		}
	}
	h.frames++
	return nil
}

type message struct {
	kind int
	data []byte
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan message
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		kind, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("read failed", "err", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		for _, r := range string(msg) {
			if !c.hub.commands.Key(r) {
				c.hub.logger.Debug("ignoring control", "key", string(r))
			}
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
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
