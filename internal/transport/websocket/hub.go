package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
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

	// Outgoing messages buffered per client before it is dropped.
	sendBuffer = 64
)

// ErrClosed is returned by Broadcast after the hub stopped.
var ErrClosed = errors.New("websocket: hub closed")

// Event names sent to clients.
const (
	EventWelcome  = "welcome"
	EventSnapshot = "snapshot"
)

// Message is an outgoing frame.
type Message struct {
	Event    string `json:"event"`
	ClientID string `json:"client_id,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// Command is an incoming frame.
type Command struct {
	Heading string `json:"heading"`
}

// Client is one websocket connection.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ID returns the client identifier.
func (c *Client) ID() string {
	return c.id
}

// Hub maintains the set of active clients and broadcasts snapshots to them.
// Its state is owned by the Run goroutine.
type Hub struct {
	steer    registry.Steerer
	logger   *log.Logger
	upgrader websocket.Upgrader

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	count atomic.Int32
}

// NewHub creates a hub. Heading commands from clients go to steer; a nil
// steer makes the hub spectate-only.
func NewHub(steer registry.Steerer, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		steer:  steer,
		logger: logger.WithPrefix("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectators connect from anywhere.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns when ctx is done, after
// closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.removeClient(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			h.logger.Info("client connected", "client", client.id, "clients", len(h.clients))

		case client := <-h.unregister:
			if h.clients[client] {
				h.removeClient(client)
				h.logger.Info("client disconnected", "client", client.id, "clients", len(h.clients))
			}

		case data := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Client's send buffer is full, drop it
					h.logger.Warn("dropping slow client", "client", client.id)
					h.removeClient(client)
				}
			}
		}
	}
}

func (h *Hub) removeClient(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Broadcast encodes v as a snapshot event and sends it to every client.
// It blocks until the hub has taken the message or stopped.
func (h *Hub) Broadcast(v any) error {
	data, err := json.Marshal(Message{Event: EventSnapshot, Data: v})
	if err != nil {
		return fmt.Errorf("websocket: encode snapshot: %w", err)
	}

	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrClosed
	}
}

// ServeHTTP upgrades the request and attaches a new client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	welcome, err := json.Marshal(Message{Event: EventWelcome, ClientID: client.id})
	if err == nil {
		client.send <- welcome
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// handleCommand applies one incoming frame.
func (h *Hub) handleCommand(c *Client, raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		h.logger.Debug("bad message", "client", c.id, "err", err)
		return
	}

	d, err := core.ParseDirection(cmd.Heading)
	if err != nil {
		h.logger.Debug("bad heading", "client", c.id, "heading", cmd.Heading)
		return
	}
	if h.steer != nil {
		h.steer.Steer(d)
	}
}

// readPump pumps commands from the connection to the game.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("read error", "client", c.id, "err", err)
			}
			return
		}
		c.hub.handleCommand(c, raw)
	}
}

// writePump pumps messages from the hub to the connection. Each message
// goes out as its own frame.
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
				// The hub closed the channel
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
