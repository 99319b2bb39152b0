package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wricardo/asteroids-relay/transport/protocol"
)

// HubConfig tunes the per-connection pumps.
type HubConfig struct {
	// Time allowed to write a message to the peer.
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer. Zero
	// disables pings and read deadlines; connections then only go away
	// when the transport reports it.
	PongWait time.Duration

	// Maximum message size allowed from peer.
	MaxMessageSize int64

	// Outbound messages buffered per connection before it is dropped.
	SendBuffer int
}

// DefaultHubConfig returns the standard transport settings.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 4096,
		SendBuffer:     256,
	}
}

// pingPeriod must be less than PongWait.
func (c HubConfig) pingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The relay serves browser clients from any origin.
		return true
	},
}

// Handler receives connection events. Every call is made from the hub's
// event loop, one at a time.
type Handler interface {
	Connect(ctx context.Context, connID string)
	HandleFrame(ctx context.Context, connID string, frame *protocol.Frame)
	Disconnect(ctx context.Context, connID string)
}

// Client represents a WebSocket client
type Client struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	codec protocol.Codec
	send  chan []byte
	kick  sync.Once
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

type inboundMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and feeds their messages to the
// handler in arrival order.
type Hub struct {
	config  HubConfig
	handler Handler
	logger  *log.Logger

	// Registered clients by connection ID
	clients map[string]*Client
	mu      sync.RWMutex

	// Inbound messages from clients
	inbound chan inboundMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new WebSocket hub
func NewHub(config HubConfig, logger *log.Logger) *Hub {
	def := DefaultHubConfig()
	if config.WriteWait <= 0 {
		config.WriteWait = def.WriteWait
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = def.MaxMessageSize
	}
	if config.SendBuffer <= 0 {
		config.SendBuffer = def.SendBuffer
	}
	if config.PongWait < 0 {
		config.PongWait = 0
	}
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		config:     config,
		logger:     logger.WithPrefix("ws"),
		clients:    make(map[string]*Client),
		inbound:    make(chan inboundMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetHandler installs the event handler. Call it before Run.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// Run starts the hub's event loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.inbound:
			h.handleMessage(msg)

		case <-h.ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Stop ends the event loop and closes every connection.
func (h *Hub) Stop() {
	h.cancel()
}

// ConnectionCount returns the number of registered clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS handles WebSocket requests from clients. The codec query
// parameter picks json (default) or msgpack framing.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	codec, err := protocol.CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "err", err)
		return
	}

	client := &Client{
		id:    uuid.NewString(),
		hub:   h,
		conn:  conn,
		codec: codec,
		send:  make(chan []byte, h.config.SendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// Send encodes env with the connection's codec and queues it. It never
// blocks: a connection whose buffer is full is dropped.
func (h *Hub) Send(connID string, env protocol.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}

	data, err := client.codec.Encode(env)
	if err != nil {
		h.logger.Error("failed to encode message", "event", env.Event, "err", err)
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn("send buffer full, dropping connection", "conn", connID)
		client.close()
	}
}

// registerClient adds a client and announces it to the handler
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client registered", "conn", client.id, "codec", client.codec.Name(), "clients", total)
	if h.handler != nil {
		h.handler.Connect(h.ctx, client.id)
	}
}

// unregisterClient removes a client. Repeated calls are harmless.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.id]
	if !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	close(client.send)
	remaining := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client unregistered", "conn", client.id, "clients", remaining)
	if h.handler != nil {
		h.handler.Disconnect(h.ctx, client.id)
	}
}

func (h *Hub) handleMessage(msg inboundMessage) {
	frame, err := msg.client.codec.Decode(msg.data)
	if err != nil {
		h.logger.Debug("dropping undecodable message", "conn", msg.client.id, "err", err)
		return
	}
	if h.handler != nil {
		h.handler.HandleFrame(h.ctx, msg.client.id, frame)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		close(client.send)
		if h.handler != nil {
			h.handler.Disconnect(context.Background(), client.id)
		}
	}
}

// close shuts the socket so the read pump unregisters the client.
func (c *Client) close() {
	c.kick.Do(func() {
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	cfg := c.hub.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	if cfg.PongWait > 0 {
		c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		c.conn.SetPongHandler(func(string) error {
			c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
			return nil
		})
	} else {
		// Clear any deadline left over from the HTTP server
		c.conn.SetReadDeadline(time.Time{})
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("read failed", "conn", c.id, "err", err)
			}
			return
		}

		select {
		case c.hub.inbound <- inboundMessage{client: c, data: data}:
		case <-c.hub.ctx.Done():
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection. Each
// message is its own frame so binary codecs stay delimited.
func (c *Client) writePump() {
	cfg := c.hub.config

	var ping <-chan time.Time
	if cfg.PongWait > 0 {
		ticker := time.NewTicker(cfg.pingPeriod())
		defer ticker.Stop()
		ping = ticker.C
	}
	defer c.conn.Close()

	messageType := websocket.TextMessage
	if c.codec.Binary() {
		messageType = websocket.BinaryMessage
	}

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(messageType, message); err != nil {
				return
			}

		case <-ping:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
