// Package feed streams tracker snapshots to WebSocket clients.
package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"token-tracker/internal/domain"
	"token-tracker/internal/logging"
	"token-tracker/internal/observability"
)

// Source provides snapshots and change notifications.
type Source interface {
	Snapshot() domain.Snapshot
	Subscribe(func(domain.Snapshot)) (unsubscribe func())
}

// Config configures feed behaviour.
type Config struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// WriteTimeout bounds every frame write.
	WriteTimeout time.Duration
	// SendBuffer is the per-client queue length. A client whose queue is
	// full when a snapshot arrives is disconnected.
	SendBuffer int
}

// DefaultConfig returns default feed configuration.
func DefaultConfig() Config {
	return Config{
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
		SendBuffer:   16,
	}
}

// Drop reasons reported to metrics.
const (
	dropSlow   = "slow"
	dropClosed = "closed"
	dropWrite  = "write_error"
)

// Hub fans snapshots out to connected clients.
type Hub struct {
	cfg      Config
	source   Source
	logger   *logrus.Entry
	upgrader websocket.Upgrader

	mu          sync.Mutex
	clients     map[*client]struct{}
	closed      bool
	unsubscribe func()
}

// Options contains configuration for creating a Hub.
type Options struct {
	Source Source
	Config *Config // Default: DefaultConfig()
	Logger *logrus.Entry
}

// NewHub creates a hub subscribed to the source.
func NewHub(opts Options) *Hub {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultConfig().SendBuffer
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	h := &Hub{
		cfg:     cfg,
		source:  opts.Source,
		logger:  logger,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	h.unsubscribe = opts.Source.Subscribe(h.broadcast)

	return h
}

// ServeHTTP upgrades the request and streams snapshots until the client
// disconnects. The current snapshot is sent first.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	// Snapshot before registering: Snapshot must not be called while holding
	// h.mu, since broadcast takes h.mu while the tracker delivers.
	initial, err := json.Marshal(h.source.Snapshot())
	if err != nil {
		h.logger.WithError(err).Error("encode initial snapshot")
		conn.Close()
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
		done: make(chan struct{}),
	}
	c.send <- initial

	if !h.register(c) {
		conn.Close()
		return
	}

	log := h.logger.WithField("client_id", c.id)
	log.WithField("remote", r.RemoteAddr).Info("feed client connected")

	go h.writeLoop(c, log)
	h.readLoop(c)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close unsubscribes from the source and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	h.unsubscribe()
	for _, c := range clients {
		c.close()
		observability.RecordFeedDrop(dropClosed)
	}
	observability.UpdateFeedClients(0)
}

// broadcast encodes the snapshot once and queues it on every client.
func (h *Hub) broadcast(snap domain.Snapshot) {
	msg, err := json.Marshal(snap)
	if err != nil {
		h.logger.WithError(err).Error("encode snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.WithField("client_id", c.id).Warn("feed client too slow, dropping")
			h.removeLocked(c, dropSlow)
		}
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	observability.UpdateFeedClients(len(h.clients))
	return true
}

func (h *Hub) unregister(c *client, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c, reason)
}

func (h *Hub) removeLocked(c *client, reason string) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()

	observability.RecordFeedDrop(reason)
	observability.UpdateFeedClients(len(h.clients))
}

// readLoop discards inbound frames and keeps the read deadline alive via pongs.
func (h *Hub) readLoop(c *client) {
	defer h.unregister(c, dropClosed)

	readTimeout := 2 * h.cfg.PingInterval
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop drains the client's queue and sends pings.
func (h *Hub) writeLoop(c *client, log *logrus.Entry) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.WithError(err).Debug("feed write failed")
				h.unregister(c, dropWrite)
				return
			}
			observability.RecordFeedMessage()
		case <-ticker.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				h.unregister(c, dropWrite)
				return
			}
		}
	}
}

// client is one connected WebSocket peer.
type client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}
