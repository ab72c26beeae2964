// Package spectate streams arena snapshots to read-only websocket clients.
package spectate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	sendBuffer   = 8
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingPeriod   = 25 * time.Second
)

// Encode serialises a snapshot into one binary websocket frame.
func Encode(snap *simulation.WorldSnapshot) ([]byte, error) {
	b, err := msgpack.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode is the client side of Encode.
func Decode(b []byte) (*simulation.WorldSnapshot, error) {
	var snap simulation.WorldSnapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to every connected spectator. A slow spectator
// misses frames instead of slowing the arena down.
type Hub struct {
	log      golog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	closed  bool
}

func NewHub(logger golog.Logger) *Hub {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	return &Hub{
		log: logger,
		upgrader: websocket.Upgrader{
			// spectators are read-only, any origin may watch
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encodes snap once and queues it for every spectator.
func (h *Hub) Publish(snap *simulation.WorldSnapshot) error {
	b, err := Encode(snap)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = b
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			// spectator busy, skip frame
		}
	}
	return nil
}

// ServeHTTP upgrades the request and streams snapshots until the spectator
// leaves. The latest snapshot, if any, is sent right away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("spectator upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Infof("spectator %s joined (%d watching)", r.RemoteAddr, n)

	done := make(chan struct{})
	go h.writeLoop(c, done)
	h.readLoop(c)
	close(done)
	h.remove(c)
	h.log.Infof("spectator %s left", r.RemoteAddr)
}

// readLoop only keeps the connection healthy: spectators never send input.
func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(1 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Close disconnects every spectator and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		_ = c.conn.Close()
	}
}

// ListenAndServe serves the hub on addr at /ws until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	h.log.Infof("spectator feed on ws://%s/ws", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectator server: %w", err)
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
