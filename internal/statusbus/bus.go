// Package statusbus exposes a small HTTP surface: a keep-alive endpoint for
// uptime pingers and a websocket feed of bot lifecycle events.
package statusbus

import (
	"context"
	"encoding/json"
	"errors"
	log "log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

// Event is one lifecycle notification pushed to websocket subscribers.
type Event struct {
	Kind    string    `json:"kind"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type Bus struct {
	mu       sync.Mutex
	subs     map[*ws.Conn]struct{}
	server   *http.Server
	upgrader ws.Upgrader
	started  time.Time
}

func New(addr string) *Bus {
	b := &Bus{
		subs:    make(map[*ws.Conn]struct{}),
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", b.handleAlive)
	mux.HandleFunc("/ws", b.handleWS)
	b.server = &http.Server{Addr: addr, Handler: mux}
	return b
}

// Start serves in a background goroutine until Shutdown.
func (b *Bus) Start() {
	go func() {
		if err := b.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("status bus stopped", "err", err)
		}
	}()
	log.Info("status bus listening", "addr", b.server.Addr)
}

func (b *Bus) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	conns := make([]*ws.Conn, 0, len(b.subs))
	for conn := range b.subs {
		conns = append(conns, conn)
	}
	b.mu.Unlock()
	for _, conn := range conns {
		b.drop(conn)
	}
	return b.server.Shutdown(ctx)
}

// Publish fans an event out to every subscriber. Dead connections are
// dropped on write failure.
func (b *Bus) Publish(kind, content string) {
	evt := Event{Kind: kind, Content: content, At: time.Now()}
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Error("marshal event", "err", err)
		return
	}

	var dead []*ws.Conn
	b.mu.Lock()
	for conn := range b.subs {
		if err := conn.WriteMessage(ws.TextMessage, payload); err != nil {
			log.Debug("drop subscriber", "err", err)
			dead = append(dead, conn)
		}
	}
	b.mu.Unlock()
	for _, conn := range dead {
		b.drop(conn)
	}
}

// drop removes conn from the subscriber set. Only the caller that actually
// removed the entry closes the connection, so a subscriber dropped from both
// the publish path and the read drain is closed exactly once.
func (b *Bus) drop(conn *ws.Conn) {
	b.mu.Lock()
	_, present := b.subs[conn]
	delete(b.subs, conn)
	b.mu.Unlock()
	if present {
		conn.Close()
	}
}

func (b *Bus) handleAlive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"alive":  true,
		"uptime": time.Since(b.started).Round(time.Second).String(),
	})
}

func (b *Bus) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}

	b.mu.Lock()
	b.subs[conn] = struct{}{}
	b.mu.Unlock()
	log.Debug("subscriber connected", "remote", conn.RemoteAddr())

	// Drain the read side so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.drop(conn)
				return
			}
		}
	}()
}
