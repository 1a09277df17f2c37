// Package stream pushes console log entries to connected WebSocket clients.
// It polls the log ring with a cursor and broadcasts anything new, so a
// console does not have to poll retrieveConsoleLogs itself.
package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/secure-shed/shedctl/internal/core/ports"
)

// SweepInterval is how often the ring is checked for new entries.
const SweepInterval = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth is the shared-key header, already enforced by middleware.
		return true
	},
}

// Manager owns the client set and the broadcast sweep.
type Manager struct {
	ring ports.LogRing
	log  *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	cursor  float64
}

func NewManager(ring ports.LogRing, log *slog.Logger) *Manager {
	return &Manager{
		ring:    ring,
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Start launches the broadcast sweep; it stops when ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go m.sweep(ctx)
}

// HandleWebSocket upgrades the connection and registers the client.
func (m *Manager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Error("websocket upgrade failed", "error", err)
		return
	}

	m.mu.Lock()
	m.clients[conn] = struct{}{}
	m.mu.Unlock()
	m.log.Debug("console log stream client connected", "remote", conn.RemoteAddr().String())

	go func() {
		defer conn.Close()
		defer func() {
			m.mu.Lock()
			delete(m.clients, conn)
			m.mu.Unlock()
			m.log.Debug("console log stream client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (m *Manager) sweep(ctx context.Context) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			m.broadcastNew()
		}
	}
}

func (m *Manager) broadcastNew() {
	lastTimestamp, entries := m.ring.EntriesSince(m.cursor)
	if len(entries) == 0 {
		return
	}
	m.cursor = lastTimestamp

	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		for _, entry := range entries {
			if err := conn.WriteJSON(entry); err != nil {
				conn.Close()
				delete(m.clients, conn)
				break
			}
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.clients {
		conn.Close()
		delete(m.clients, conn)
	}
}
