package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow same-origin (no Origin header)
		if origin == "" {
			return true
		}

		allowedOrigins := []string{
			"http://localhost:8080",
			"http://127.0.0.1:8080",
			"http://[::1]:8080",
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		slog.Warn("websocket: rejected origin", "origin", origin)
		return false
	},
}

// UsabilityFeed is the listener registry the manager attaches clients to.
type UsabilityFeed interface {
	AddOnWifiUsabilityListener(l ports.UsabilityListener)
	RemoveOnWifiUsabilityListener(id string)
}

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type usabilityPayload struct {
	SeqNum      int                        `json:"seq_num"`
	SameSession bool                       `json:"same_session"`
	Entry       domain.UsabilityStatsEntry `json:"entry"`
}

// WSManager streams usability-stats poll entries to websocket clients. Each
// connection registers as a listener on the feed; a failed write marks the
// listener dead and the feed drops it.
type WSManager struct {
	Feed    UsabilityFeed
	mu      sync.Mutex
	clients map[string]*wsClient
}

func NewWSManager(feed UsabilityFeed) *WSManager {
	return &WSManager{
		Feed:    feed,
		clients: make(map[string]*wsClient),
	}
}

func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket: upgrade failed", "error", err)
		return
	}

	client := &wsClient{id: uuid.NewString(), conn: conn}

	m.mu.Lock()
	m.clients[client.id] = client
	m.mu.Unlock()

	m.Feed.AddOnWifiUsabilityListener(client)
	slog.Info("websocket: client connected", "id", client.id)

	go func() {
		defer func() {
			m.Feed.RemoveOnWifiUsabilityListener(client.id)
			m.mu.Lock()
			delete(m.clients, client.id)
			m.mu.Unlock()
			conn.Close()
			slog.Info("websocket: client disconnected", "id", client.id)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ClientCount returns the number of connected clients.
func (m *WSManager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// wsClient adapts one websocket connection to ports.UsabilityListener.
type wsClient struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) ID() string { return c.id }

func (c *wsClient) OnUsabilityStats(seqNum int, sameSession bool, entry domain.UsabilityStatsEntry) error {
	msg := WSMessage{
		Type: "usability",
		Payload: usabilityPayload{
			SeqNum:      seqNum,
			SameSession: sameSession,
			Entry:       entry,
		},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
