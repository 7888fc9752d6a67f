package handler

import (
	"net/http"
	"sync"

	"github.com/CageChen/folderindex/internal/watcher"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// IndexChange is the payload of an indexChange message
type IndexChange struct {
	Alias string `json:"alias"`
	Event string `json:"event"`
	Path  string `json:"path"`
}

// WSHandler notifies WebSocket clients when an indexed folder changes
type WSHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler() *WSHandler {
	return &WSHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// HandleWS handles WebSocket upgrade and connection
func (h *WSHandler) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer func() {
		h.removeClient(conn)
		_ = conn.Close()
	}()

	h.addClient(conn)

	// Keep connection alive until the client goes away
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// OnIndexChange is called when the watcher reports a change in a folder
func (h *WSHandler) OnIndexChange(event watcher.Event) {
	var eventType string
	switch event.Type {
	case watcher.EventCreate:
		eventType = "create"
	case watcher.EventWrite:
		eventType = "update"
	case watcher.EventRemove:
		eventType = "remove"
	case watcher.EventRename:
		eventType = "rename"
	default:
		return
	}

	h.broadcast(WSMessage{
		Type: "indexChange",
		Payload: IndexChange{
			Alias: event.Alias,
			Event: eventType,
			Path:  event.Path,
		},
	})
}

func (h *WSHandler) addClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *WSHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *WSHandler) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WSHandler) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.removeClient(client)
		}
	}
}
