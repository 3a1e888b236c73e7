package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	FeedEventSpotCreated = "spot_created"
	FeedEventSpotDeleted = "spot_deleted"

	writeTimeout = 5 * time.Second
)

// FeedEvent is pushed to every connected app when spots change
type FeedEvent struct {
	Type string    `json:"type"`
	Spot *SpotInfo `json:"spot,omitempty"`
	ID   string    `json:"id,omitempty"`
}

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool
type ConnectedClient struct {
	fun SendSocketFunc
}

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	ConnectedClients = cmap.New[*ConnectedClient]()
)

// Broadcast sends the event to all feed clients, dropping the ones that fail
func Broadcast(event FeedEvent) {
	if ConnectedClients.IsEmpty() {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Feed event encoding failed", "error", err)
		return
	}
	for item := range ConnectedClients.IterBuffered() {
		if !item.Val.fun(data) {
			ConnectedClients.Remove(item.Key)
		}
	}
}

func SpotFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("Feed upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Setup client, writes come from both Broadcast and the read cycle below
	var writeMutex sync.Mutex
	isConnected := true
	write := func(mt int, data []byte) bool {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		if !isConnected {
			return false
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(mt, data); err != nil {
			slog.Debug("Feed write failed", "error", err)
			isConnected = false
			return false
		}
		return true
	}
	id := uuid.New().String()
	client := &ConnectedClient{
		fun: func(data []byte) bool { return write(websocket.TextMessage, data) },
	}
	ConnectedClients.Set(id, client)
	defer ConnectedClients.Remove(id)
	slog.Debug("Feed client connected", "id", id, "clients", ConnectedClients.Count())

	// Main read cycle
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			writeMutex.Lock()
			isConnected = false
			writeMutex.Unlock()
			break
		}
		if string(message) == "ping" {
			write(mt, []byte("pong"))
		}
	}
	slog.Debug("Feed client disconnected", "id", id)
}
