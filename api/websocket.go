package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/openweb3/wallet-core/common/logger"
	"github.com/openweb3/wallet-core/wallet"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// checkOrigin accepts non-browser clients, loopback pages and extension pages
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || AllowedOrigin(origin)
}

// AllowedOrigin reports whether a browser origin may drive the local API.
// Only extension pages and loopback hosts qualify; an empty origin does not.
func AllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "chrome-extension", "moz-extension":
		return true
	case "http", "https":
	default:
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// WSEventType event type
type WSEventType string

const (
	EventConnected    WSEventType = "connected"
	EventSessionState WSEventType = "session_state"
)

// WSMessage WebSocket message structure
type WSMessage struct {
	Event WSEventType `json:"event"`
	Data  interface{} `json:"data"`
}

// SessionStateProvider returns the current wallet session snapshot
type SessionStateProvider func() wallet.Snapshot

// WSHub client connection management
type WSHub struct {
	clients       map[*WSClient]bool
	broadcast     chan WSMessage
	register      chan *WSClient
	unregister    chan *WSClient
	quit          chan struct{}
	stopOnce      sync.Once
	mu            sync.RWMutex
	stateProvider SessionStateProvider
}

// WSClient WebSocket client
type WSClient struct {
	hub  *WSHub
	conn *websocket.Conn
	send chan []byte
}

// NewWSHub creates new Hub
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 64),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		quit:       make(chan struct{}),
	}
}

// SetStateProvider sets the callback used to greet new clients with the current state
func (h *WSHub) SetStateProvider(provider SessionStateProvider) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stateProvider = provider
}

func (h *WSHub) currentStateMessage() []byte {
	h.mu.RLock()
	provider := h.stateProvider
	h.mu.RUnlock()

	if provider == nil {
		return nil
	}

	data, err := json.Marshal(WSMessage{Event: EventSessionState, Data: provider()})
	if err != nil {
		return nil
	}
	return data
}

// Run runs the Hub until Stop
func (h *WSHub) Run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			logger.Debug("WebSocket client connected. Total:", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			logger.Debug("WebSocket client disconnected. Total:", n)

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				logger.Error("Failed to marshal WebSocket message:", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// slow client
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *WSHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
	})
}

// BroadcastSessionState publishes a session transition. It never blocks the caller.
func (h *WSHub) BroadcastSessionState(snap wallet.Snapshot) {
	select {
	case h.broadcast <- WSMessage{Event: EventSessionState, Data: snap}:
	default:
		logger.Warn("WebSocket broadcast queue full, dropping session_state")
	}
}

// GetClientCount returns connected client count
func (h *WSHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket WebSocket connection handler
func HandleWebSocket(hub *WSHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error:", err)
			return
		}

		client := &WSClient{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, 256),
		}

		// queue the greeting before the hub can close send
		welcomeMsg := WSMessage{
			Event: EventConnected,
			Data: map[string]interface{}{
				"message": "Connected to openweb3 wallet",
			},
		}
		data, _ := json.Marshal(welcomeMsg)
		client.send <- data

		if stateData := hub.currentStateMessage(); stateData != nil {
			client.send <- stateData
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// writePump sends message to client
func (c *WSClient) writePump() {
	defer func() {
		c.conn.Close()
	}()

	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				logger.Error("WebSocket write error:", err)
			} else {
				logger.Debug("WebSocket write closed:", err)
			}
			return
		}
	}
}

// readPump receives message from client
func (c *WSClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			// CloseGoingAway (1001): extension popup closed
			// CloseNoStatusReceived (1005): connection closed without status code
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
				websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error:", err)
			} else {
				logger.Debug("WebSocket client disconnected:", err)
			}
			break
		}
		// client messages are ignored
	}
}
