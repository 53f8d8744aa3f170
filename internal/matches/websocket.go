// internal/matches/websocket.go

package matches

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/utils"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/notification"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Configure origin checking in production
		return true
	},
}

// Hub pushes match events to connected parties. A party may hold several
// connections; each one receives every event addressed to the party.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        *logger.Logger
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan Message
	partyID int64
}

// Message is the frame written to the socket
type Message struct {
	Type    string             `json:"type"`
	PartyID int64              `json:"party_id"`
	Data    notification.Event `json:"data"`
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client registry until ctx ends
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			conns, ok := h.clients[client.partyID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.partyID] = conns
			}
			conns[client] = struct{}{}
			h.log.Debug("websocket connected", "party_id", client.partyID)

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			for client := range h.clients[message.PartyID] {
				select {
				case client.send <- message:
				default:
					h.remove(client)
				}
			}

		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[int64]map[*Client]struct{})
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.partyID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.partyID)
	}
	h.log.Debug("websocket disconnected", "party_id", client.partyID)
}

// Notify implements notification.Notifier. It never blocks on slow sockets.
func (h *Hub) Notify(ctx context.Context, event notification.Event) error {
	for _, recipient := range event.Recipients() {
		message := Message{Type: string(event.Type), PartyID: recipient, Data: event}
		select {
		case h.broadcast <- message:
		case <-h.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// ServeWS upgrades an authenticated request to a websocket
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	partyID, ok := auth.PartyIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "party_id", partyID, "error", err)
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan Message, clientSendSize),
		partyID: partyID,
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

// readPump only drains control frames; clients never send data
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
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
