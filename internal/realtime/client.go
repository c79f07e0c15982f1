package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mhasan/chatwave/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one live authenticated realtime connection. HandleID is the
// opaque registry value; a new connection always gets a fresh handle.
type Client struct {
	HandleID string
	UserID   uuid.UUID
	User     *domain.PublicUser

	conn    *websocket.Conn
	send    chan []byte
	onClose func()
}

// NewClient binds an upgraded connection to an authenticated identity.
// onClose runs exactly once when the read pump exits.
func NewClient(conn *websocket.Conn, user *domain.PublicUser, onClose func()) *Client {
	return &Client{
		HandleID: uuid.New().String(),
		UserID:   user.ID,
		User:     user,
		conn:     conn,
		send:     make(chan []byte, 256),
		onClose:  onClose,
	}
}

// ReadPump keeps the connection alive and detects disconnects. Inbound
// frames carry no commands in this protocol and are discarded.
func (c *Client) ReadPump() {
	defer func() {
		if c.onClose != nil {
			c.onClose()
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
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

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// Send queues an event without blocking. A client whose send buffer is
// full is dropped rather than stalling the caller.
func (c *Client) Send(event *Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal event: %v", err)
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}
