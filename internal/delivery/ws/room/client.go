package ws_room

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/humanbelnik/scrumpoker/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Frame is the outbound wire envelope. ID is set on replies to an invocation.
type Frame struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Invocation is the inbound wire envelope.
type Invocation struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Client struct {
	id   model.ConnID
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, buffer int) *Client {
	return &Client{
		id:   model.ConnID(uuid.NewString()),
		conn: conn,
		send: make(chan []byte, buffer),
	}
}

func (c *Client) ID() model.ConnID {
	return c.id
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// StartClientReading feeds every inbound invocation to handle until the
// connection fails.
func (c *Client) StartClientReading(handle func(Invocation)) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var inv Invocation
		if err := json.Unmarshal(data, &inv); err != nil {
			// Rejected by validation downstream.
			inv = Invocation{}
		}
		handle(inv)
	}
}

// StartClientWriting drains the send queue and keeps the connection alive.
func (c *Client) StartClientWriting() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
