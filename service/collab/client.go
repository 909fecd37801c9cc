package collab

import (
	"sync"

	"github.com/gorilla/websocket"

	"CollabProject/logger"
)

// Client is one live realtime channel. A single user may hold several
// clients at once (tabs, devices); each is tracked separately.
type Client struct {
	ConnID string
	UserID string // set once identity resolution succeeds; "" = anonymous
	DocID  string // joined room; "" until join-document
	WS     *websocket.Conn
	Send   chan []byte // outbound queue, consumed by a single writer goroutine

	done     chan struct{}
	doneOnce sync.Once
}

func NewClient(connID string, ws *websocket.Conn, sendQueueSize int) *Client {
	return &Client{
		ConnID: connID,
		WS:     ws,
		Send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// WritePump drains the send queue onto the websocket. Send is never closed;
// shutdown is signalled through done so concurrent fanout pushes stay safe.
func (c *Client) WritePump() {
	for {
		select {
		case msg := <-c.Send:
			if err := c.WS.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debugf("[ws] write failed conn=%s err=%v", c.ConnID, err)
				return
			}
		case <-c.done:
			return
		}
	}
}

// Shutdown stops the write pump. Idempotent.
func (c *Client) Shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
}
