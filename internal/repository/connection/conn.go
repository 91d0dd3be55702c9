package connection

import (
	"sync"

	"github.com/gorilla/websocket"
)

const sendQueueSize = 32

// Conn wraps a websocket connection with a buffered outbound queue drained by
// a single write pump, so a slow receiver never blocks the sender. A full
// queue drops the connection instead of applying backpressure.
type Conn struct {
	ws   *websocket.Conn
	send chan any
	done chan struct{}
	once sync.Once
}

func NewConn(ws *websocket.Conn) *Conn {
	c := &Conn{
		ws:   ws,
		send: make(chan any, sendQueueSize),
		done: make(chan struct{}),
	}
	go c.writePump()

	return c
}

func (c *Conn) writePump() {
	for {
		select {
		case v := <-c.send:
			if err := c.ws.WriteJSON(v); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// WriteJSON enqueues v for delivery. It never blocks.
func (c *Conn) WriteJSON(v any) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- v:
		return nil
	default:
		c.Close()
		return ErrQueueFull
	}
}

// ReadJSON reads the next message. Must be called from a single goroutine.
func (c *Conn) ReadJSON(v any) error {
	return c.ws.ReadJSON(v)
}

func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		// NetConn is nil for the bare conns used in tests
		if c.ws.NetConn() != nil {
			c.ws.Close()
		}
	})
}
