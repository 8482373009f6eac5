// Package monitor broadcasts live backtest progress over WebSocket to any
// connected viewers — an optional, read-only window onto a running backtest,
// adapted from the teacher's client fan-out but carrying bar/portfolio
// snapshots instead of market-data ticks.
package monitor

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Client is one connected WebSocket viewer.
type Client struct {
	ID   uint64
	Conn *websocket.Conn

	sendCh    chan []byte
	done      chan struct{}
	closeOnce sync.Once

	Dropped uint64
}

var clientIDCounter uint64

// NewClient wraps conn as a buffered, drop-when-full viewer.
func NewClient(conn *websocket.Conn, bufferSize int) *Client {
	return &Client{
		ID:     atomic.AddUint64(&clientIDCounter, 1),
		Conn:   conn,
		sendCh: make(chan []byte, bufferSize),
		done:   make(chan struct{}),
	}
}

// Send enqueues data for the client's write pump. Returns false, and
// increments Dropped, if the buffer is full.
func (c *Client) Send(data []byte) bool {
	select {
	case c.sendCh <- data:
		return true
	default:
		atomic.AddUint64(&c.Dropped, 1)
		return false
	}
}

// SendCh returns the channel a write pump should drain.
func (c *Client) SendCh() <-chan []byte { return c.sendCh }

// Done is closed when the client disconnects.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close terminates the connection, idempotently.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Conn.Close()
	})
}
