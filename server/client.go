package server

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// writeWait bounds a single frame write to the peer.
	writeWait = 10 * time.Second

	// sendQueueSize is the outbound frame buffer per connection.
	sendQueueSize = 256

	// disconnectGrace is how long a closing connection's writer lingers
	// after draining its queue, so a final notice reaches the peer.
	disconnectGrace = 20 * time.Millisecond
)

// clientState tracks which of the three membership states a connection is
// in. A connection holds exactly one state at any time; stateGone marks a
// completed disconnect so the transition stays idempotent.
type clientState int

const (
	statePending clientState = iota // admitted, name not announced yet
	stateLobby                      // named, waiting in the lobby
	stateRoster                     // playing in the active session
	stateGone                       // disconnected
)

func (s clientState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateLobby:
		return "lobby"
	case stateRoster:
		return "roster"
	case stateGone:
		return "gone"
	}
	return "unknown"
}

// Client is one connection to the server. The writer goroutine owns conn
// writes; all other fields below the marker are guarded by the server
// mutex.
type Client struct {
	ID     string
	conn   net.Conn
	remote string

	send      chan []byte
	closing   chan struct{}
	closeOnce sync.Once

	// Guarded by Server.mu.
	name     string
	state    clientState
	playerID int

	lastActivity     time.Time
	probeOutstanding bool
	probeSentAt      time.Time
}

func newClient(conn net.Conn) *Client {
	return &Client{
		ID:      uuid.NewString(),
		conn:    conn,
		remote:  conn.RemoteAddr().String(),
		send:    make(chan []byte, sendQueueSize),
		closing: make(chan struct{}),
	}
}

// enqueue queues a frame for the writer without ever blocking. It reports
// false when the queue is full, which the caller treats as a dead peer.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// beginClose asks the writer to drain and close the connection. Safe to
// call any number of times from any goroutine.
func (c *Client) beginClose() {
	c.closeOnce.Do(func() { close(c.closing) })
}

// writeLoop drains the send queue onto the connection. It exits on write
// failure or once beginClose fires, flushing queued frames and lingering
// briefly so final notices make it out before the socket closes.
func (c *Client) writeLoop() {
	defer c.conn.Close()

	for {
		select {
		case frame := <-c.send:
			if !c.writeFrame(frame) {
				c.beginClose()
				return
			}
		case <-c.closing:
			for {
				select {
				case frame := <-c.send:
					if !c.writeFrame(frame) {
						return
					}
				default:
					time.Sleep(disconnectGrace)
					return
				}
			}
		}
	}
}

func (c *Client) writeFrame(frame []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_, err := c.conn.Write(frame)
	return err == nil
}
