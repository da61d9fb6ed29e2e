package ws

import (
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// Conn adapts a websocket connection to net.Conn. Binary messages are
// exposed as a plain byte stream, so the framed wire protocol runs over
// websockets unchanged; non-binary messages are skipped.
type Conn struct {
	ws     *websocket.Conn
	reader io.Reader // current binary message being drained
}

// NewConn wraps an upgraded websocket connection.
func NewConn(wsc *websocket.Conn) *Conn {
	return &Conn{ws: wsc}
}

// Read returns bytes from consecutive binary messages as one stream.
func (c *Conn) Read(p []byte) (int, error) {
	for {
		if c.reader == nil {
			messageType, r, err := c.ws.NextReader()
			if err != nil {
				return 0, err
			}
			if messageType != websocket.BinaryMessage {
				continue
			}
			c.reader = r
		}

		n, err := c.reader.Read(p)
		if err == io.EOF {
			c.reader = nil
			if n == 0 {
				continue
			}
			return n, nil
		}
		return n, err
	}
}

// Write sends p as a single binary message.
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) Close() error         { return c.ws.Close() }
func (c *Conn) LocalAddr() net.Addr  { return c.ws.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr { return c.ws.RemoteAddr() }

func (c *Conn) SetDeadline(t time.Time) error {
	if err := c.ws.SetReadDeadline(t); err != nil {
		return err
	}
	return c.ws.SetWriteDeadline(t)
}

func (c *Conn) SetReadDeadline(t time.Time) error  { return c.ws.SetReadDeadline(t) }
func (c *Conn) SetWriteDeadline(t time.Time) error { return c.ws.SetWriteDeadline(t) }
