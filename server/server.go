package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/blastarena/server/config"
	"github.com/blastarena/server/game/engine"
	"github.com/blastarena/server/protocol"
)

// stepInterval is the match tick cadence while a session is active.
const stepInterval = 100 * time.Millisecond

// readBufferSize is the per-connection read chunk size.
const readBufferSize = 4096

// Server owns every piece of shared state: the admitted connection set,
// the waiting lobby, the countdown, and the single active session.
type Server struct {
	cfg *config.Config
	log *slog.Logger
	now func() time.Time

	mu      sync.Mutex
	clients map[*Client]struct{}
	names   map[string]*Client // lowercased name -> client
	lobby   *orderedmap.OrderedMap[*Client, bool]

	countdownActive    bool
	countdownRemaining int

	match  *engine.Match
	roster []*Client

	closed    bool
	listeners []net.Listener
	quit      chan struct{}
	quitOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a server for the given configuration. A nil logger falls
// back to slog.Default.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:                cfg,
		log:                logger,
		now:                time.Now,
		clients:            make(map[*Client]struct{}),
		names:              make(map[string]*Client),
		lobby:              orderedmap.New[*Client, bool](),
		countdownRemaining: cfg.CountdownSeconds,
		quit:               make(chan struct{}),
	}
}

// Start launches the server's tickers: the liveness scan, the lobby
// countdown, and the match step. They stop when ctx is cancelled or the
// server shuts down.
func (s *Server) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		heartbeat := time.NewTicker(s.cfg.HeartbeatTick)
		defer heartbeat.Stop()
		countdown := time.NewTicker(time.Second)
		defer countdown.Stop()
		step := time.NewTicker(stepInterval)
		defer step.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.quit:
				return
			case <-heartbeat.C:
				s.heartbeatScan()
			case <-countdown.C:
				s.countdownTick()
			case <-step.C:
				s.stepMatch()
			}
		}
	}()
}

// Serve accepts connections from ln until the listener closes. It may be
// called for several listeners at once; they all feed the same state.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrShuttingDown
	}
	s.listeners = append(s.listeners, ln)
	s.mu.Unlock()

	s.log.Info("accepting connections", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.HandleConn(conn)
	}
}

// HandleConn admits a single connection into the server. The websocket
// transport calls this directly with its adapted connections.
func (s *Server) HandleConn(conn net.Conn) {
	c := newClient(conn)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		c.writeLoop()
	}()

	if err := s.admit(c); err != nil {
		s.log.Info("connection rejected", "remote", c.remote, "reason", err)
		s.sendTo(c, protocol.Message{Op: protocol.OpMessage, Arg: err.Error()})
		c.beginClose()
		return
	}

	s.log.Info("connection admitted", "client", c.ID, "remote", c.remote)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.readLoop(c)
	}()
}

// readLoop reads the connection, reassembles frames, and routes them. Any
// read error ends in the standard disconnect transition.
func (s *Server) readLoop(c *Client) {
	defer s.Disconnect(c, "")

	dec := &protocol.Decoder{}
	buf := make([]byte, readBufferSize)

	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])
			for {
				msg, ok, derr := dec.Next()
				if errors.Is(derr, protocol.ErrFrameTooLarge) {
					s.log.Warn("framing violation, dropping connection",
						"client", c.ID, "error", derr)
					s.Disconnect(c, "protocol violation")
					return
				}
				if !ok {
					break
				}
				s.touch(c)
				if derr != nil {
					s.log.Warn("dropping unreadable frame", "client", c.ID, "error", derr)
					continue
				}
				s.handleMessage(c, msg)
			}
		}
		if err != nil {
			return
		}
	}
}

// Shutdown stops the listeners and tickers, tells every connection the
// server is going away, and waits for the writer and reader goroutines to
// drain within ctx's deadline. Connections still open after that are
// force-closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	lns := s.listeners
	s.listeners = nil
	all := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		all = append(all, c)
	}
	s.mu.Unlock()

	s.quitOnce.Do(func() { close(s.quit) })
	for _, ln := range lns {
		ln.Close()
	}
	for _, c := range all {
		s.Disconnect(c, "server shutting down")
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("shutdown complete", "connections_closed", len(all))
		return nil
	case <-ctx.Done():
		for _, c := range all {
			c.conn.Close()
		}
		s.log.Warn("shutdown grace expired, connections force-closed")
		return ctx.Err()
	}
}

// sendTo encodes and queues one message for a client. A full queue means
// the peer stopped draining; the connection is told to close and the read
// side will run the disconnect transition.
func (s *Server) sendTo(c *Client, msg protocol.Message) {
	frame, err := protocol.Encode(msg)
	if err != nil {
		s.log.Error("encode frame", "op", msg.Op.String(), "error", err)
		return
	}
	if !c.enqueue(frame) {
		s.log.Warn("send queue full, dropping connection", "client", c.ID, "name", c.name)
		c.beginClose()
	}
}

// notify sends a free-text notice.
func (s *Server) notify(c *Client, text string) {
	s.sendTo(c, protocol.Message{Op: protocol.OpMessage, Arg: text})
}
