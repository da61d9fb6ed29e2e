package ws

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed for the opening handshake.
	handshakeTimeout = 10 * time.Second

	// Maximum inbound message size. Frames are bounded well below this
	// on the protocol level already.
	readLimit = 4096
)

// ConnHandler takes ownership of an accepted connection and runs its
// lifecycle. The session server satisfies it.
type ConnHandler interface {
	HandleConn(conn net.Conn)
}

// Handler upgrades HTTP requests to websocket connections and feeds them
// to the session server as if they had arrived over TCP.
type Handler struct {
	next ConnHandler
	log  *slog.Logger

	upgrader websocket.Upgrader
}

// NewHandler creates the upgrade handler. A nil logger falls back to
// slog.Default.
func NewHandler(next ConnHandler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		next: next,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: handshakeTimeout,
			// Accept any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsc, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	wsc.SetReadLimit(readLimit)

	h.log.Info("websocket connection established", "remote", r.RemoteAddr)
	h.next.HandleConn(NewConn(wsc))
}
