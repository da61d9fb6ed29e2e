package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blastarena/server/protocol"
)

var (
	ErrServerFull   = errors.New("server full")
	ErrShuttingDown = errors.New("server shutting down")

	ErrBlankName   = errors.New("name must not be blank")
	ErrNameTooLong = fmt.Errorf("name exceeds %d characters", maxNameLength)
	ErrNameTaken   = errors.New("name already taken")
)

// maxNameLength caps display names, counted in runes.
const maxNameLength = 10

// admit registers a new connection, enforcing the player cap. A rejected
// connection never enters the registry.
func (s *Server) admit(c *Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrShuttingDown
	}
	if len(s.clients) >= s.cfg.MaxPlayers {
		return ErrServerFull
	}

	s.clients[c] = struct{}{}
	c.state = statePending
	c.lastActivity = s.now()
	c.probeOutstanding = false
	return nil
}

// setName handles the playername announcement: validate, claim the name,
// and join the waiting lobby. A failed validation sends the reason and
// disconnects; the name is never registered.
func (s *Server) setName(c *Client, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.state == stateGone {
		return
	}
	if c.state != statePending {
		s.log.Warn("rename ignored", "client", c.ID, "name", c.name, "requested", name)
		return
	}

	if err := s.validateName(name); err != nil {
		s.log.Info("name rejected", "client", c.ID, "requested", name, "reason", err)
		s.disconnectLocked(c, err.Error())
		return
	}

	c.name = name
	s.names[strings.ToLower(name)] = c
	c.state = stateLobby
	s.lobby.Set(c, false)

	s.log.Info("player joined lobby", "client", c.ID, "name", name, "lobby_size", s.lobby.Len())

	// The joiner first sees the full lobby, itself included, then the
	// existing members learn about the joiner.
	for pair := s.lobby.Oldest(); pair != nil; pair = pair.Next() {
		s.sendTo(c, protocol.Message{Op: protocol.OpJoinLobby, Arg: pair.Key.name})
	}
	for pair := s.lobby.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != c {
			s.sendTo(pair.Key, protocol.Message{Op: protocol.OpJoinLobby, Arg: name})
		}
	}

	s.evaluateLobbyLocked(c)
}

// validateName applies the display-name rules: non-blank, at most
// maxNameLength runes, unique among connected players ignoring case.
func (s *Server) validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	if _, taken := s.names[strings.ToLower(name)]; taken {
		return ErrNameTaken
	}
	return nil
}

// Disconnect runs the standard disconnect transition: bookkeeping removal
// scoped to the connection's state, a best-effort final notice when reason
// is non-empty, then a graceful close. Calling it again for the same
// connection is a no-op.
func (s *Server) Disconnect(c *Client, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnectLocked(c, reason)
}

func (s *Server) disconnectLocked(c *Client, reason string) {
	if c.state == stateGone {
		return
	}
	prior := c.state
	c.state = stateGone

	delete(s.clients, c)
	if c.name != "" {
		delete(s.names, strings.ToLower(c.name))
	}

	switch prior {
	case stateLobby:
		s.lobbyRemoveLocked(c)
	case stateRoster:
		s.rosterDisconnectLocked(c)
	}

	if reason != "" {
		s.notify(c, reason)
	}
	c.beginClose()

	s.log.Info("connection closed",
		"client", c.ID, "name", c.name, "was", prior.String(), "reason", reason)
}
