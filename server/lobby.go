package server

import (
	"strconv"

	"github.com/blastarena/server/protocol"
)

// setReady flips a lobby member's readiness, announces it, and re-runs the
// start rules. Readiness from connections outside the lobby is ignored.
func (s *Server) setReady(c *Client, ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.state != stateLobby {
		return
	}
	s.lobby.Set(c, ready)

	op := protocol.OpUnready
	if ready {
		op = protocol.OpReady
	}
	s.broadcastLobbyLocked(protocol.Message{Op: op, Arg: c.name})

	s.evaluateLobbyLocked(c)
}

// lobbyRemoveLocked takes a member out of the lobby, re-runs the start
// rules over whoever remains, and then announces the departure to them.
func (s *Server) lobbyRemoveLocked(c *Client) {
	s.lobby.Delete(c)
	s.evaluateLobbyLocked(nil)
	s.broadcastLobbyLocked(protocol.Message{Op: protocol.OpLeaveLobby, Arg: c.name})
}

// evaluateLobbyLocked applies the start rules after any lobby change.
// trigger is the member whose input caused the change, when there is one.
//
// Everyone ready starts the session immediately, countdown or no
// countdown. At least two ready keeps the countdown running and repeats
// the remaining seconds to the ready members; a trigger that is itself not
// ready gets a directed "0" so late joiners and deserters see no phantom
// countdown. Fewer than two ready cancels.
func (s *Server) evaluateLobbyLocked(trigger *Client) {
	size := s.lobby.Len()
	ready := s.readyMembersLocked()

	switch {
	case size == 0:
		s.stopCountdownLocked()

	case len(ready) == size:
		s.startSessionLocked(trigger)

	case len(ready) >= 2:
		s.countdownActive = true
		arg := strconv.Itoa(s.countdownRemaining)
		for _, c := range ready {
			s.sendTo(c, protocol.Message{Op: protocol.OpCountdown, Arg: arg})
		}
		if trigger != nil && trigger.state == stateLobby {
			if isReady, ok := s.lobby.Get(trigger); ok && !isReady {
				s.sendTo(trigger, protocol.Message{Op: protocol.OpCountdown, Arg: "0"})
			}
		}

	default:
		s.stopCountdownLocked()
		s.broadcastLobbyLocked(protocol.Message{Op: protocol.OpCountdown, Arg: "0"})
	}
}

// countdownTick advances an active countdown by one second, repeating the
// remaining value to the ready members. Reaching zero starts the session
// with whoever is ready.
func (s *Server) countdownTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.countdownActive {
		return
	}

	s.countdownRemaining--
	if s.countdownRemaining > 0 {
		arg := strconv.Itoa(s.countdownRemaining)
		for _, c := range s.readyMembersLocked() {
			s.sendTo(c, protocol.Message{Op: protocol.OpCountdown, Arg: arg})
		}
		return
	}

	s.countdownRemaining = s.cfg.CountdownSeconds
	s.startSessionLocked(nil)
}

func (s *Server) stopCountdownLocked() {
	s.countdownActive = false
	s.countdownRemaining = s.cfg.CountdownSeconds
}

// readyMembersLocked returns the ready lobby members in join order.
func (s *Server) readyMembersLocked() []*Client {
	var ready []*Client
	for pair := s.lobby.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value {
			ready = append(ready, pair.Key)
		}
	}
	return ready
}

// broadcastLobbyLocked sends one message to every lobby member in join
// order.
func (s *Server) broadcastLobbyLocked(msg protocol.Message) {
	for pair := s.lobby.Oldest(); pair != nil; pair = pair.Next() {
		s.sendTo(pair.Key, msg)
	}
}
