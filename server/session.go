package server

import (
	"strconv"

	"github.com/blastarena/server/game/engine"
	"github.com/blastarena/server/protocol"
)

// startSessionLocked promotes the ready lobby members into a match. With a
// session already running it only tells the requester (or the ready
// members, when the countdown fired) that the arena is taken.
func (s *Server) startSessionLocked(trigger *Client) {
	ready := s.readyMembersLocked()

	if s.match != nil {
		const busy = "game already in progress"
		if trigger != nil {
			s.notify(trigger, busy)
		} else {
			for _, c := range ready {
				s.notify(c, busy)
			}
		}
		return
	}
	if len(ready) == 0 {
		return
	}

	ids := make([]int, len(ready))
	for i := range ids {
		ids[i] = i + 1
	}
	match, err := engine.NewMatch(ids)
	if err != nil {
		s.log.Error("match creation failed", "players", len(ids), "error", err)
		return
	}

	s.match = match
	s.roster = ready
	for i, c := range ready {
		c.state = stateRoster
		c.playerID = i + 1
		s.lobby.Delete(c)
	}

	// Whoever stays behind watches the players leave for the arena.
	for pair := s.lobby.Oldest(); pair != nil; pair = pair.Next() {
		for _, c := range ready {
			s.sendTo(pair.Key, protocol.Message{Op: protocol.OpLeaveLobby, Arg: c.name})
		}
	}

	s.stopCountdownLocked()

	s.log.Info("session started", "players", len(ready))
}

// applyGameplay routes movement and bomb input into the active match.
// Input with no session running, or from connections outside the roster,
// is silently dropped; the engine itself drops input from dead players.
func (s *Server) applyGameplay(c *Client, op protocol.Op) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil || c.state != stateRoster {
		return
	}

	switch op {
	case protocol.OpMoveLeft:
		s.match.Move(c.playerID, engine.DirLeft)
	case protocol.OpMoveRight:
		s.match.Move(c.playerID, engine.DirRight)
	case protocol.OpMoveUp:
		s.match.Move(c.playerID, engine.DirUp)
	case protocol.OpMoveDown:
		s.match.Move(c.playerID, engine.DirDown)
	case protocol.OpPlaceBomb:
		s.match.PlaceBomb(c.playerID)
	}
}

// stepMatch advances the active match one tick and turns engine deaths
// into eliminations.
func (s *Server) stepMatch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return
	}

	died := s.match.Step()
	for _, id := range died {
		s.eliminateLocked(id)
	}
	if len(died) > 0 {
		s.maybeEndSessionLocked()
	}
}

// eliminateLocked announces a death to the rest of the roster. The victim
// stays a roster member, just not an alive one, until the session resets.
func (s *Server) eliminateLocked(playerID int) {
	arg := strconv.Itoa(playerID)

	var victim *Client
	for _, rc := range s.roster {
		if rc.playerID == playerID {
			victim = rc
			break
		}
	}
	for _, rc := range s.roster {
		if rc != victim {
			s.sendTo(rc, protocol.Message{Op: protocol.OpPlayerDied, Arg: arg})
		}
	}

	if victim != nil {
		s.log.Info("player eliminated", "name", victim.name, "player_id", playerID)
	}
}

// rosterDisconnectLocked handles a mid-game disconnect: the player leaves
// the match and the roster entirely, the survivors hear about the death,
// and the session ends if at most one of them is left standing.
func (s *Server) rosterDisconnectLocked(c *Client) {
	id := c.playerID
	s.match.RemovePlayer(id)

	for i, rc := range s.roster {
		if rc == c {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			break
		}
	}

	arg := strconv.Itoa(id)
	for _, rc := range s.roster {
		s.sendTo(rc, protocol.Message{Op: protocol.OpPlayerDied, Arg: arg})
	}

	s.maybeEndSessionLocked()
}

// maybeEndSessionLocked resets the session once at most one player is
// still alive.
func (s *Server) maybeEndSessionLocked() {
	if s.match == nil || s.match.AliveCount() > 1 {
		return
	}
	s.resetSessionLocked()
}

// resetSessionLocked ends the session: the roster hears gameover, every
// member still connected returns to the lobby unready in roster order,
// everyone gets the full membership picture again, and the countdown goes
// back to its starting value.
func (s *Server) resetSessionLocked() {
	returning := s.roster
	s.match = nil
	s.roster = nil

	for _, c := range returning {
		s.sendTo(c, protocol.Message{Op: protocol.OpGameOver})
	}
	for _, c := range returning {
		c.state = stateLobby
		c.playerID = 0
		s.lobby.Set(c, false)
	}

	for pair := s.lobby.Oldest(); pair != nil; pair = pair.Next() {
		for inner := s.lobby.Oldest(); inner != nil; inner = inner.Next() {
			s.sendTo(pair.Key, protocol.Message{Op: protocol.OpJoinLobby, Arg: inner.Key.name})
		}
	}

	s.stopCountdownLocked()
	s.evaluateLobbyLocked(nil)

	s.log.Info("session reset", "returned", len(returning), "lobby_size", s.lobby.Len())
}
