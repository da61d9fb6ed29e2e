package server

// Status is a point-in-time view of the server for the HTTP API.
type Status struct {
	Connections        int  `json:"connections"`
	MaxPlayers         int  `json:"max_players"`
	LobbySize          int  `json:"lobby_size"`
	ReadyCount         int  `json:"ready_count"`
	CountdownActive    bool `json:"countdown_active"`
	CountdownRemaining int  `json:"countdown_remaining"`
	SessionActive      bool `json:"session_active"`
}

// LobbyMember is one waiting player in join order.
type LobbyMember struct {
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// SessionPlayer pairs a roster member with its engine state.
type SessionPlayer struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Alive    bool   `json:"alive"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// SessionView describes the active match, if any.
type SessionView struct {
	Active  bool            `json:"active"`
	Steps   int             `json:"steps"`
	Players []SessionPlayer `json:"players"`
}

// Status snapshots the server counters under the transition mutex.
func (s *Server) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Connections:        len(s.clients),
		MaxPlayers:         s.cfg.MaxPlayers,
		LobbySize:          s.lobby.Len(),
		ReadyCount:         len(s.readyMembersLocked()),
		CountdownActive:    s.countdownActive,
		CountdownRemaining: s.countdownRemaining,
		SessionActive:      s.match != nil,
	}
}

// LobbyMembers snapshots the waiting lobby in join order.
func (s *Server) LobbyMembers() []LobbyMember {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]LobbyMember, 0, s.lobby.Len())
	for pair := s.lobby.Oldest(); pair != nil; pair = pair.Next() {
		members = append(members, LobbyMember{Name: pair.Key.name, Ready: pair.Value})
	}
	return members
}

// SessionState snapshots the active match for the HTTP API.
func (s *Server) SessionState() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	var view SessionView
	if s.match == nil {
		return view
	}
	view.Active = true
	view.Steps = s.match.Steps()

	names := make(map[int]string, len(s.roster))
	for _, c := range s.roster {
		names[c.playerID] = c.name
	}
	for _, ps := range s.match.Snapshot() {
		view.Players = append(view.Players, SessionPlayer{
			PlayerID: ps.ID,
			Name:     names[ps.ID],
			Alive:    ps.Alive,
			X:        ps.Pos.X,
			Y:        ps.Pos.Y,
		})
	}
	return view
}
