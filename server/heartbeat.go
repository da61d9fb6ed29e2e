package server

import "github.com/blastarena/server/protocol"

// touch records inbound activity: the liveness clock restarts and any
// outstanding probe counts as answered. Every inbound frame touches,
// whatever its opcode.
func (s *Server) touch(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.lastActivity = s.now()
	c.probeOutstanding = false
}

// heartbeatScan probes connections that have gone quiet for the timeout
// and evicts those whose probe then went unanswered for another full
// timeout. Victims are collected during the sweep and disconnected after
// it, so the connection set is never mutated mid-iteration.
func (s *Server) heartbeatScan() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	timeout := s.cfg.HeartbeatTimeout

	var victims []*Client
	for c := range s.clients {
		if c.probeOutstanding {
			if now.Sub(c.probeSentAt) >= timeout {
				victims = append(victims, c)
			}
			continue
		}
		if now.Sub(c.lastActivity) >= timeout {
			c.probeOutstanding = true
			c.probeSentAt = now
			s.sendTo(c, protocol.Message{Op: protocol.OpHeartbeat})
		}
	}

	for _, c := range victims {
		s.log.Info("heartbeat timeout", "client", c.ID, "name", c.name)
		s.disconnectLocked(c, "heartbeat timeout")
	}
}
