package server

import "github.com/blastarena/server/protocol"

// handleMessage routes one decoded frame to its transition. Heartbeats
// need nothing beyond the activity reset the read loop already applied.
func (s *Server) handleMessage(c *Client, msg protocol.Message) {
	switch msg.Op {
	case protocol.OpHeartbeat:

	case protocol.OpPlayerName:
		s.setName(c, msg.Arg)

	case protocol.OpReady:
		switch msg.Arg {
		case "1":
			s.setReady(c, true)
		case "0":
			s.setReady(c, false)
		default:
			s.log.Warn("bad ready flag", "client", c.ID, "arg", msg.Arg)
		}

	case protocol.OpMoveLeft, protocol.OpMoveRight, protocol.OpMoveUp,
		protocol.OpMoveDown, protocol.OpPlaceBomb:
		s.applyGameplay(c, msg.Op)

	case protocol.OpBye:
		s.Disconnect(c, "goodbye")

	default:
		// Server-to-client opcodes arriving from a client.
		s.log.Warn("unexpected opcode from client", "client", c.ID, "op", msg.Op.String())
	}
}
