package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blastarena/server/protocol"
)

// setClock pins the server's notion of now so scans fire deterministically.
func setClock(s *Server, at time.Time) {
	s.mu.Lock()
	s.now = func() time.Time { return at }
	s.mu.Unlock()
}

func TestProbeThenEvict(t *testing.T) {
	s := newTestServer(t)
	base := time.Unix(1700000000, 0)
	setClock(s, base)

	p := dial(t, s)
	c := soleClient(t, s)
	timeout := s.cfg.HeartbeatTimeout

	// Quiet connections are probed once the timeout elapses.
	setClock(s, base.Add(timeout))
	s.heartbeatScan()
	p.expect(protocol.OpHeartbeat, "")

	s.mu.Lock()
	assert.True(t, c.probeOutstanding)
	s.mu.Unlock()
	assert.Equal(t, 1, s.Status().Connections, "a probe is not an eviction")

	// The probe goes unanswered for another full timeout: evicted.
	setClock(s, base.Add(2*timeout))
	s.heartbeatScan()
	p.expect(protocol.OpMessage, "heartbeat timeout")
	p.expectClosed()
	assert.Equal(t, 0, s.Status().Connections)
}

func TestInboundActivityAnswersProbe(t *testing.T) {
	s := newTestServer(t)
	base := time.Unix(1700000000, 0)
	setClock(s, base)

	p := dial(t, s)
	c := soleClient(t, s)
	timeout := s.cfg.HeartbeatTimeout

	setClock(s, base.Add(timeout))
	s.heartbeatScan()
	p.expect(protocol.OpHeartbeat, "")

	// Any inbound frame counts as an answer, a keepalive included.
	p.send(protocol.Message{Op: protocol.OpHeartbeat})
	waitFor(t, "probe to be answered", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return !c.probeOutstanding
	})

	// The next elapsed timeout produces a fresh probe, not an eviction.
	setClock(s, base.Add(2*timeout))
	s.heartbeatScan()
	p.expect(protocol.OpHeartbeat, "")
	assert.Equal(t, 1, s.Status().Connections)
}

func TestScanLeavesActiveConnectionsAlone(t *testing.T) {
	s := newTestServer(t)
	base := time.Unix(1700000000, 0)
	setClock(s, base)

	p := dial(t, s)
	c := soleClient(t, s)

	setClock(s, base.Add(s.cfg.HeartbeatTimeout/2))
	s.heartbeatScan()

	s.mu.Lock()
	assert.False(t, c.probeOutstanding, "half the timeout is not quiet enough")
	s.mu.Unlock()

	// Nothing was sent: the next frame the peer sees is one we trigger.
	s.mu.Lock()
	s.notify(c, "ping")
	s.mu.Unlock()
	p.expect(protocol.OpMessage, "ping")
}

func TestEvictionRunsLobbyDeparture(t *testing.T) {
	s := newTestServer(t)
	base := time.Unix(1700000000, 0)
	setClock(s, base)

	alice := join(t, s, "alice")
	bob := join(t, s, "bob", "alice")
	alice.expect(protocol.OpJoinLobby, "bob")
	alice.expect(protocol.OpCountdown, "0")
	timeout := s.cfg.HeartbeatTimeout

	// Both go quiet; both get probed.
	setClock(s, base.Add(timeout))
	s.heartbeatScan()
	alice.expect(protocol.OpHeartbeat, "")
	bob.expect(protocol.OpHeartbeat, "")

	// Bob answers, alice stays silent.
	bob.send(protocol.Message{Op: protocol.OpHeartbeat})
	bobC := clientByName(s, "bob")
	waitFor(t, "bob's probe to be answered", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return !bobC.probeOutstanding
	})

	setClock(s, base.Add(2*timeout))
	s.heartbeatScan()

	alice.expect(protocol.OpMessage, "heartbeat timeout")
	alice.expectClosed()

	// Bob is quiet again so the sweep re-probes him, then alice's eviction
	// plays out as a normal lobby departure.
	bob.expect(protocol.OpHeartbeat, "")
	bob.expect(protocol.OpCountdown, "0")
	bob.expect(protocol.OpLeaveLobby, "alice")

	st := s.Status()
	assert.Equal(t, 1, st.Connections)
	assert.Equal(t, 1, st.LobbySize)
}
