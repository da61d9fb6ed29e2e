package protocol_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastarena/server/protocol"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  protocol.Message
	}{
		{"player name", protocol.Message{Op: protocol.OpPlayerName, Arg: "kira"}},
		{"ready flag", protocol.Message{Op: protocol.OpReady, Arg: "1"}},
		{"move without arg", protocol.Message{Op: protocol.OpMoveLeft}},
		{"countdown seconds", protocol.Message{Op: protocol.OpCountdown, Arg: "10"}},
		{"notice with spaces", protocol.Message{Op: protocol.OpMessage, Arg: "game already in progress"}},
		{"player died id", protocol.Message{Op: protocol.OpPlayerDied, Arg: "3"}},
		{"game over", protocol.Message{Op: protocol.OpGameOver}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := protocol.Encode(tt.msg)
			require.NoError(t, err)

			dec := &protocol.Decoder{}
			dec.Feed(frame)

			got, ok, err := dec.Next()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.msg, got)

			_, ok, err = dec.Next()
			require.NoError(t, err)
			assert.False(t, ok, "decoder should be drained")
		})
	}
}

func TestEncodeHeartbeat(t *testing.T) {
	frame, err := protocol.Encode(protocol.Message{Op: protocol.OpHeartbeat})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, frame)
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	msg := protocol.Message{Op: protocol.OpMessage, Arg: strings.Repeat("x", 2*protocol.MaxPayloadSize)}
	_, err := protocol.Encode(msg)
	require.ErrorIs(t, err, protocol.ErrFrameTooLarge)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "joinwaitinglobby", protocol.OpJoinLobby.String())
	assert.Equal(t, "removefromwaitinglobby", protocol.OpLeaveLobby.String())
	assert.Equal(t, "gamecountdown", protocol.OpCountdown.String())
	assert.Equal(t, "op(99)", protocol.Op(99).String())
}

func TestOpValid(t *testing.T) {
	assert.True(t, protocol.OpHeartbeat.Valid())
	assert.True(t, protocol.OpGameOver.Valid())
	assert.False(t, protocol.Op(16).Valid())
	assert.False(t, protocol.Op(255).Valid())
}
