package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// LengthPrefixSize is the number of bytes in the frame length header.
	LengthPrefixSize = 2
	// MaxPayloadSize caps the payload length a frame may advertise.
	MaxPayloadSize = 1024
)

var (
	ErrFrameTooLarge    = errors.New("frame exceeds max payload size")
	ErrMalformedPayload = errors.New("malformed frame payload")
	ErrUnknownOpcode    = errors.New("unknown opcode")
)

// Op identifies the operation a frame carries.
type Op uint8

const (
	// OpHeartbeat is the keepalive, sent by either side as an empty frame.
	OpHeartbeat Op = iota

	// Client-to-server opcodes.
	OpPlayerName // announce display name
	OpReady      // c->s: "1"/"0" readiness; s->c: member name turned ready
	OpUnready    // s->c only: member name turned unready
	OpMoveLeft
	OpMoveRight
	OpMoveUp
	OpMoveDown
	OpPlaceBomb
	OpBye // voluntary disconnect

	// Server-to-client opcodes.
	OpJoinLobby  // member name joined the waiting lobby
	OpLeaveLobby // member name left the waiting lobby
	OpCountdown  // remaining seconds; "0" means cancelled
	OpMessage    // free-text notice
	OpPlayerDied // numeric player id
	OpGameOver   // session ended
)

var opNames = map[Op]string{
	OpHeartbeat:  "heartbeat",
	OpPlayerName: "playername",
	OpReady:      "ready",
	OpUnready:    "unready",
	OpMoveLeft:   "moveleft",
	OpMoveRight:  "moveright",
	OpMoveUp:     "moveup",
	OpMoveDown:   "movedown",
	OpPlaceBomb:  "placebomb",
	OpBye:        "bye",
	OpJoinLobby:  "joinwaitinglobby",
	OpLeaveLobby: "removefromwaitinglobby",
	OpCountdown:  "gamecountdown",
	OpMessage:    "message",
	OpPlayerDied: "playerdied",
	OpGameOver:   "gameover",
}

// String returns the wire name of the opcode.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Valid reports whether o is a defined opcode.
func (o Op) Valid() bool {
	_, ok := opNames[o]
	return ok
}

// Message is a single decoded frame.
type Message struct {
	Op  Op
	Arg string
}

// payload is the JSON shape of a non-heartbeat frame body.
type payload struct {
	Op  uint8  `json:"op"`
	Arg string `json:"arg,omitempty"`
}

// Encode serializes msg into a length-prefixed frame. Heartbeats encode as
// the canonical empty frame regardless of Arg.
func Encode(msg Message) ([]byte, error) {
	if msg.Op == OpHeartbeat {
		return []byte{0, 0}, nil
	}

	body, err := json.Marshal(payload{Op: uint8(msg.Op), Arg: msg.Arg})
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", msg.Op, err)
	}
	if len(body) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}

	frame := make([]byte, LengthPrefixSize+len(body))
	binary.BigEndian.PutUint16(frame[:LengthPrefixSize], uint16(len(body)))
	copy(frame[LengthPrefixSize:], body)
	return frame, nil
}

// decodePayload interprets a complete frame body. The returned Message keeps
// whatever could be parsed even when the error is non-nil, so callers can log
// what they are dropping.
func decodePayload(body []byte) (Message, error) {
	if len(body) == 0 {
		return Message{Op: OpHeartbeat}, nil
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	msg := Message{Op: Op(p.Op), Arg: p.Arg}
	if !msg.Op.Valid() {
		return msg, fmt.Errorf("%w: %d", ErrUnknownOpcode, p.Op)
	}
	return msg, nil
}
