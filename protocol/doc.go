// Package protocol implements the wire format spoken between the arena
// server and its clients.
//
// Every frame is a 2-byte big-endian length prefix followed by the payload.
// A zero-length payload is the heartbeat keepalive; any other payload is a
// UTF-8 JSON record carrying a numeric opcode and a single string argument:
//
//	{"op":2,"arg":"1"}
//
// Payloads are capped at MaxPayloadSize bytes. Both sides speak the same
// framing; opcodes determine direction (see the Op constants).
//
// Core Types:
//
// Message is one decoded frame. Encode turns a Message back into its wire
// bytes. Decoder reassembles Messages from a raw byte stream, tolerating
// frames that arrive split or coalesced across reads.
//
// Usage:
//
//	dec := &protocol.Decoder{}
//	dec.Feed(chunk)
//	for {
//		msg, ok, err := dec.Next()
//		if !ok {
//			break // need more bytes, or the framing is poisoned (err != nil)
//		}
//		if err != nil {
//			continue // consumed but unusable; log and keep reading
//		}
//		handle(msg)
//	}
package protocol
