// Package ws carries the framed game protocol over websockets.
//
// The ws package implements:
//   - HTTP-to-websocket upgrading with a permissive origin policy
//   - A net.Conn adapter over binary websocket messages
//   - Transparent reuse of the TCP connection lifecycle
//
// Architecture:
//
// Rather than maintaining its own client bookkeeping, the package adapts
// each upgraded connection to net.Conn and hands it to the session server,
// which runs the exact same read/write loops it runs for TCP connections.
// Browser clients therefore speak the identical wire protocol: 2-byte
// length-prefixed frames, sent as binary messages.
//
// Message Mapping:
//
// Inbound binary messages are concatenated into one byte stream; a frame
// may span messages and a message may carry several frames. Each outbound
// frame is sent as exactly one binary message, so client code can treat
// message boundaries as frame boundaries when reading. Text and other
// non-binary messages are ignored.
//
// Usage:
//
//	handler := ws.NewHandler(srv, logger)
//	mux.Handle("/ws", handler)
//
// Concurrency:
//
// The session server attaches one reader and one writer goroutine per
// connection, which matches the websocket package's one-reader one-writer
// requirement.
package ws
