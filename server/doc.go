// Package server implements the arena session server: connection
// admission, liveness monitoring, the waiting lobby with its start
// countdown, and the single active game session.
//
// Core Types:
//
// Server owns all shared state. Client is one admitted connection with a
// buffered outbound queue drained by its own writer goroutine. The lobby
// holds named connections in join order with a readiness flag; the roster
// holds the connections playing the active match.
//
// Every connection is in exactly one of three states: admitted but not yet
// named, lobby member, or roster member. State changes happen through named
// transitions (admit, setName, setReady, disconnect, startSession,
// resetSession), each atomic under one server-wide mutex held for the whole
// transition.
//
// Concurrency:
//
// One mutex, many short holders. Per-connection reader goroutines decode
// frames and call into the transitions; three tickers (liveness scan, lobby
// countdown, match step) do the same. Sends never block a transition: they
// enqueue onto the client's buffered queue, and a full queue or write
// failure funnels the connection into the standard idempotent disconnect.
//
// Usage:
//
//	srv := server.New(cfg, logger)
//	srv.Start(ctx)
//	ln, _ := net.Listen("tcp", cfg.GameAddr())
//	go srv.Serve(ln)
//	...
//	srv.Shutdown(shutdownCtx)
package server
