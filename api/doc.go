// Package api provides the HTTP status and admin surface of the arena
// server.
//
// The api package implements:
//   - Liveness checking for deployment probes
//   - Read-only status, lobby, and session endpoints
//   - WebSocket upgrade routing for browser clients
//
// Endpoints:
//
// Monitoring:
//   - GET /healthz - Liveness probe
//   - GET /api/status - Connection, lobby, countdown, and session counters
//
// Game visibility:
//   - GET /api/lobby - Waiting players and their readiness, in join order
//   - GET /api/session - The active match: players, positions, liveness
//
// Transport:
//   - GET /ws - WebSocket upgrade; the framed game protocol runs over it
//
// Request/Response Format:
//
// All endpoints return JSON. GET /api/session answers 404 while no match
// is running.
//
// Usage:
//
//	apiSrv := api.NewServer(srv, ws.NewHandler(srv, logger), logger)
//	http.ListenAndServe(cfg.HTTPAddr(), apiSrv)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
