package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/blastarena/server/server"
)

// Stats is the read-only view of the session server the API exposes.
type Stats interface {
	Status() server.Status
	LobbyMembers() []server.LobbyMember
	SessionState() server.SessionView
}

// Server represents the HTTP admin and status API.
type Server struct {
	stats  Stats
	log    *slog.Logger
	router *mux.Router
}

// NewServer creates the API server. wsHandler, when non-nil, is mounted at
// /ws so browser clients can reach the game over the same port.
func NewServer(stats Stats, wsHandler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		stats:  stats,
		log:    logger,
		router: mux.NewRouter(),
	}

	s.setupRoutes(wsHandler)
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes(wsHandler http.Handler) {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/lobby", s.handleLobby).Methods("GET")
	api.HandleFunc("/session", s.handleSession).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	if wsHandler != nil {
		s.router.Handle("/ws", wsHandler)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.stats.Status())
}

func (s *Server) handleLobby(w http.ResponseWriter, r *http.Request) {
	members := s.stats.LobbyMembers()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(members),
		"members": members,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	view := s.stats.SessionState()
	if !view.Active {
		respondError(w, http.StatusNotFound, "no active session")
		return
	}
	respondJSON(w, http.StatusOK, view)
}
