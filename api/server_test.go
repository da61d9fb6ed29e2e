package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blastarena/server/server"
)

// mockStats implements Stats for testing
type mockStats struct {
	StatusFunc       func() server.Status
	LobbyMembersFunc func() []server.LobbyMember
	SessionStateFunc func() server.SessionView
}

func (m *mockStats) Status() server.Status {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return server.Status{}
}

func (m *mockStats) LobbyMembers() []server.LobbyMember {
	if m.LobbyMembersFunc != nil {
		return m.LobbyMembersFunc()
	}
	return nil
}

func (m *mockStats) SessionState() server.SessionView {
	if m.SessionStateFunc != nil {
		return m.SessionStateFunc()
	}
	return server.SessionView{}
}

// Test helpers

func setupTestServer(stats *mockStats, wsHandler http.Handler) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(stats, wsHandler, logger)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	srv := setupTestServer(&mockStats{}, nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %q", resp["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	stats := &mockStats{
		StatusFunc: func() server.Status {
			return server.Status{
				Connections:        3,
				MaxPlayers:         8,
				LobbySize:          2,
				ReadyCount:         1,
				CountdownActive:    true,
				CountdownRemaining: 7,
				SessionActive:      false,
			}
		},
	}
	srv := setupTestServer(stats, nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/api/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp server.Status
	parseResponse(t, w, &resp)
	if resp.Connections != 3 {
		t.Errorf("Expected 3 connections, got %d", resp.Connections)
	}
	if !resp.CountdownActive || resp.CountdownRemaining != 7 {
		t.Errorf("Countdown state lost in transit: %+v", resp)
	}
}

func TestLobbyEndpoint(t *testing.T) {
	stats := &mockStats{
		LobbyMembersFunc: func() []server.LobbyMember {
			return []server.LobbyMember{
				{Name: "alice", Ready: true},
				{Name: "bob", Ready: false},
			}
		},
	}
	srv := setupTestServer(stats, nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/api/lobby", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count   int                  `json:"count"`
		Members []server.LobbyMember `json:"members"`
	}
	parseResponse(t, w, &resp)
	if resp.Count != 2 {
		t.Errorf("Expected count 2, got %d", resp.Count)
	}
	if len(resp.Members) != 2 || resp.Members[0].Name != "alice" || !resp.Members[0].Ready {
		t.Errorf("Join order or readiness lost in transit: %+v", resp.Members)
	}
}

func TestSessionEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		view           server.SessionView
		expectedStatus int
	}{
		{
			name: "active session",
			view: server.SessionView{
				Active: true,
				Steps:  42,
				Players: []server.SessionPlayer{
					{PlayerID: 1, Name: "alice", Alive: true, X: 1, Y: 1},
					{PlayerID: 2, Name: "bob", Alive: false, X: 11, Y: 9},
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no session",
			view:           server.SessionView{},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &mockStats{
				SessionStateFunc: func() server.SessionView { return tt.view },
			}
			srv := setupTestServer(stats, nil)

			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest("GET", "/api/session", nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var resp server.SessionView
				parseResponse(t, w, &resp)
				if resp.Steps != 42 || len(resp.Players) != 2 {
					t.Errorf("Session view lost in transit: %+v", resp)
				}
				if resp.Players[1].Alive {
					t.Errorf("Expected player 2 dead, got %+v", resp.Players[1])
				}
			} else {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "no active session" {
					t.Errorf("Expected 'no active session', got %q", resp["error"])
				}
			}
		})
	}
}

func TestStatusRejectsNonGET(t *testing.T) {
	srv := setupTestServer(&mockStats{}, nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/status", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := setupTestServer(&mockStats{}, nil)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/api/nothing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestWebSocketRouteMounted(t *testing.T) {
	called := false
	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusSwitchingProtocols)
	})
	srv := setupTestServer(&mockStats{}, stub)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))

	if !called {
		t.Fatal("Expected the websocket handler to be invoked")
	}

	// Without a handler the route does not exist.
	srv = setupTestServer(&mockStats{}, nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 without a websocket handler, got %d", w.Code)
	}
}
