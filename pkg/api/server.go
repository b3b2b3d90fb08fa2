// Package api exposes the session workflow over HTTP. The feedback
// endpoint is the stateless resume surface: each call applies exactly
// one review cycle to a persisted session.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"deckplan/pkg/workflow"
)

// Server represents the API server
type Server struct {
	Router   *mux.Router
	Runner   *workflow.Runner
	Addr     string
	upgrader websocket.Upgrader
}

// CreateSessionRequest starts a new session for a document
type CreateSessionRequest struct {
	Document     string `json:"document"`
	SessionID    string `json:"session_id,omitempty"`
	MaxRevisions int    `json:"max_revisions,omitempty"`
}

// FeedbackRequest resumes a suspended session
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// StreamUpdate is one websocket frame of newly appended messages
type StreamUpdate struct {
	SessionID string   `json:"session_id"`
	Status    string   `json:"status"`
	Messages  []string `json:"messages,omitempty"`
	Complete  bool     `json:"complete,omitempty"`
}

// NewServer creates a new API server
func NewServer(addr string, runner *workflow.Runner) *Server {
	router := mux.NewRouter()

	server := &Server{
		Router: router,
		Runner: runner,
		Addr:   addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}

	server.registerRoutes()
	return server
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	api := s.Router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.healthCheckHandler).Methods("GET")

	api.HandleFunc("/sessions", s.createSessionHandler).Methods("POST")
	api.HandleFunc("/sessions", s.listSessionsHandler).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.getSessionHandler).Methods("GET")
	api.HandleFunc("/sessions/{id}/feedback", s.submitFeedbackHandler).Methods("POST")
	api.HandleFunc("/sessions/{id}/stream", s.streamSessionHandler)
}

// Start starts the API server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.Addr)
	return http.ListenAndServe(s.Addr, s.Router)
}

// healthCheckHandler handles health check requests
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// createSessionHandler starts a session and runs it to the review point
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var request CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if request.Document == "" {
		http.Error(w, "document is required", http.StatusBadRequest)
		return
	}

	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%d", time.Now().UnixNano())
	}

	state, err := s.Runner.Start(r.Context(), sessionID, request.Document, request.MaxRevisions)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrSessionExists):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, workflow.ErrSessionBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, fmt.Sprintf("Failed to start session: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// listSessionsHandler returns the identifiers of all persisted sessions
func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.Runner.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list sessions: %v", err), http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"sessions": sessions})
}

// getSessionHandler returns the persisted snapshot of a session
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.Runner.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, workflow.ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load session: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// submitFeedbackHandler resumes a suspended session with one feedback
// signal and returns the resulting state snapshot
func (s *Server) submitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var request FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	state, err := s.Runner.Resume(r.Context(), sessionID, request.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrSessionNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, workflow.ErrSessionBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, workflow.ErrSessionClosed):
			http.Error(w, err.Error(), http.StatusGone)
		case errors.Is(err, workflow.ErrEmptyFeedback), errors.Is(err, workflow.ErrNotAwaitingReview):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, fmt.Sprintf("Failed to submit feedback: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// streamSessionHandler streams newly appended session messages over a
// websocket until the session reaches a terminal status
func (s *Server) streamSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	sentMessages := 0

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			state, err := s.Runner.Get(r.Context(), sessionID)
			if err != nil {
				conn.WriteJSON(map[string]string{"error": fmt.Sprintf("Failed to load session: %v", err)})
				return
			}

			var newMessages []string
			if len(state.Messages) > sentMessages {
				newMessages = state.Messages[sentMessages:]
				sentMessages = len(state.Messages)
			}

			terminal := state.Status.Terminal()
			if len(newMessages) == 0 && !terminal {
				continue
			}

			update := StreamUpdate{
				SessionID: state.SessionID,
				Status:    string(state.Status),
				Messages:  newMessages,
				Complete:  terminal,
			}
			if err := conn.WriteJSON(update); err != nil {
				log.Printf("Failed to write to WebSocket: %v", err)
				return
			}
			if terminal {
				return
			}
		}
	}
}
