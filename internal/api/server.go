// Package api exposes the interview service and user store over an HTTP JSON
// API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/haridaggupatti/sb1-hyd/internal/interview"
	"github.com/haridaggupatti/sb1-hyd/internal/users"
)

// Server wraps the HTTP handlers for the interview API
type Server struct {
	service *interview.Service
	users   *users.Store
}

// New creates a new Server instance
func New(service *interview.Service, userStore *users.Store) *Server {
	return &Server{service: service, users: userStore}
}

// Register wires the API routes onto the supplied mux
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/interview/start", s.handleStart)
	mux.HandleFunc("/api/interview/ask", s.handleAsk)
	mux.HandleFunc("/api/interview/end", s.handleEnd)
	mux.HandleFunc("/api/users", s.handleUsers)
	mux.HandleFunc("/api/users/", s.handleUserByID)
	mux.HandleFunc("/healthz", s.handleHealth)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		Document string `json:"document"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if strings.TrimSpace(payload.Document) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "document is required")
		return
	}

	sessionID, err := s.service.StartSession(r.Context(), payload.Document)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"status":     "success",
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		SessionID string `json:"session_id"`
		Question  string `json:"question"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if payload.SessionID == "" || strings.TrimSpace(payload.Question) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "session_id and question are required")
		return
	}

	answer, err := s.service.AskQuestion(r.Context(), payload.SessionID, payload.Question)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"response": answer,
		"status":   "success",
	})
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.service.EndSession(r.Context(), payload.SessionID)

	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload users.User
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	user, err := s.users.Create(r.Context(), payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	id = strings.Trim(id, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getUser(w, r, id)
	case http.MethodPut:
		s.updateUser(w, r, id)
	case http.MethodDelete:
		s.deleteUser(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := s.users.Get(r.Context(), id)
	if errors.Is(err, users.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "storage_failure", "failed to read user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request, id string) {
	var payload users.User
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	user, err := s.users.Update(r.Context(), id, payload)
	if errors.Is(err, users.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	} else if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.users.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "storage_failure", "failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// writeServiceError translates the interview error taxonomy into HTTP
// responses. Callers see which class of failure occurred, never provider or
// storage detail.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionExpired):
		writeError(w, http.StatusGone, "session_expired",
			"Your session has expired. Please start a new interview.")
	case errors.Is(err, interview.ErrCompletionFailed):
		writeError(w, http.StatusBadGateway, "completion_failed",
			"Something went wrong generating a response. Please try asking again.")
	case errors.Is(err, interview.ErrStorageFailure):
		writeError(w, http.StatusInternalServerError, "storage_failure",
			"The service is temporarily unavailable. Please try again later.")
	default:
		log.Printf("Unclassified service error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred.")
	}
}

func decodeJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"status": "error",
		"code":   code,
		"error":  message,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}
