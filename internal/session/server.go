package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"example.com/mastermind/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TokenVerifier resolves a bearer token to the player it was issued to.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Server struct {
	sessions *Service
	verifier TokenVerifier
	log      *slog.Logger
}

func NewServer(sessions *Service, verifier TokenVerifier, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		sessions: sessions,
		verifier: verifier,
		log:      log,
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/api/sessions", s.handleCreateSession)
	r.Get("/api/sessions/{sessionID}", s.handleGetSession)
	r.Get("/ws/{sessionID}", s.handleWS)
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	WSPath    string `json:"wsPath"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	sess, err := s.sessions.Create(r.Context(), claims.DisplayName)
	if err != nil {
		s.log.Error("create session", "player", claims.DisplayName, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.ID(),
		WSPath:    "/ws/" + sess.ID(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	sess, ok := s.lookup(w, r, claims.DisplayName)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	token := tokenFromRequest(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing token")
		return nil, false
	}
	claims, err := s.verifier.Verify(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
		return nil, false
	}
	return claims, true
}

// lookup resolves the {sessionID} path param and checks ownership.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, player string) (*Session, bool) {
	id, ok := sessionIDFromParam(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid session id")
		return nil, false
	}

	sess, found, err := s.sessions.GetOrLoad(r.Context(), id)
	if err != nil {
		s.log.Error("load session", "session", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "storage error")
		return nil, false
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "session not found")
		return nil, false
	}
	if sess.Player() != player {
		writeError(w, http.StatusForbidden, "forbidden", ErrNotOwner.Error())
		return nil, false
	}
	return sess, true
}

// tokenFromRequest reads a bearer header, falling back to ?token= since
// browsers cannot set headers on a WebSocket handshake.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func sessionIDFromParam(raw string) (string, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	// uuid.Parse also accepts urn and braced forms; only the canonical one routes
	if id.String() != raw {
		return "", false
	}
	return raw, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorPayload{Code: errCode, Message: msg})
}
