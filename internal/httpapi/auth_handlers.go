package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"example.com/mastermind/internal/leaderboard"
	"example.com/mastermind/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxNameLen     = 32
)

type UserRepository interface {
	Create(ctx context.Context, u store.User) error
	GetByEmail(ctx context.Context, email string) (store.User, error)
	GetByID(ctx context.Context, id string) (store.User, error)
}

type TokenSigner interface {
	Sign(userID, displayName string, ttl time.Duration) (string, error)
}

type AuthHandler struct {
	Users    UserRepository
	Board    leaderboard.Board
	Auth     TokenSigner
	TokenTTL time.Duration
	Log      *slog.Logger
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type MeResponse struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	DisplayName string             `json:"displayName"`
	CreatedAt   time.Time          `json:"createdAt"`
	Best        *leaderboard.Entry `json:"best,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "email, password and displayName are required")
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, "bad_request", "password must be at least 8 chars")
		return
	}
	if utf8.RuneCountInString(req.DisplayName) > maxNameLen || strings.ContainsAny(req.DisplayName, "\r\n") {
		writeError(w, http.StatusBadRequest, "bad_request", "displayName must be a single line of at most 32 chars")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log().Error("hash password", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to hash password")
		return
	}

	u := store.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
	}

	if err := h.Users.Create(r.Context(), u); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email_taken", "email already exists")
		case errors.Is(err, store.ErrNameTaken):
			writeError(w, http.StatusConflict, "name_taken", "display name already taken")
		default:
			h.log().Error("create user", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "failed to create user")
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}

	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			h.log().Error("load user", "err", err)
		}
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	token, err := h.Auth.Sign(u.ID, u.DisplayName, h.TokenTTL)
	if err != nil {
		h.log().Error("sign token", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing auth context")
		return
	}

	u, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "user not found")
		return
	}

	resp := MeResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}

	best, found, err := h.Board.Get(r.Context(), u.DisplayName)
	if err != nil {
		h.log().Error("load leaderboard entry", "player", u.DisplayName, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to load score")
		return
	}
	if found {
		resp.Best = &best
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) log() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}
