package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/maillist/maillist/internal/auth"
	"github.com/maillist/maillist/internal/handler/dto"
	"github.com/maillist/maillist/internal/model"
	"github.com/maillist/maillist/internal/repository"
)

// minPasswordLength is the minimum accepted password length on signup.
const minPasswordLength = 8

// UserStore is the account persistence boundary.
// Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionStore holds login sessions keyed by token digest.
// Implemented by *cache.Cache.
type SessionStore interface {
	SetSession(ctx context.Context, tokenDigest string, session *model.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, tokenDigest string) error
}

// AuthHandler handles account and session endpoints.
type AuthHandler struct {
	logger     *slog.Logger
	users      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger *slog.Logger, users UserStore, sessions SessionStore, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if req.Email == "" || req.DisplayName == "" {
		writeMessage(w, http.StatusBadRequest, "Email and display name are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			writeMessage(w, http.StatusBadRequest, "Email already in use")
			return
		}
		h.logger.Error("user creation failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	h.logger.Info("user_signed_up", "user_id", user.ID)

	h.issueSession(w, r, user)
}

// Signin handles POST /auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same message as a bad password to prevent enumeration
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error("user lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.logger.Info("user_signed_in", "user_id", user.ID)

	h.issueSession(w, r, user)
}

// Signout handles POST /auth/signout.
// Route-level RequireAuth guarantees a session token is present.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, "User is not logged in")
		return
	}

	if err := h.sessions.DeleteSession(r.Context(), auth.TokenDigest(token)); err != nil {
		h.logger.Error("session deletion failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

// issueSession creates a login session and writes the session response.
func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, user *model.User) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.logger.Error("token generation failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	session := &model.Session{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.sessions.SetSession(r.Context(), auth.TokenDigest(token), session, h.sessionTTL); err != nil {
		h.logger.Error("session store failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Token: token,
		User: dto.SessionUser{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	})
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
