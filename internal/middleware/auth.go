package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maillist/maillist/internal/auth"
	"github.com/maillist/maillist/internal/model"
)

// Fixed messages for the authentication guards.
const (
	// MsgNotLoggedIn is returned on protected routes without a session.
	MsgNotLoggedIn = "User is not logged in"
	// MsgNotAuthorized is returned when the caller does not own the resource.
	MsgNotAuthorized = "User is not authorized"
)

// SessionResolver looks up a login session by token digest.
// Implemented by *cache.Cache.
type SessionResolver interface {
	GetSession(ctx context.Context, tokenDigest string) (*model.Session, error)
}

// IdentityConfig holds configuration for the identity middleware.
type IdentityConfig struct {
	Logger   *slog.Logger
	Sessions SessionResolver
}

// Identity returns middleware that resolves the bearer session token
// into an authenticated identity on the request context. Requests
// without a valid token proceed anonymously; route-level guards decide
// whether that is acceptable.
func Identity(cfg IdentityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" || !auth.ValidateTokenFormat(token) {
				next.ServeHTTP(w, r)
				return
			}

			session, err := cfg.Sessions.GetSession(r.Context(), auth.TokenDigest(token))
			if err != nil {
				// Session store failure: the request can still proceed
				// anonymously, protected routes will reject it.
				cfg.Logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), &model.Identity{
				UserID:      session.UserID,
				DisplayName: session.DisplayName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth returns middleware that rejects anonymous requests.
// Must be applied after Identity.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.IdentityFromContext(r.Context()) == nil {
				writeMessage(w, http.StatusUnauthorized, MsgNotLoggedIn)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken extracts the session token from the
// "Authorization: Bearer <token>" header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
