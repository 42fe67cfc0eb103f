// Package auth provides password hashing, session tokens, and request
// identity plumbing for the subscriber API.
package auth

import (
	"context"

	"github.com/maillist/maillist/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for the authenticated Identity.
	identityContextKey contextKey = "identity"
)

// ContextWithIdentity attaches the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the authenticated identity from the context.
// Returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *model.Identity {
	id, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return id
}

// UserIDFromContext is a convenience accessor for the authenticated user ID.
// Returns empty string for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	id := IdentityFromContext(ctx)
	if id == nil {
		return ""
	}
	return id.UserID
}
