package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maillist/maillist/internal/auth"
	"github.com/maillist/maillist/internal/model"
	"github.com/maillist/maillist/internal/service"
)

const (
	// subscriberContextKey is the context key for the resolved subscriber.
	subscriberContextKey contextKey = "subscriber"
)

// SubscriberLoader resolves a subscriber by identifier.
// Implemented by *service.SubscriberService.
type SubscriberLoader interface {
	Get(ctx context.Context, id string) (*model.Subscriber, error)
}

// SubscriberCtxConfig holds configuration for the subscriber loader middleware.
type SubscriberCtxConfig struct {
	Logger *slog.Logger
	Loader SubscriberLoader
}

// SubscriberCtx resolves the {subscriberId} URL parameter into a
// subscriber (with owner projection) attached to the request context.
// Downstream stages read it with SubscriberFromContext. An unknown
// identifier terminates the request with 404 carrying the identifier;
// store failures terminate with 500.
func SubscriberCtx(cfg SubscriberCtxConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "subscriberId")

			sub, err := cfg.Loader.Get(r.Context(), id)
			if err != nil {
				if errors.Is(err, service.ErrSubscriberNotFound) {
					writeMessage(w, http.StatusNotFound, "Failed to load subscriber "+id)
					return
				}

				cfg.Logger.Error("subscriber lookup failed",
					slog.String("subscriber_id", id),
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
				return
			}

			ctx := context.WithValue(r.Context(), subscriberContextKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubscriberFromContext retrieves the resolved subscriber from the context.
// Returns nil if the loader middleware has not run.
func SubscriberFromContext(ctx context.Context) *model.Subscriber {
	sub, ok := ctx.Value(subscriberContextKey).(*model.Subscriber)
	if !ok {
		return nil
	}
	return sub
}

// RequireSubscriberOwner returns middleware that allows the request only
// when the resolved subscriber is owned by the authenticated identity.
// A subscriber without an owner has no authorized editor, so the check
// fails for it unconditionally. Must be applied after SubscriberCtx and
// Identity.
func RequireSubscriberOwner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := SubscriberFromContext(r.Context())
			id := auth.IdentityFromContext(r.Context())

			if sub == nil || sub.Owner == nil || id == nil || sub.Owner.ID != id.UserID {
				writeMessage(w, http.StatusForbidden, MsgNotAuthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
