package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/maillist/maillist/internal/auth"
	"github.com/maillist/maillist/internal/handler/dto"
	"github.com/maillist/maillist/internal/middleware"
	"github.com/maillist/maillist/internal/model"
	"github.com/maillist/maillist/internal/service"
)

// SubscriberHandler handles HTTP requests for subscriber operations.
type SubscriberHandler struct {
	svc    *service.SubscriberService
	logger *slog.Logger
}

// NewSubscriberHandler creates a new SubscriberHandler.
func NewSubscriberHandler(svc *service.SubscriberService, logger *slog.Logger) *SubscriberHandler {
	return &SubscriberHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /subscribers.
// Anonymous callers are allowed; an authenticated identity becomes the
// permanent owner of the new subscriber.
func (h *SubscriberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubscriberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.svc.Create(r.Context(), service.CreateSubscriberInput{
		Email: req.Email,
		Owner: auth.IdentityFromContext(r.Context()),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("subscriber_created",
		"subscriber_id", sub.ID,
		"has_owner", sub.Owner != nil,
	)

	writeJSON(w, http.StatusOK, sub)
}

// Read handles GET /subscribers/{subscriberId}.
// The loader middleware has already resolved the subscriber.
func (h *SubscriberHandler) Read(w http.ResponseWriter, r *http.Request) {
	sub := middleware.SubscriberFromContext(r.Context())
	writeJSON(w, http.StatusOK, sub)
}

// List handles GET /subscribers.
// Returns all subscribers, newest first, each with its owner projection.
func (h *SubscriberHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if subs == nil {
		subs = []*model.Subscriber{}
	}

	writeJSON(w, http.StatusOK, subs)
}

// Update handles PUT /subscribers/{subscriberId}.
// Requires the authenticated owner; enforced by middleware.
func (h *SubscriberHandler) Update(w http.ResponseWriter, r *http.Request) {
	sub := middleware.SubscriberFromContext(r.Context())

	var req dto.UpdateSubscriberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), sub.ID, model.SubscriberPatch{
		Email: req.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("subscriber_updated", "subscriber_id", sub.ID)

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /subscribers/{subscriberId}.
// Responds with the deleted subscriber's prior representation.
func (h *SubscriberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sub := middleware.SubscriberFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), sub.ID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("subscriber_deleted", "subscriber_id", sub.ID)

	writeJSON(w, http.StatusOK, sub)
}

// handleServiceError maps service errors to the {message} envelope.
func (h *SubscriberHandler) handleServiceError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError

	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrSubscriberNotFound):
		writeMessage(w, http.StatusNotFound, "Subscriber not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
