// Package dto provides Data Transfer Objects for API requests.
package dto

// CreateSubscriberRequest is the body for POST /subscribers.
// Only email is accepted; any other submitted fields are ignored.
type CreateSubscriberRequest struct {
	Email string `json:"email"`
}

// UpdateSubscriberRequest is the body for PUT /subscribers/{id}.
// Absent fields are left unchanged (field-wise merge).
type UpdateSubscriberRequest struct {
	Email *string `json:"email,omitempty"`
}

// MessageResponse is the uniform failure envelope.
type MessageResponse struct {
	Message string `json:"message"`
}
