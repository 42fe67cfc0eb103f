// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// OwnerRef is the minimal projection of the owning user attached to
// subscriber reads. Only the display name is resolved, never the full
// user record.
type OwnerRef struct {
	ID          string `json:"_id"`
	DisplayName string `json:"displayName"`
}

// Subscriber represents a mailing list subscriber.
// The owner binding is set once at creation and never reassigned.
type Subscriber struct {
	ID      string    `json:"_id"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
	Owner   *OwnerRef `json:"owner,omitempty"`
}

// Validate checks the subscriber's required fields before persistence.
func (s *Subscriber) Validate() error {
	if strings.TrimSpace(s.Email) == "" {
		return &ValidationError{Field: "email", Message: MsgEmailRequired}
	}
	return nil
}

// SubscriberPatch describes a partial update to a subscriber.
// Nil fields are left untouched by the store. Owner is deliberately
// absent: the binding is immutable after creation.
type SubscriberPatch struct {
	Email *string
}

// IsEmpty returns true if the patch changes nothing.
func (p *SubscriberPatch) IsEmpty() bool {
	return p.Email == nil
}

// Validate checks the fields present in the patch.
func (p *SubscriberPatch) Validate() error {
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return &ValidationError{Field: "email", Message: MsgEmailRequired}
	}
	return nil
}
