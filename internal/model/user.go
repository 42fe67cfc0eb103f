// Package model defines domain entities for the application.
package model

import "time"

// User represents an account that can own subscribers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated principal attached to a request by the
// identity middleware. Absent on anonymous requests.
type Identity struct {
	UserID      string
	DisplayName string
}

// Session is a server-side login session keyed by an opaque bearer token.
// Sessions live in Redis with a TTL; the token itself is never stored.
type Session struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
