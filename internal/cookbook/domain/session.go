package domain

import "time"

// Session is server-side state keyed by an opaque id carried in a cookie.
// Invariant: Authenticated implies UserID is set and refers to an existing user.
type Session struct {
	ID            string
	UserID        string // empty until the session authenticates
	Authenticated bool
	ErrorMessage  string // one-shot flash, cleared on first render
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
