package domain

import "time"

// Session is the persisted form of a login: the bearer token and its expiry.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// SessionState describes how far session restoration has progressed.
type SessionState int

const (
	// SessionUnresolved means persisted storage has not been inspected yet.
	// Callers must not treat it as logged out.
	SessionUnresolved SessionState = iota
	SessionAnonymous
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}
