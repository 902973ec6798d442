package domain

import "time"

// Session represents a cached authentication session stored in Redis.
// It carries the acting user plus request provenance captured at login.
type Session struct {
	ID        string    `json:"id"`
	User      Actor     `json:"user"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
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
