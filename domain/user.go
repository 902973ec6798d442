package domain

import "time"

// User represents a registered identity in the platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Super        bool      `json:"super"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the identity performing an operation. It is passed explicitly
// into every use case call; the engine never resolves it on its own.
type Actor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Super    bool   `json:"super"`
}

// Data extracts the Actor view of a user for token claims.
func (u *User) Data() Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Super:    u.Super,
	}
}
