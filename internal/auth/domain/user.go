package domain

import "time"

type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // argon2 encoded
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the per-request projection of a User resolved from a bearer
// token. It never carries the password hash.
type Identity struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Verified  bool
}

// Identity returns the safe projection of u.
func (u User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Verified:  u.Verified,
	}
}
