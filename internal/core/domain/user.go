package domain

import "time"

// User is the credential record owned by the auth side. It never leaves the
// service layer; callers see an Identity instead.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the public principal for u.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email}
}
