package domain

import "time"

// Identity is the authenticated principal issued by the auth side.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthSession is the result of a successful authenticate or register call.
type AuthSession struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    *Identity `json:"user"`
}
