// Package cookie stores the access token of browser clients in a signed
// cookie.
package cookie

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	DefaultName = "librarydesk-session"
	tokenKey    = "access_token"
)

// Options configures the token cookie.
type Options struct {
	Name   string
	Secret []byte
	Secure bool
	MaxAge time.Duration
}

// TokenStore implements ports.TokenCookies with a gorilla cookie store.
type TokenStore struct {
	store *sessions.CookieStore
	name  string
}

// NewTokenStore builds a TokenStore. Without a secret a random one is
// generated, so cookies do not survive a restart.
func NewTokenStore(opts Options) *TokenStore {
	secret := opts.Secret
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	name := opts.Name
	if name == "" {
		name = DefaultName
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &TokenStore{store: store, name: name}
}

// Token returns the stored access token, or "" when the cookie is missing or
// fails verification.
func (s *TokenStore) Token(r *http.Request) string {
	session, err := s.store.Get(r, s.name)
	if err != nil {
		return ""
	}
	token, _ := session.Values[tokenKey].(string)
	return token
}

func (s *TokenStore) Save(w http.ResponseWriter, r *http.Request, token string) error {
	session, _ := s.store.Get(r, s.name)
	session.Values[tokenKey] = token
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save token cookie: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, s.name)
	delete(session.Values, tokenKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("clear token cookie: %w", err)
	}
	return nil
}
