package middleware

import (
	"context"
	"net/http"

	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

type stubSession struct {
	token string
	state domain.SessionState
	loads int
	// reject drops the token on load, as the store does for a token the
	// auth service no longer accepts.
	reject bool
}

func (s *stubSession) State() domain.SessionState { return s.state }

func (s *stubSession) Token() string { return s.token }

func (s *stubSession) Subscribe(func(domain.SessionState)) func() { return func() {} }

func (s *stubSession) SignIn(context.Context, string, string) error { return nil }

func (s *stubSession) SignUp(context.Context, string, string, string, string) error { return nil }

func (s *stubSession) SignOut(context.Context) error { return nil }

func (s *stubSession) LoadCurrentUser(context.Context) domain.SessionState {
	s.loads++
	if s.reject {
		s.token = ""
	}
	return s.state
}

// stubFactory hands out the session registered for a token, or an anonymous
// one.
type stubFactory struct {
	sessions map[string]*stubSession
	opened   []string
}

func (f *stubFactory) Open(token string) ports.Session {
	f.opened = append(f.opened, token)
	if s, ok := f.sessions[token]; ok {
		return s
	}
	return &stubSession{token: token, state: domain.SessionState{}, reject: true}
}

type stubCookies struct {
	token   string
	cleared bool
}

func (c *stubCookies) Token(*http.Request) string { return c.token }

func (c *stubCookies) Save(_ http.ResponseWriter, _ *http.Request, token string) error {
	c.token = token
	return nil
}

func (c *stubCookies) Clear(http.ResponseWriter, *http.Request) error {
	c.token = ""
	c.cleared = true
	return nil
}

func signedIn(token, role string) *stubSession {
	return &stubSession{
		token: token,
		state: domain.SessionState{
			Identity: &domain.Identity{ID: "u1", Email: "ada@example.com"},
			Profile: &domain.Profile{
				ID: "u1", FirstName: "Ada", LastName: "Lovelace",
				Email: "ada@example.com", Role: role,
			},
		},
	}
}

func newFactory(sessions ...*stubSession) *stubFactory {
	f := &stubFactory{sessions: map[string]*stubSession{}}
	for _, s := range sessions {
		f.sessions[s.token] = s
	}
	return f
}
