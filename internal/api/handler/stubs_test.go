package handler

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/librarydesk/internal/api/view"
	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

type stubSession struct {
	token string
	state domain.SessionState

	signInFn  func(ctx context.Context, email, password string) error
	signUpFn  func(ctx context.Context, email, password, firstName, lastName string) error
	signOutFn func(ctx context.Context) error
	// loaded is the state LoadCurrentUser publishes.
	loaded domain.SessionState
}

func (s *stubSession) State() domain.SessionState { return s.state }

func (s *stubSession) Token() string { return s.token }

func (s *stubSession) Subscribe(func(domain.SessionState)) func() { return func() {} }

func (s *stubSession) LoadCurrentUser(context.Context) domain.SessionState {
	s.state = s.loaded
	return s.state
}

func (s *stubSession) SignIn(ctx context.Context, email, password string) error {
	if err := s.signInFn(ctx, email, password); err != nil {
		return err
	}
	s.token = "issued-token"
	return nil
}

func (s *stubSession) SignUp(ctx context.Context, email, password, firstName, lastName string) error {
	return s.signUpFn(ctx, email, password, firstName, lastName)
}

func (s *stubSession) SignOut(ctx context.Context) error {
	if err := s.signOutFn(ctx); err != nil {
		return err
	}
	s.state = domain.SessionState{}
	return nil
}

// stubFactory always opens the same session and records the tokens it was
// asked for.
type stubFactory struct {
	session *stubSession
	opened  []string
}

func (f *stubFactory) Open(token string) ports.Session {
	f.opened = append(f.opened, token)
	if f.session.token == "" {
		f.session.token = token
	}
	return f.session
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

type stubDashboard struct {
	books    ports.BookPanel
	profile  ports.ProfilePanel
	members  ports.MemberPanel
	profiled *domain.Identity
}

func (d *stubDashboard) BookList(context.Context, ports.ErrorSink) ports.BookPanel { return d.books }

func (d *stubDashboard) ProfilePanel(_ context.Context, identity *domain.Identity, _ ports.ErrorSink) ports.ProfilePanel {
	d.profiled = identity
	return d.profile
}

func (d *stubDashboard) Members(context.Context, ports.ErrorSink) ports.MemberPanel { return d.members }

var (
	ada = &domain.Identity{ID: "u1", Email: "ada@example.com"}

	adaProfile = &domain.Profile{
		ID: "u1", FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Role: domain.RoleMember,
	}

	signedInState = domain.SessionState{Identity: ada, Profile: adaProfile}

	noopSink = ports.ErrorSinkFunc(func(*domain.Failure) {})
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.Renderer = view.NewRenderer()
	return e
}

// withSession returns a context carrying the values the Auth and Shell
// middleware set.
func withSession(e *echo.Echo, req *http.Request, store ports.Session) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	st := store.State()
	c.Set("session", store)
	c.Set("identity", st.Identity)
	if st.Profile != nil {
		c.Set("role", st.Profile.Role)
	}
	return c, rec
}
