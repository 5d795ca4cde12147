package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

// SessionStore holds the signed-in state of one client. Only its own actions
// write the state; readers take snapshots or subscribe to changes.
type SessionStore struct {
	auth     ports.IdentityProvider
	profiles ports.ProfileRepository
	sink     ports.ErrorSink
	log      zerolog.Logger

	mu        sync.Mutex
	token     string
	state     domain.SessionState
	observers []observer
	nextID    int
}

type observer struct {
	id int
	fn func(domain.SessionState)
}

// NewSessionStore returns a store for a client currently holding token.
// sink may be nil.
func NewSessionStore(auth ports.IdentityProvider, profiles ports.ProfileRepository, token string, sink ports.ErrorSink, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		auth:     auth,
		profiles: profiles,
		sink:     sink,
		log:      log,
		token:    token,
		state:    domain.NewSessionState(),
	}
}

func (s *SessionStore) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the access token the store currently holds, or "".
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn to be called with every published state, in
// subscription order.
func (s *SessionStore) Subscribe(fn func(domain.SessionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// LoadCurrentUser resolves the held token to an identity and its profile and
// publishes the result. It never fails: faults publish the signed-out state
// and go to the error sink. Safe to call repeatedly.
func (s *SessionStore) LoadCurrentUser(ctx context.Context) domain.SessionState {
	identity, profile, err := s.fetchCurrentUser(ctx, s.Token())

	if ctxErr := ctx.Err(); ctxErr != nil {
		// The caller is gone; keep what was there and only stop loading.
		s.report(domain.NewFailure(domain.ProfileLookupFailure, "load current user", ctxErr))
		return s.publish(func(st *domain.SessionState) {
			st.Loading = false
		})
	}

	if err != nil {
		s.report(domain.NewFailure(domain.ProfileLookupFailure, "load current user", err))
		return s.publish(func(st *domain.SessionState) {
			*st = domain.SessionState{}
		})
	}

	if identity == nil {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
	}

	return s.publish(func(st *domain.SessionState) {
		*st = domain.SessionState{Identity: identity, Profile: profile}
	})
}

func (s *SessionStore) fetchCurrentUser(ctx context.Context, token string) (*domain.Identity, *domain.Profile, error) {
	if token == "" {
		return nil, nil, nil
	}

	identity, err := s.auth.CurrentIdentity(ctx, token)
	if err != nil || identity == nil {
		return nil, nil, err
	}

	rows, err := s.profiles.Select(ctx, ports.ProfileFilter{ID: identity.ID})
	if err != nil {
		return nil, nil, fmt.Errorf("select profile %s: %w", identity.ID, err)
	}
	profile, err := singleProfile(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("select profile %s: %w", identity.ID, err)
	}
	return identity, profile, nil
}

// SignIn checks the credentials and keeps the issued token. The published
// state is not touched; callers refresh it with LoadCurrentUser.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	session, err := s.auth.Authenticate(ctx, email, password)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return domain.NewFailure(domain.AuthenticationFailure, "sign in", err)
	}

	s.mu.Lock()
	s.token = session.AccessToken
	s.mu.Unlock()

	s.log.Info().Str("user_id", session.Identity.ID).Msg("signed in")
	return nil
}

// SignUp registers an identity and writes its profile row. When the profile
// insert fails the identity is deleted again; if that also fails the identity
// is left orphaned and the returned failure wraps domain.ErrOrphanedIdentity.
// An identity without a profile row therefore only survives a failed rollback;
// it is not repaired on a later sign-in.
func (s *SessionStore) SignUp(ctx context.Context, email, password, firstName, lastName string) error {
	session, err := s.auth.Register(ctx, email, password)
	if err != nil {
		return domain.NewFailure(domain.RegistrationFailure, "sign up", err)
	}

	identity := session.Identity
	profile := &domain.Profile{
		ID:        identity.ID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     identity.Email,
		Role:      domain.RoleMember,
	}

	if err := s.profiles.Insert(ctx, profile); err != nil {
		if cerr := s.auth.DeleteIdentity(context.WithoutCancel(ctx), identity.ID); cerr != nil {
			s.log.Error().
				Err(cerr).
				AnErr("insert_error", err).
				Str("user_id", identity.ID).
				Str("email", identity.Email).
				Msg("identity orphaned: profile insert and rollback both failed")
			orphan := fmt.Errorf("%w: %s: %w", domain.ErrOrphanedIdentity, identity.ID, cerr)
			return domain.NewFailure(domain.RegistrationFailure, "sign up", errors.Join(err, orphan))
		}
		s.log.Warn().Err(err).Str("user_id", identity.ID).Msg("profile insert failed, identity rolled back")
		return domain.NewFailure(domain.RegistrationFailure, "sign up", err)
	}

	s.log.Info().Str("user_id", identity.ID).Msg("signed up")
	return nil
}

// SignOut ends the remote session and clears identity and profile. On
// failure the state is left as it was.
func (s *SessionStore) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx, s.Token()); err != nil {
		return domain.NewFailure(domain.SignOutFailure, "sign out", err)
	}

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	s.publish(func(st *domain.SessionState) {
		st.Identity = nil
		st.Profile = nil
	})
	return nil
}

// publish applies mutate under the lock and notifies observers outside it.
func (s *SessionStore) publish(mutate func(*domain.SessionState)) domain.SessionState {
	s.mu.Lock()
	mutate(&s.state)
	st := s.state
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(st)
	}
	return st
}

func (s *SessionStore) report(f *domain.Failure) {
	s.log.Warn().Err(f.Err).Str("op", f.Op).Str("kind", string(f.Kind)).Msg("session operation failed")
	if s.sink != nil {
		s.sink.Report(f)
	}
}

// singleProfile enforces the one-row expectation of a profile lookup by id.
func singleProfile(rows []domain.Profile) (*domain.Profile, error) {
	switch len(rows) {
	case 0:
		return nil, domain.ErrProfileNotFound
	case 1:
		p := rows[0]
		return &p, nil
	default:
		return nil, domain.ErrAmbiguousProfile
	}
}

// SessionStores opens one SessionStore per client.
type SessionStores struct {
	auth     ports.IdentityProvider
	profiles ports.ProfileRepository
	sink     ports.ErrorSink
	log      zerolog.Logger
}

func NewSessionStores(auth ports.IdentityProvider, profiles ports.ProfileRepository, sink ports.ErrorSink, log zerolog.Logger) *SessionStores {
	return &SessionStores{auth: auth, profiles: profiles, sink: sink, log: log}
}

func (f *SessionStores) Open(token string) ports.Session {
	return NewSessionStore(f.auth, f.profiles, token, f.sink, f.log)
}
