package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

type stubAuthRepo struct {
	users map[string]*domain.User // keyed by id
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAuthRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[tokenID] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func newTestAuthService() (*AuthService, *stubAuthRepo, *stubRevoker) {
	repo := newStubAuthRepo()
	revoker := newStubRevoker()
	return NewAuthService(repo, revoker, "secret", time.Hour), repo, revoker
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, _ := newTestAuthService()

	session, err := svc.Register(context.Background(), " Alice@Example.com ", "pass1234")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if session.Identity == nil || session.Identity.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", session.Identity)
	}
	if session.AccessToken == "" {
		t.Fatalf("expected access token")
	}

	stored := repo.users[session.Identity.ID]
	if stored == nil {
		t.Fatalf("user not stored under identity id")
	}
	if stored.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), "", "pass1234"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "not-an-email", "pass1234"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "123"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _ = svc.Register(context.Background(), "bob@example.com", "pass1234")
	if _, err := svc.Register(context.Background(), "bob@example.com", "pass5678"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	svc, _, _ := newTestAuthService()

	registered, err := svc.Register(context.Background(), "carol@example.com", "s3cret!!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, err := svc.Authenticate(context.Background(), "carol@example.com", "s3cret!!")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if session.Identity.ID != registered.Identity.ID {
		t.Fatalf("identity mismatch: %s vs %s", session.Identity.ID, registered.Identity.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(session.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != registered.Identity.ID {
		t.Fatalf("expected sub %s, got %v", registered.Identity.ID, claims["sub"])
	}
	if claims["email"] != "carol@example.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
	if claims["jti"] == "" || claims["jti"] == nil {
		t.Fatalf("expected jti claim")
	}
}

func TestAuthService_Authenticate_InvalidPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass")
	if _, err := svc.Authenticate(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_CurrentIdentity(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "erin@example.com", "pass1234")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	identity, err := svc.CurrentIdentity(ctx, session.AccessToken)
	if err != nil {
		t.Fatalf("current identity: %v", err)
	}
	if identity == nil || identity.ID != session.Identity.ID {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	for _, token := range []string{"", "garbage"} {
		identity, err := svc.CurrentIdentity(ctx, token)
		if err != nil || identity != nil {
			t.Fatalf("token %q: expected no session, got %+v, %v", token, identity, err)
		}
	}

	other := NewAuthService(newStubAuthRepo(), newStubRevoker(), "other-secret", time.Hour)
	if identity, _ := other.CurrentIdentity(ctx, session.AccessToken); identity != nil {
		t.Fatalf("token signed with another secret must not resolve")
	}
}

func TestAuthService_CurrentIdentity_Expired(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, newStubRevoker(), "secret", time.Hour)
	ctx := context.Background()

	session, err := svc.Register(ctx, "frank@example.com", "pass1234")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	claims := jwt.MapClaims{
		"sub":   session.Identity.ID,
		"email": session.Identity.Email,
		"jti":   "expired-token",
		"exp":   time.Now().Add(-time.Minute).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if identity, err := svc.CurrentIdentity(ctx, expired); err != nil || identity != nil {
		t.Fatalf("expected expired token to carry no session, got %+v, %v", identity, err)
	}
}

func TestAuthService_SignOut_RevokesToken(t *testing.T) {
	svc, _, revoker := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "gina@example.com", "pass1234")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.SignOut(ctx, session.AccessToken); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(revoker.revoked) != 1 {
		t.Fatalf("expected one revoked token, got %d", len(revoker.revoked))
	}

	identity, err := svc.CurrentIdentity(ctx, session.AccessToken)
	if err != nil || identity != nil {
		t.Fatalf("expected revoked token to carry no session, got %+v, %v", identity, err)
	}
}

func TestAuthService_SignOut_RevokerError(t *testing.T) {
	svc, _, revoker := newTestAuthService()
	ctx := context.Background()

	session, _ := svc.Register(ctx, "hank@example.com", "pass1234")
	revoker.err = errors.New("redis down")

	if err := svc.SignOut(ctx, session.AccessToken); err == nil {
		t.Fatalf("expected sign out error")
	}
	if _, err := svc.CurrentIdentity(ctx, session.AccessToken); err == nil {
		t.Fatalf("expected current identity to surface revoker error")
	}
}

func TestAuthService_DeleteIdentity(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	session, _ := svc.Register(ctx, "ivy@example.com", "pass1234")
	if err := svc.DeleteIdentity(ctx, session.Identity.ID); err != nil {
		t.Fatalf("delete identity: %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected identity removed")
	}
	if identity, _ := svc.CurrentIdentity(ctx, session.AccessToken); identity != nil {
		t.Fatalf("deleted identity must not resolve")
	}
}
