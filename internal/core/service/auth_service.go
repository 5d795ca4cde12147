package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

const minPasswordLength = 6

// accessClaims is the payload of an access token. Subject holds the identity id.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService implements ports.IdentityProvider on top of a credential
// repository, bcrypt hashes and HS256 access tokens.
type AuthService struct {
	repo      ports.AuthRepository
	revoker   ports.TokenRevoker
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, revoker ports.TokenRevoker, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, revoker: revoker, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("register: email: %w", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("register: password shorter than %d characters: %w", minPasswordLength, domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(created)
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// SignOut revokes token until its expiry. Tokens that no longer parse have
// nothing left to revoke.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, ok := s.parse(token)
	if !ok {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (s *AuthService) CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	claims, ok := s.parse(token)
	if !ok {
		return nil, nil
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("current identity: %w", err)
	}
	if revoked {
		return nil, nil
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("current identity: %w", err)
	}
	return user.Identity(), nil
}

func (s *AuthService) DeleteIdentity(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *AuthService) issue(user *domain.User) (*domain.AuthSession, error) {
	now := time.Now()
	expires := now.Add(s.tokenTTL)
	claims := accessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &domain.AuthSession{
		AccessToken: signed,
		ExpiresAt:   expires.UTC(),
		Identity:    user.Identity(),
	}, nil
}

func (s *AuthService) parse(token string) (*accessClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := &accessClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, false
	}
	return claims, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
