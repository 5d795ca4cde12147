package ports

import (
	"context"
	"time"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

// AuthRepository defines the interface for credential persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// TokenRevoker remembers access tokens that were signed out before expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
