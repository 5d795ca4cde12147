package ports

import (
	"context"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

// IdentityProvider is the authentication half of the remote data service.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (*domain.AuthSession, error)
	Register(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, token string) error
	// CurrentIdentity returns nil without error when token carries no live session.
	CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error)
	// DeleteIdentity removes a registered identity. Used to undo a registration
	// whose profile row could not be written.
	DeleteIdentity(ctx context.Context, id string) error
}
