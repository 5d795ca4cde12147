package ports

import (
	"context"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

// ProfileFilter is an equality filter on the users table. Empty fields match
// everything.
type ProfileFilter struct {
	ID    string
	Email string
}

// ProfileRepository is the users table of the remote data service.
type ProfileRepository interface {
	// Select returns every row matching filter. Callers that expect a single
	// row must check the length themselves.
	Select(ctx context.Context, filter ProfileFilter) ([]domain.Profile, error)
	Insert(ctx context.Context, profile *domain.Profile) error
	// SetRole changes the role of the profile with the given id.
	SetRole(ctx context.Context, id, role string) error
}
