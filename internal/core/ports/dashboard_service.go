package ports

import (
	"context"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

// BookPanel is the data behind the book list view.
type BookPanel struct {
	Books   []domain.Book
	Loading bool
	Failure *domain.Failure
}

// ProfilePanel is the data behind the profile card.
type ProfilePanel struct {
	Profile *domain.Profile
	Loading bool
	Failure *domain.Failure
}

// MemberPanel is the data behind the admin users page.
type MemberPanel struct {
	Members []domain.Profile
	Loading bool
	Failure *domain.Failure
}

// DashboardService issues the page-level reads of the dashboard. Failures are
// never returned; they are reported to sink and carried on the panel.
type DashboardService interface {
	BookList(ctx context.Context, sink ErrorSink) BookPanel
	ProfilePanel(ctx context.Context, identity *domain.Identity, sink ErrorSink) ProfilePanel
	Members(ctx context.Context, sink ErrorSink) MemberPanel
}
