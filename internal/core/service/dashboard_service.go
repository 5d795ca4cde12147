package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

// DashboardService runs the one-shot reads behind the dashboard pages.
type DashboardService struct {
	books    ports.BookRepository
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewDashboardService(books ports.BookRepository, profiles ports.ProfileRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{books: books, profiles: profiles, log: log}
}

// BookList fetches the whole books table.
func (s *DashboardService) BookList(ctx context.Context, sink ports.ErrorSink) (panel ports.BookPanel) {
	panel.Loading = true
	defer func() { panel.Loading = false }()

	books, err := s.books.List(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		panel.Books = []domain.Book{}
		panel.Failure = s.fail(sink, domain.QueryFailure, "load books", err)
		return panel
	}
	if books == nil {
		books = []domain.Book{}
	}
	panel.Books = books
	return panel
}

// ProfilePanel fetches the single profile row of identity. A nil identity
// yields an empty panel without querying.
func (s *DashboardService) ProfilePanel(ctx context.Context, identity *domain.Identity, sink ports.ErrorSink) (panel ports.ProfilePanel) {
	panel.Loading = true
	defer func() { panel.Loading = false }()

	if identity == nil {
		return panel
	}

	rows, err := s.profiles.Select(ctx, ports.ProfileFilter{ID: identity.ID})
	if err == nil {
		err = ctx.Err()
	}
	var profile *domain.Profile
	if err == nil {
		profile, err = singleProfile(rows)
	}
	if err != nil {
		panel.Failure = s.fail(sink, domain.ProfileLookupFailure, "load profile", err)
		return panel
	}
	panel.Profile = profile
	return panel
}

// Members fetches every profile row.
func (s *DashboardService) Members(ctx context.Context, sink ports.ErrorSink) (panel ports.MemberPanel) {
	panel.Loading = true
	defer func() { panel.Loading = false }()

	rows, err := s.profiles.Select(ctx, ports.ProfileFilter{})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		panel.Members = []domain.Profile{}
		panel.Failure = s.fail(sink, domain.QueryFailure, "load members", err)
		return panel
	}
	if rows == nil {
		rows = []domain.Profile{}
	}
	panel.Members = rows
	return panel
}

func (s *DashboardService) fail(sink ports.ErrorSink, kind domain.FailureKind, op string, err error) *domain.Failure {
	f := domain.NewFailure(kind, op, err)
	s.log.Error().Err(err).Str("op", op).Str("kind", string(kind)).Msg("dashboard fetch failed")
	if sink != nil {
		sink.Report(f)
	}
	return f
}
