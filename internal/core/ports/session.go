package ports

import (
	"context"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

// ErrorSink receives failures that an operation handles itself instead of
// returning to its caller.
type ErrorSink interface {
	Report(f *domain.Failure)
}

// ErrorSinkFunc adapts a function to ErrorSink.
type ErrorSinkFunc func(f *domain.Failure)

func (fn ErrorSinkFunc) Report(f *domain.Failure) { fn(f) }

// Session is the per-client holder of "who is signed in". Implementations
// are single-writer: only their own actions change the published state.
type Session interface {
	State() domain.SessionState
	Token() string
	Subscribe(fn func(domain.SessionState)) (unsubscribe func())

	LoadCurrentUser(ctx context.Context) domain.SessionState
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, firstName, lastName string) error
	SignOut(ctx context.Context) error
}

// SessionFactory opens a Session for a client holding token (possibly empty).
type SessionFactory interface {
	Open(token string) Session
}
