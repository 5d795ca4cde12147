package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies a failed session or dashboard operation.
type FailureKind string

const (
	AuthenticationFailure FailureKind = "authentication"
	RegistrationFailure   FailureKind = "registration"
	ProfileLookupFailure  FailureKind = "profile_lookup"
	QueryFailure          FailureKind = "query"
	SignOutFailure        FailureKind = "sign_out"
)

// Failure is the error type returned (or reported) by session and dashboard
// operations. Err keeps the underlying cause for errors.Is.
type Failure struct {
	Kind FailureKind
	Op   string
	Err  error
}

func NewFailure(kind FailureKind, op string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Err: err}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s failure: %v", f.Op, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// KindOf returns the kind of the first Failure in err's chain, or "" when
// there is none.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}
