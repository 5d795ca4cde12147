package domain

// SessionState is the published snapshot of who is signed in.
// The zero value is not the initial state; use NewSessionState.
type SessionState struct {
	Identity *Identity `json:"user"`
	Profile  *Profile  `json:"profile"`
	Loading  bool      `json:"is_loading"`
}

// NewSessionState returns the state a client starts with: nobody signed in,
// still loading.
func NewSessionState() SessionState {
	return SessionState{Loading: true}
}

// Authenticated reports whether an identity is present.
func (s SessionState) Authenticated() bool {
	return s.Identity != nil
}
