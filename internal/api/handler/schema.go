package handler

import "github.com/librarydesk/librarydesk/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

// Both JSON bodies and HTML form posts bind into these.
type registerRequest struct {
	Email     string `json:"email"      form:"email"      validate:"required,email"`
	Password  string `json:"password"   form:"password"   validate:"required,min=6"`
	FirstName string `json:"first_name" form:"first_name" validate:"required"`
	LastName  string `json:"last_name"  form:"last_name"  validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type authResponse struct {
	Token   string           `json:"token,omitempty"`
	User    *domain.Identity `json:"user"`
	Profile *domain.Profile  `json:"profile"`
}

type sessionResponse struct {
	User          *domain.Identity `json:"user"`
	Profile       *domain.Profile  `json:"profile"`
	Authenticated bool             `json:"authenticated"`
}

type profileResponse struct {
	Profile *domain.Profile `json:"profile"`
}

type booksResponse struct {
	Books []domain.Book `json:"books"`
	Count int           `json:"count"`
}

type usersResponse struct {
	Users []domain.Profile `json:"users"`
	Count int              `json:"count"`
}

func toSessionResponse(st domain.SessionState) sessionResponse {
	return sessionResponse{User: st.Identity, Profile: st.Profile, Authenticated: st.Authenticated()}
}
