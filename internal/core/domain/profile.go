package domain

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Profile is a row of the users table, keyed by identity id.
// Role is a free-form tag; only RoleAdmin is given meaning by the dashboard.
type Profile struct {
	ID        string `json:"id"         bson:"_id"`
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name"  bson:"last_name"`
	Email     string `json:"email"      bson:"email"`
	Role      string `json:"role"       bson:"role"`
}

// FullName joins first and last name for display.
func (p *Profile) FullName() string {
	switch {
	case p == nil:
		return ""
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// IsAdmin reports whether the profile carries the admin role tag.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
