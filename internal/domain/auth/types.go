package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAuthor  Role = "author"
	RoleVisitor Role = "visitor"
)

// roleRank orders roles by privilege: visitor < author < admin.
func roleRank(r Role) (int, bool) {
	switch r {
	case RoleVisitor:
		return 0, true
	case RoleAuthor:
		return 1, true
	case RoleAdmin:
		return 2, true
	default:
		return 0, false
	}
}

// AtLeast reports whether r grants every capability of required.
// Unknown roles never satisfy any requirement.
func (r Role) AtLeast(required Role) bool {
	have, okHave := roleRank(r)
	want, okWant := roleRank(required)
	if !okHave || !okWant {
		return false
	}
	return have >= want
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleRank(r)
	return ok
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	SubjectID string // stable subject identifier (e.g., sub claim)
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Subject is the authenticated identity attached to a request or browsing
// session. A zero Role means the role facet has not resolved yet; identity
// and role load independently.
type Subject struct {
	ID    string
	Email string
	Role  Role
}

// RoleKnown reports whether the role facet has resolved.
func (s Subject) RoleKnown() bool { return s.Role != "" }

// IsAdmin reports whether the subject holds the admin role.
func (s Subject) IsAdmin() bool { return s.Role == RoleAdmin }

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Subject returns the subject snapshot carried by the session.
func (s Session) Subject() Subject {
	return Subject{ID: s.SubjectID, Email: s.Email, Role: s.Role}
}
