package types

import "github.com/google/uuid"

// Role is a user's authorization level.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Principal is the authenticated identity supplied by the HTTP boundary.
// Services receive it explicitly; nothing below the handlers reads auth
// state from anywhere else.
type Principal struct {
	ID       uuid.UUID
	Username string
	Role     Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// RequireAdmin is the single authorization predicate used by every
// admin-only operation (approve, reject, user management, categories).
func RequireAdmin(p Principal) error {
	if !p.IsAdmin() {
		return NewForbiddenError("admin privileges required")
	}
	return nil
}
