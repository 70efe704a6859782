package session

import "strings"

// Role identifies which portal identity a session belongs to.
type Role string

const (
	// RoleAdmin is a portal administrator session.
	RoleAdmin Role = "admin"
	// RoleMentor is a mentor session.
	RoleMentor Role = "mentor"
	// RoleStudent is a student (intern) session.
	RoleStudent Role = "student"

	// RoleNone selects "the active role" in APIs that take an optional role.
	RoleNone Role = ""
)

// KnownRoles lists every role the portal recognizes, in display order.
func KnownRoles() []Role {
	return []Role{RoleAdmin, RoleMentor, RoleStudent}
}

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMentor, RoleStudent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts a wire-format role string into a Role.
// Returns ErrInvalidRole for anything outside the recognized set.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return RoleNone, ErrInvalidRole
	}
	return r, nil
}
