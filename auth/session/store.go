package session

// ContextStorage models the string key-value storage of one browsing
// context (the shape of web sessionStorage). Implementations must be local
// to a single context; nothing here implies cross-context visibility.
type ContextStorage interface {
	// GetItem returns the value stored under key, if any.
	GetItem(key string) (string, bool)

	// SetItem inserts or overwrites the value under key.
	SetItem(key, value string)

	// RemoveItem deletes key if present; absent keys are a no-op.
	RemoveItem(key string)

	// Keys returns all live keys in insertion order.
	Keys() []string
}

// Store abstracts persistence of the per-role session table plus the
// active-role pointer. At most one record exists per role; putting a role
// that already has one overwrites it.
type Store interface {
	// Put inserts or overwrites the record for role.
	// Returns ErrInvalidRole when role is not recognized.
	Put(role Role, rec Record) error

	// Get returns the record for role, if any. Pure lookup.
	Get(role Role) (Record, bool)

	// Remove deletes the record for role; absent roles are a no-op.
	Remove(role Role)

	// SetActiveRole sets the active pointer; RoleNone clears it.
	SetActiveRole(role Role) error

	// ActiveRole returns the active pointer, RoleNone when unset.
	ActiveRole() Role

	// Roles returns the roles that currently have a live record, in
	// insertion order. The order is not stable across destroy/recreate
	// cycles.
	Roles() []Role
}
