package session

import (
	"encoding/json"
	"strings"
)

const (
	authKeyPrefix = "auth_"
	activeRoleKey = "active_role"
)

// KVStore persists the session table in a ContextStorage using one
// "auth_<role>" entry per live session (the JSON-serialized Record) plus a
// single "active_role" entry for the pointer.
type KVStore struct {
	kv ContextStorage
}

// NewKVStore constructs a KVStore over kv. A nil kv gets a fresh
// MemoryStorage.
func NewKVStore(kv ContextStorage) *KVStore {
	if kv == nil {
		kv = NewMemoryStorage()
	}
	return &KVStore{kv: kv}
}

// Put inserts or overwrites the record for role.
func (s *KVStore) Put(role Role, rec Record) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.kv.SetItem(authKeyPrefix+string(role), string(b))
	return nil
}

// Get returns the record for role, if any. A corrupt entry reads as absent.
func (s *KVStore) Get(role Role) (Record, bool) {
	raw, ok := s.kv.GetItem(authKeyPrefix + string(role))
	if !ok {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

// Remove deletes the record for role; absent roles are a no-op.
func (s *KVStore) Remove(role Role) {
	s.kv.RemoveItem(authKeyPrefix + string(role))
}

// SetActiveRole sets the active pointer; RoleNone clears it.
func (s *KVStore) SetActiveRole(role Role) error {
	if role == RoleNone {
		s.kv.RemoveItem(activeRoleKey)
		return nil
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	s.kv.SetItem(activeRoleKey, string(role))
	return nil
}

// ActiveRole returns the active pointer, RoleNone when unset.
func (s *KVStore) ActiveRole() Role {
	raw, ok := s.kv.GetItem(activeRoleKey)
	if !ok {
		return RoleNone
	}
	return Role(raw)
}

// Roles returns roles with a live record, in storage insertion order.
func (s *KVStore) Roles() []Role {
	var roles []Role
	for _, k := range s.kv.Keys() {
		if !strings.HasPrefix(k, authKeyPrefix) {
			continue
		}
		r := Role(strings.TrimPrefix(k, authKeyPrefix))
		if r.Valid() {
			roles = append(roles, r)
		}
	}
	return roles
}
