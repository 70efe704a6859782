package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_PutGetOverwrite(t *testing.T) {
	s := NewKVStore(nil)

	require.NoError(t, s.Put(RoleAdmin, Record{Role: RoleAdmin, Token: "t1"}))
	require.NoError(t, s.Put(RoleAdmin, Record{Role: RoleAdmin, Token: "t2"}))

	rec, ok := s.Get(RoleAdmin)
	require.True(t, ok)
	assert.Equal(t, "t2", rec.Token)
	assert.Equal(t, []Role{RoleAdmin}, s.Roles())
}

func TestKVStore_InvalidRole(t *testing.T) {
	s := NewKVStore(nil)

	assert.ErrorIs(t, s.Put(Role("root"), Record{}), ErrInvalidRole)
	assert.ErrorIs(t, s.SetActiveRole(Role("root")), ErrInvalidRole)
}

func TestKVStore_RemoveAbsentIsNoop(t *testing.T) {
	s := NewKVStore(nil)

	s.Remove(RoleMentor)

	_, ok := s.Get(RoleMentor)
	assert.False(t, ok)
}

func TestKVStore_ActiveRolePointer(t *testing.T) {
	s := NewKVStore(nil)

	assert.Equal(t, RoleNone, s.ActiveRole())

	require.NoError(t, s.SetActiveRole(RoleStudent))
	assert.Equal(t, RoleStudent, s.ActiveRole())

	require.NoError(t, s.SetActiveRole(RoleNone))
	assert.Equal(t, RoleNone, s.ActiveRole())
}

func TestKVStore_RolesInsertionOrder(t *testing.T) {
	s := NewKVStore(nil)

	require.NoError(t, s.Put(RoleMentor, Record{Role: RoleMentor}))
	require.NoError(t, s.Put(RoleAdmin, Record{Role: RoleAdmin}))
	assert.Equal(t, []Role{RoleMentor, RoleAdmin}, s.Roles())

	// Overwrite keeps position, destroy/recreate moves to the end.
	require.NoError(t, s.Put(RoleMentor, Record{Role: RoleMentor, Token: "new"}))
	assert.Equal(t, []Role{RoleMentor, RoleAdmin}, s.Roles())

	s.Remove(RoleMentor)
	require.NoError(t, s.Put(RoleMentor, Record{Role: RoleMentor}))
	assert.Equal(t, []Role{RoleAdmin, RoleMentor}, s.Roles())
}

func TestKVStore_PersistedLayout(t *testing.T) {
	kv := NewMemoryStorage()
	s := NewKVStore(kv)

	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, s.Put(RoleStudent, Record{
		Role:      RoleStudent,
		Token:     "tok-S",
		UserID:    "3",
		SessionID: "01HZX0000000000000000000AA",
		CreatedAt: created,
	}))
	require.NoError(t, s.SetActiveRole(RoleStudent))

	raw, ok := kv.GetItem("auth_student")
	require.True(t, ok)
	assert.JSONEq(t, `{
		"role": "student",
		"token": "tok-S",
		"user_id": "3",
		"session_id": "01HZX0000000000000000000AA",
		"created_at": "2026-03-14T09:26:53Z"
	}`, raw)

	active, ok := kv.GetItem("active_role")
	require.True(t, ok)
	assert.Equal(t, "student", active)
}

func TestKVStore_CorruptEntryReadsAbsent(t *testing.T) {
	kv := NewMemoryStorage()
	kv.SetItem("auth_admin", "{not json")

	s := NewKVStore(kv)
	_, ok := s.Get(RoleAdmin)
	assert.False(t, ok)
}

func TestMemoryStorage_Order(t *testing.T) {
	kv := NewMemoryStorage()

	kv.SetItem("a", "1")
	kv.SetItem("b", "2")
	kv.SetItem("a", "3") // overwrite keeps position
	assert.Equal(t, []string{"a", "b"}, kv.Keys())

	kv.RemoveItem("a")
	kv.SetItem("a", "4")
	assert.Equal(t, []string{"b", "a"}, kv.Keys())

	v, ok := kv.GetItem("a")
	require.True(t, ok)
	assert.Equal(t, "4", v)
}
