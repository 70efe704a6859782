package session

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Manager is the single entry point for identity state. All session
// mutation flows through it; other layers never touch the Store directly.
//
// Events are published after the corresponding mutation completes, so a
// listener reacting to an event always observes consistent state.
type Manager struct {
	log      *slog.Logger
	notifier *Notifier

	mu    sync.Mutex
	store Store

	// Flat single-token credentials used by the refresh flow. They live
	// outside the per-role table and act as the fallback when no role
	// resolves a token.
	accessToken  string
	refreshToken string
}

// NewManager constructs a Manager. A nil store gets an in-memory KVStore,
// a nil notifier gets a fresh one.
func NewManager(log *slog.Logger, store Store, notifier *Notifier) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if store == nil {
		store = NewKVStore(nil)
	}
	if notifier == nil {
		notifier = NewNotifier(log)
	}
	return &Manager{log: log, store: store, notifier: notifier}
}

// Login stores (or overwrites) the session for role, makes it active and
// publishes a login event. A blank sessionID gets a generated ULID.
// Idempotent per role: re-calling overwrites cleanly.
func (m *Manager) Login(role Role, token, userID, sessionID string) (Record, error) {
	if !role.Valid() {
		return Record{}, ErrInvalidRole
	}

	if sessionID == "" {
		id, err := newSessionID()
		if err != nil {
			return Record{}, err
		}
		sessionID = id
	}

	rec := Record{
		Role:      role,
		Token:     token,
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	err := m.store.Put(role, rec)
	if err == nil {
		err = m.store.SetActiveRole(role)
	}
	m.mu.Unlock()
	if err != nil {
		return Record{}, err
	}

	m.log.Info("auth.login", "role", string(role), "user_id", userID, "session_id", sessionID)
	m.notifier.Publish(Event{Type: EventLogin, Role: role, SessionID: sessionID})
	return rec, nil
}

// SwitchActiveRole makes role the active identity, reusing its stored
// token. It never re-authenticates; the previously stored record is
// republished so observers pick up the new default credential immediately.
func (m *Manager) SwitchActiveRole(role Role) (Record, error) {
	if !role.Valid() {
		return Record{}, ErrInvalidRole
	}

	m.mu.Lock()
	rec, ok := m.store.Get(role)
	if ok {
		_ = m.store.SetActiveRole(role)
	}
	m.mu.Unlock()
	if !ok {
		return Record{}, ErrNoSessionForRole
	}

	m.log.Info("auth.switch_role", "role", string(role), "session_id", rec.SessionID)
	m.notifier.Publish(Event{Type: EventLogin, Role: role, SessionID: rec.SessionID})
	return rec, nil
}

// Logout destroys the session for role, defaulting to the active role when
// RoleNone is given, and clears the active pointer if it referenced that
// role. Without a matching session it is a no-op.
func (m *Manager) Logout(role Role) error {
	if role != RoleNone && !role.Valid() {
		return ErrInvalidRole
	}

	m.mu.Lock()
	if role == RoleNone {
		role = m.store.ActiveRole()
	}
	if role == RoleNone {
		m.mu.Unlock()
		return nil
	}
	rec, ok := m.store.Get(role)
	if !ok {
		m.mu.Unlock()
		return nil
	}
	m.store.Remove(role)
	if m.store.ActiveRole() == role {
		_ = m.store.SetActiveRole(RoleNone)
	}
	m.mu.Unlock()

	m.log.Info("auth.logout", "role", string(role), "session_id", rec.SessionID)
	m.notifier.Publish(Event{Type: EventLogout, Role: role, SessionID: rec.SessionID})
	return nil
}

// LogoutAll destroys every session, clears the active pointer and drops
// both flat tokens.
func (m *Manager) LogoutAll() {
	m.mu.Lock()
	roles := m.store.Roles()
	for _, r := range roles {
		m.store.Remove(r)
	}
	_ = m.store.SetActiveRole(RoleNone)
	m.accessToken = ""
	m.refreshToken = ""
	m.mu.Unlock()

	m.log.Info("auth.logout_all", "sessions", len(roles))
	m.notifier.Publish(Event{Type: EventLogoutAll})
}

// CurrentRecord resolves role (RoleNone means the active role) to its
// stored session record.
func (m *Manager) CurrentRecord(role Role) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if role == RoleNone {
		role = m.store.ActiveRole()
	}
	if role == RoleNone {
		return Record{}, false
	}
	return m.store.Get(role)
}

// CurrentToken resolves role (RoleNone means the active role) to its
// stored token.
func (m *Manager) CurrentToken(role Role) (string, bool) {
	rec, ok := m.CurrentRecord(role)
	if !ok || rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

// BearerToken resolves the credential an outbound request should carry:
// the requested role's stored token, else the flat access token. ok is
// false when nothing is available and the request goes out unauthenticated.
func (m *Manager) BearerToken(role Role) (string, bool) {
	if tok, ok := m.CurrentToken(role); ok {
		return tok, true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accessToken != "" {
		return m.accessToken, true
	}
	return "", false
}

// IsAuthenticated reports whether an active role exists with a non-empty
// stored token.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.store.ActiveRole()
	if active == RoleNone {
		return false
	}
	rec, ok := m.store.Get(active)
	return ok && rec.Token != ""
}

// AvailableRoles lists roles with a live session in this context, in login
// order. It drives the role-switch UI.
func (m *Manager) AvailableRoles() []Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Roles()
}

// ActiveRole returns the active role, RoleNone when unset.
func (m *Manager) ActiveRole() Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.ActiveRole()
}

// Subscribe registers a listener for auth change events and returns the
// matching unsubscribe function.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	return m.notifier.Subscribe(fn)
}

// SetAccessToken replaces the flat access token. The refresh flow stores
// its result here, never in the per-role table.
func (m *Manager) SetAccessToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = token
}

// AccessToken returns the flat access token, empty when unset.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

// SetRefreshToken replaces the long-lived refresh credential.
func (m *Manager) SetRefreshToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshToken = token
}

// RefreshToken returns the refresh credential, empty when unset.
func (m *Manager) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken
}

// ClearTokens drops both flat tokens without touching the role table.
func (m *Manager) ClearTokens() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = ""
	m.refreshToken = ""
}

// newSessionID mints the identifier for a login event the server did not
// name: a 26-character ULID, so concurrent logins stay ordered in session
// logs.
func newSessionID() (string, error) {
	id, err := ulid.New(ulid.Now(), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
