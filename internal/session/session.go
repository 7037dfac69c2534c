// Package session owns the persisted sign-in state of the client.
//
// A [Manager] wraps an abstract [Store] and is passed explicitly to the
// components that read or write the session. The presence of a token is the
// only authentication signal; expiry is never checked client-side.
package session

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/amsavalli07/socialsync/internal/shared"
)

// Persisted keys.
const (
	KeyToken      = "token"
	KeyUserEmail  = "user_email"
	KeyUserID     = "user_id"
	KeyRole       = "role"
	KeyVerified   = "verified"
	KeyTheme      = "theme"
	KeyResetEmail = "resetEmail"
)

// Store is a persistent string key-value store.
// [repositories.KVRepository] and [MemoryStore] implement it.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// SetMany writes every pair or none of them.
	SetMany(values map[string]string) error
	Delete(key string) error
	Clear() error
}

// Session is the signed-in user's record.
type Session struct {
	Token    string
	UserID   string
	Email    string
	Role     string
	Verified bool
}

// Theme names a terminal palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: theme %q", shared.ErrInvalidArgument, s)
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// MemoryStore is an in-process [Store] used by tests and the --ephemeral flag.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) SetMany(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

// Manager reads and writes the session record through a [Store].
type Manager struct {
	store Store
}

// NewManager creates a [Manager] over store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Load returns the stored session. A missing token yields ok == false.
func (m *Manager) Load() (Session, bool, error) {
	token, ok, err := m.get(KeyToken)
	if err != nil || !ok || token == "" {
		return Session{}, false, err
	}

	s := Session{Token: token}
	fields := []struct {
		key string
		dst *string
	}{
		{KeyUserID, &s.UserID},
		{KeyUserEmail, &s.Email},
		{KeyRole, &s.Role},
	}
	for _, f := range fields {
		if *f.dst, _, err = m.get(f.key); err != nil {
			return Session{}, false, err
		}
	}

	verified, _, err := m.get(KeyVerified)
	if err != nil {
		return Session{}, false, err
	}
	s.Verified, _ = strconv.ParseBool(verified)

	return s, true, nil
}

// Replace writes every field of s in one batch, overwriting the previous record.
// A failed write leaves the previous record in place.
func (m *Manager) Replace(s Session) error {
	values := map[string]string{
		KeyToken:     s.Token,
		KeyUserEmail: s.Email,
		KeyUserID:    s.UserID,
		KeyRole:      s.Role,
		KeyVerified:  strconv.FormatBool(s.Verified),
	}
	if err := m.store.SetMany(values); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// Clear removes every key, theme and recovery email included.
func (m *Manager) Clear() error {
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// Authenticated reports whether a token is stored.
func (m *Manager) Authenticated() bool {
	token, ok, err := m.get(KeyToken)
	return err == nil && ok && token != ""
}

// Require returns the session or [shared.ErrNotAuthenticated].
func (m *Manager) Require() (Session, error) {
	s, ok, err := m.Load()
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, shared.ErrNotAuthenticated
	}
	return s, nil
}

// RecoveryEmail returns the email saved between the forgot-password and OTP steps.
func (m *Manager) RecoveryEmail() (string, error) {
	v, _, err := m.get(KeyResetEmail)
	return v, err
}

func (m *Manager) SetRecoveryEmail(email string) error { return m.set(KeyResetEmail, email) }

func (m *Manager) ClearRecoveryEmail() error {
	if err := m.store.Delete(KeyResetEmail); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// Theme returns the stored theme, light when unset or unreadable.
func (m *Manager) Theme() Theme {
	v, _, err := m.get(KeyTheme)
	if t, perr := ParseTheme(v); err == nil && perr == nil {
		return t
	}
	return ThemeLight
}

func (m *Manager) SetTheme(t Theme) error { return m.set(KeyTheme, string(t)) }

func (m *Manager) get(key string) (string, bool, error) {
	v, ok, err := m.store.Get(key)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	return v, ok, nil
}

func (m *Manager) set(key, value string) error {
	if err := m.store.Set(key, value); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	return nil
}
