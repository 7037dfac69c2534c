// Package credentials runs the per-platform setup and edit workflow for publishing credentials.
//
// The backend is the source of truth: a provider is configured iff its GET
// returns a non-empty payload. The [Manager] caches the last fetched [Status]
// of each provider and derives the form mode from it, so a provider is never
// in Setup and Edit mode at once.
package credentials

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/notify"
	"github.com/amsavalli07/socialsync/internal/session"
	"github.com/amsavalli07/socialsync/internal/shared"
)

const (
	MsgSaveFailed   = "Failed to save credentials. Please try again."
	MsgMissingField = "Please fill in all fields"
	MsgNotSignedIn  = "Please sign in first"
)

// API is the part of the gateway client the workflow calls.
type API interface {
	GetCredentials(ctx context.Context, p models.Provider, userID string) (models.Credentials, error)
	SaveCredentials(ctx context.Context, cred models.Credentials) error
	UpdateCredentials(ctx context.Context, cred models.Credentials) error
}

// Mode selects create (Setup) or replace (Edit) on save.
type Mode int

const (
	Setup Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "setup"
}

// Status is either NotConfigured or Configured with the fetched record.
type Status struct {
	record models.Credentials
}

// NotConfigured is the status of a provider without a usable record.
func NotConfigured() Status { return Status{} }

// Configured wraps a fetched record. Records that are not [models.Credentials.Configured] yield NotConfigured.
func Configured(record models.Credentials) Status {
	if record == nil || !record.Configured() {
		return Status{}
	}
	return Status{record: record}
}

// IsConfigured reports whether a record is present.
func (s Status) IsConfigured() bool { return s.record != nil }

// Record returns the configured record, or nil.
func (s Status) Record() models.Credentials { return s.record }

// Mode returns Edit for configured providers and Setup otherwise.
func (s Status) Mode() Mode {
	if s.IsConfigured() {
		return Edit
	}
	return Setup
}

func (s Status) String() string {
	if s.IsConfigured() {
		return "configured"
	}
	return "not configured"
}

// Manager fetches and saves credential records for the signed-in user.
type Manager struct {
	api      API
	sessions *session.Manager
	logger   *log.Logger

	mu       sync.Mutex
	owner    string
	statuses map[models.Provider]Status
}

// NewManager creates a [Manager]. Every provider starts NotConfigured until fetched.
func NewManager(api API, sessions *session.Manager, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		api:      api,
		sessions: sessions,
		logger:   logger.WithPrefix("credentials"),
		statuses: make(map[models.Provider]Status),
	}
}

// Fetch loads p's record for the session user. Failures are logged and yield NotConfigured.
func (m *Manager) Fetch(ctx context.Context, p models.Provider) Status {
	st, userID := m.fetch(ctx, p)

	m.mu.Lock()
	defer m.mu.Unlock()
	if userID != m.owner {
		clear(m.statuses)
		m.owner = userID
	}
	m.statuses[p] = st
	return st
}

func (m *Manager) fetch(ctx context.Context, p models.Provider) (Status, string) {
	s, err := m.sessions.Require()
	if err != nil {
		m.logger.Debug("skipping fetch", "provider", p, "error", err)
		return NotConfigured(), ""
	}

	record, err := m.api.GetCredentials(ctx, p, s.UserID)
	if err != nil {
		m.logger.Warn("failed to fetch credentials", "provider", p, "error", err)
		return NotConfigured(), s.UserID
	}
	return Configured(record), s.UserID
}

// Refresh fetches every provider, one request at a time.
func (m *Manager) Refresh(ctx context.Context) map[models.Provider]Status {
	out := make(map[models.Provider]Status, len(models.AllProviders()))
	for _, p := range models.AllProviders() {
		out[p] = m.Fetch(ctx, p)
	}
	return out
}

// Status returns the last fetched status of p. Statuses fetched for another
// user than the current session one read as NotConfigured.
func (m *Manager) Status(p models.Provider) Status {
	userID := ""
	if s, ok, err := m.sessions.Load(); err == nil && ok {
		userID = s.UserID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if userID == "" || userID != m.owner {
		return NotConfigured()
	}
	return m.statuses[p]
}

// Reset drops every cached status. Called on logout.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.statuses)
	m.owner = ""
}

// Mode returns the form mode derived from p's status.
func (m *Manager) Mode(p models.Provider) Mode {
	return m.Status(p).Mode()
}

// Form returns the initial form data for p: the configured record in Edit
// mode, or a blank record owned by the session user in Setup mode.
func (m *Manager) Form(p models.Provider) models.Credentials {
	if st := m.Status(p); st.IsConfigured() {
		return st.Record()
	}

	userID := ""
	if s, ok, err := m.sessions.Load(); err == nil && ok {
		userID = s.UserID
	}
	return models.BlankCredentials(p, userID)
}

// Save creates (Setup) or replaces (Edit) cred for the session user, then re-fetches the provider.
// A failed save leaves the cached status untouched.
func (m *Manager) Save(ctx context.Context, cred models.Credentials, mode Mode) notify.Notice {
	s, err := m.sessions.Require()
	if err != nil {
		return notify.Failed(MsgNotSignedIn, err)
	}

	cred = cred.Owned(s.UserID)
	if err := cred.Validate(); err != nil {
		return notify.Failed(MsgMissingField, err)
	}

	p := cred.Provider()
	if mode == Edit {
		err = m.api.UpdateCredentials(ctx, cred)
	} else {
		err = m.api.SaveCredentials(ctx, cred)
	}
	if err != nil {
		m.logger.Warn("failed to save credentials", "provider", p, "mode", mode, "error", err)
		return notify.Failed(MsgSaveFailed, fmt.Errorf("%w: %w", shared.ErrSaveFailed, err))
	}

	m.Fetch(ctx, p)
	m.logger.Info("credentials saved", "provider", p, "mode", mode)
	return notify.Succeeded(successMessage(p, mode))
}

func successMessage(p models.Provider, mode Mode) string {
	verb := "saved"
	if mode == Edit {
		verb = "updated"
	}
	return fmt.Sprintf("%s credentials %s successfully!", p.Label(), verb)
}
