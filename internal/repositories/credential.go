package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/amsavalli07/socialsync/internal/models"
)

// CredentialRepository stores raw JSON credential payloads keyed by user and provider.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Get returns the payload stored for userID and provider.
func (r *CredentialRepository) Get(userID string, provider models.Provider) ([]byte, error) {
	var payload string
	err := r.db.QueryRow(
		"SELECT payload FROM platform_credentials WHERE user_id = ? AND platform = ?", userID, string(provider),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s credentials for %s", ErrNotFound, provider, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	return []byte(payload), nil
}

// Create stores a first payload; an existing record returns [ErrDuplicate].
func (r *CredentialRepository) Create(userID string, provider models.Provider, payload []byte) error {
	now := time.Now()
	query := `
		INSERT INTO platform_credentials (user_id, platform, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, platform) DO NOTHING
	`
	result, err := r.db.Exec(query, userID, string(provider), string(payload), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert credentials: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s credentials for %s", ErrDuplicate, provider, userID)
	}
	return nil
}

// Replace overwrites an existing payload; a missing record returns [ErrNotFound].
func (r *CredentialRepository) Replace(userID string, provider models.Provider, payload []byte) error {
	result, err := r.db.Exec(
		"UPDATE platform_credentials SET payload = ?, updated_at = ? WHERE user_id = ? AND platform = ?",
		string(payload), time.Now(), userID, string(provider),
	)
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	return affected(result, string(provider)+" credentials for", userID)
}

// Delete removes every credential record owned by userID.
func (r *CredentialRepository) Delete(userID string) error {
	if _, err := r.db.Exec("DELETE FROM platform_credentials WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
