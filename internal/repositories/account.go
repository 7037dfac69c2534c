package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/shared"
)

const accountColumns = "id, sequence, name, email, password_hash, role, verified, created_at, updated_at, deleted_at"

// AccountRepository implements [models.Repository] for [models.Account] persistence.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new [AccountRepository] with the given database connection
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account with generated ID and sequence.
//
// Emails are unique across live and deleted accounts; a duplicate returns [ErrDuplicate].
func (r *AccountRepository) Create(account *models.Account) error {
	account.SetID(shared.GenerateID())
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "accounts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	account.SetSequence(sequence)

	query := `
		INSERT INTO accounts (id, sequence, name, email, password_hash, role, verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		account.ID(), sequence, account.Name(), account.Email(), account.PasswordHash(),
		account.Role(), account.Verified(), account.CreatedAt(), account.UpdatedAt(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: accounts.email") {
			return fmt.Errorf("%w: email %s", ErrDuplicate, account.Email())
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// Get retrieves an account by ID, excluding soft-deleted accounts
func (r *AccountRepository) Get(id string) (*models.Account, error) {
	row := r.db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE id = ? AND deleted_at IS NULL", id)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, id)
	}
	return account, err
}

// GetByEmail retrieves a live account by email
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	row := r.db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE email = ? AND deleted_at IS NULL", email)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, email)
	}
	return account, err
}

// Update writes the mutable fields of an existing account
func (r *AccountRepository) Update(account *models.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	account.SetUpdatedAt(now)

	query := `
		UPDATE accounts
		SET password_hash = ?, role = ?, verified = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, account.PasswordHash(), account.Role(), account.Verified(), now, account.ID())
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return affected(result, "account", account.ID())
}

// Delete soft-deletes an account by ID
func (r *AccountRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE accounts SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return affected(result, "account", id)
}

// List retrieves all live accounts matching the given criteria ("email", "role").
func (r *AccountRepository) List(criteria map[string]any) ([]*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE deleted_at IS NULL"
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}
	if role, ok := criteria["role"].(string); ok && role != "" {
		query += " AND role = ?"
		args = append(args, role)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return accounts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	var (
		id, name, email, hash, role string
		sequence                    int
		verified                    bool
		createdAt, updatedAt        time.Time
		deletedAt                   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &name, &email, &hash, &role, &verified, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	account := models.NewAccount(sequence, name, email, hash)
	account.SetID(id)
	account.SetRole(role)
	account.SetVerified(verified)
	account.SetCreatedAt(createdAt)
	account.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		account.SetDeletedAt(&deletedAt.Time)
	}
	return account, nil
}
