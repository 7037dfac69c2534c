package models

import (
	"fmt"
	"time"

	"github.com/amsavalli07/socialsync/internal/shared"
)

// Account is a backend user record. Only the sandbox backend persists it.
type Account struct {
	id           string
	sequence     int
	name         string
	email        string
	passwordHash string
	role         string
	verified     bool
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewAccount creates an unsaved account with the default "user" role.
func NewAccount(sequence int, name, email, passwordHash string) *Account {
	now := time.Now()
	return &Account{
		sequence:     sequence,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         "user",
		createdAt:    now,
		updatedAt:    now,
	}
}

func (a *Account) ID() string { return a.id }
func (a *Account) Sequence() int { return a.sequence }
func (a *Account) Name() string { return a.name }
func (a *Account) Email() string { return a.email }
func (a *Account) PasswordHash() string { return a.passwordHash }
func (a *Account) Role() string { return a.role }
func (a *Account) Verified() bool { return a.verified }
func (a *Account) CreatedAt() time.Time { return a.createdAt }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }
func (a *Account) DeletedAt() *time.Time { return a.deletedAt }

func (a *Account) SetID(id string) { a.id = id }
func (a *Account) SetSequence(seq int) { a.sequence = seq }
func (a *Account) SetPasswordHash(hash string) { a.passwordHash = hash }
func (a *Account) SetRole(role string) { a.role = role }
func (a *Account) SetVerified(v bool) { a.verified = v }
func (a *Account) SetCreatedAt(t time.Time) { a.createdAt = t }
func (a *Account) SetUpdatedAt(t time.Time) { a.updatedAt = t }
func (a *Account) SetDeletedAt(t *time.Time) { a.deletedAt = t }

// Validate checks that the account can be stored.
func (a *Account) Validate() error {
	switch {
	case a.id == "":
		return fmt.Errorf("%w: account id", shared.ErrMissingArgument)
	case a.name == "":
		return fmt.Errorf("%w: account name", shared.ErrMissingArgument)
	case !shared.ValidEmail(a.email):
		return fmt.Errorf("%w: %q", shared.ErrInvalidEmail, a.email)
	case a.passwordHash == "":
		return fmt.Errorf("%w: password hash", shared.ErrMissingArgument)
	}
	return nil
}
