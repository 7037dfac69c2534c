package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// OTPCode is an outstanding password recovery code.
type OTPCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
	Verified  bool
}

// Expired reports whether the code is past its expiry at now.
func (c OTPCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// OTPRepository keeps at most one code per email in otp_codes.
type OTPRepository struct {
	db *sql.DB
}

// NewOTPRepository creates a new [OTPRepository] with the given database connection
func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Issue stores code for email, replacing any previous code and its verified flag.
func (r *OTPRepository) Issue(email, code string, expiresAt time.Time) error {
	query := `
		INSERT INTO otp_codes (email, code, expires_at, verified) VALUES (?, ?, ?, 0)
		ON CONFLICT(email) DO UPDATE SET code = excluded.code, expires_at = excluded.expires_at, verified = 0
	`
	if _, err := r.db.Exec(query, email, code, expiresAt); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// Get returns the code issued for email.
func (r *OTPRepository) Get(email string) (*OTPCode, error) {
	c := OTPCode{Email: email}
	err := r.db.QueryRow(
		"SELECT code, expires_at, verified FROM otp_codes WHERE email = ?", email,
	).Scan(&c.Code, &c.ExpiresAt, &c.Verified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: otp for %s", ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query otp: %w", err)
	}
	return &c, nil
}

// MarkVerified flags the code for email as verified.
func (r *OTPRepository) MarkVerified(email string) error {
	result, err := r.db.Exec("UPDATE otp_codes SET verified = 1 WHERE email = ?", email)
	if err != nil {
		return fmt.Errorf("failed to verify otp: %w", err)
	}
	return affected(result, "otp", email)
}

// Delete removes the code for email. Missing codes are not an error.
func (r *OTPRepository) Delete(email string) error {
	if _, err := r.db.Exec("DELETE FROM otp_codes WHERE email = ?", email); err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	return nil
}
