package server

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/repositories"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// Reply texts of the account endpoints.
const (
	DetailEmailTaken      = "Email is already registered"
	DetailInvalidLogin    = "Invalid email or password"
	DetailUserNotFound    = "User not found"
	DetailInvalidOTP      = "Invalid or expired OTP"
	DetailWrongPassword   = "Old password is incorrect"
	DetailNotAuthorized   = "Not authenticated"
	DetailForbidden       = "Token does not match the account"
	MessageSignedUp       = "User registered successfully"
	MessageSignedIn       = "Login successful"
	MessageOTPSent        = "OTP sent to your email"
	MessageOTPVerified    = "OTP verified successfully"
	MessagePasswordReset  = "Password reset successfully"
	MessagePasswordUpdate = "Password updated successfully"
)

// AccountHandler serves sign-up, sign-in, recovery and password change.
type AccountHandler struct {
	accounts   *repositories.AccountRepository
	otps       *repositories.OTPRepository
	tokens     *TokenIssuer
	otpTTL     time.Duration
	bcryptCost int
	logger     *log.Logger
	now        func() time.Time
}

// Routes implements [Handler].
func (h *AccountHandler) Routes() []Route {
	return []Route{
		{http.MethodPost, "/api/signup", h.signUp},
		{http.MethodPost, "/api/signin", h.signIn},
		{http.MethodPost, "/api/forgotPass", h.forgotPassword},
		{http.MethodPost, "/api/verify", h.verifyOTP},
		{http.MethodPost, "/api/resetPass", h.resetPassword},
		{http.MethodPost, "/api/updatePass", h.updatePassword},
	}
}

// checkPassword validates a new password and its confirmation. It returns "" when both are fine.
func checkPassword(password, confirm string) string {
	switch {
	case len(password) < shared.MinPasswordLength:
		return fmt.Sprintf("Password must be at least %d characters", shared.MinPasswordLength)
	case password != confirm:
		return "Passwords do not match"
	}
	return ""
}

func (h *AccountHandler) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

func (h *AccountHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	email := shared.NormalizeEmail(req.Email)
	switch {
	case name == "" || email == "" || req.Password == "":
		writeDetail(w, http.StatusBadRequest, "All fields are required")
		return
	case !shared.ValidEmail(email):
		writeDetail(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if msg := checkPassword(req.Password, req.PasswordConfirm); msg != "" {
		writeDetail(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := h.hash(req.Password)
	if err != nil {
		h.internal(w, err)
		return
	}

	account := models.NewAccount(0, name, email, hash)
	if err := h.accounts.Create(account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			writeDetail(w, http.StatusBadRequest, DetailEmailTaken)
			return
		}
		h.internal(w, err)
		return
	}

	h.logger.Info("account created", "id", account.ID(), "email", email)
	writeMessage(w, http.StatusCreated, MessageSignedUp)
}

func (h *AccountHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := h.accounts.GetByEmail(shared.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			writeDetail(w, http.StatusUnauthorized, DetailInvalidLogin)
			return
		}
		h.internal(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash()), []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, DetailInvalidLogin)
		return
	}

	token, err := h.tokens.Issue(account)
	if err != nil {
		h.internal(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SignInResult{
		AccessToken: token,
		UserEmail:   account.Email(),
		UserID:      account.ID(),
		Role:        account.Role(),
		Verified:    account.Verified(),
		Message:     MessageSignedIn,
	})
}

// generateOTP returns a random six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// forgotPassword issues a code. Codes are written to the log in place of email delivery.
func (h *AccountHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	email := shared.NormalizeEmail(req.Email)
	if _, err := h.accounts.GetByEmail(email); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, DetailUserNotFound)
			return
		}
		h.internal(w, err)
		return
	}

	code, err := generateOTP()
	if err != nil {
		h.internal(w, err)
		return
	}
	if err := h.otps.Issue(email, code, h.now().Add(h.otpTTL)); err != nil {
		h.internal(w, err)
		return
	}

	h.logger.Info("otp issued", "email", email, "code", code, "expires_in", h.otpTTL)
	writeMessage(w, http.StatusOK, MessageOTPSent)
}

func (h *AccountHandler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	email := shared.NormalizeEmail(req.Email)
	otp, err := h.otps.Get(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			writeDetail(w, http.StatusBadRequest, DetailInvalidOTP)
			return
		}
		h.internal(w, err)
		return
	}
	if otp.Expired(h.now()) || otp.Code != strings.TrimSpace(req.OTP) {
		writeDetail(w, http.StatusBadRequest, DetailInvalidOTP)
		return
	}

	if err := h.otps.MarkVerified(email); err != nil {
		h.internal(w, err)
		return
	}
	writeMessage(w, http.StatusOK, MessageOTPVerified)
}

// resetPassword sets a new password for an existing account and discards any pending code.
func (h *AccountHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := checkPassword(req.Password, req.PasswordConfirm); msg != "" {
		writeDetail(w, http.StatusBadRequest, msg)
		return
	}

	email := shared.NormalizeEmail(req.Email)
	if otp, err := h.otps.Get(email); err == nil && !otp.Verified {
		writeDetail(w, http.StatusBadRequest, DetailInvalidOTP)
		return
	}

	account, err := h.accounts.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, DetailUserNotFound)
			return
		}
		h.internal(w, err)
		return
	}

	if err := h.setPassword(account, req.Password); err != nil {
		h.internal(w, err)
		return
	}
	if err := h.otps.Delete(email); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		h.logger.Warn("failed to discard otp", "email", email, "error", err)
	}
	writeMessage(w, http.StatusOK, MessagePasswordReset)
}

func (h *AccountHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	raw, err := bearer(r)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, DetailNotAuthorized)
		return
	}
	claims, err := h.tokens.Parse(raw)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, DetailNotAuthorized)
		return
	}

	var req models.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if shared.NormalizeEmail(req.Email) != claims.Email {
		writeDetail(w, http.StatusForbidden, DetailForbidden)
		return
	}
	if msg := checkPassword(req.Password, req.PasswordConfirm); msg != "" {
		writeDetail(w, http.StatusBadRequest, msg)
		return
	}

	account, err := h.accounts.Get(claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, DetailUserNotFound)
			return
		}
		h.internal(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash()), []byte(req.OldPassword)) != nil {
		writeDetail(w, http.StatusBadRequest, DetailWrongPassword)
		return
	}

	if err := h.setPassword(account, req.Password); err != nil {
		h.internal(w, err)
		return
	}
	writeMessage(w, http.StatusOK, MessagePasswordUpdate)
}

func (h *AccountHandler) setPassword(account *models.Account, password string) error {
	hash, err := h.hash(password)
	if err != nil {
		return err
	}
	account.SetPasswordHash(hash)
	return h.accounts.Update(account)
}

func (h *AccountHandler) internal(w http.ResponseWriter, err error) {
	h.logger.Error("account handler failed", "error", err)
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
