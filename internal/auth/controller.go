package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/notify"
	"github.com/amsavalli07/socialsync/internal/services"
	"github.com/amsavalli07/socialsync/internal/session"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// API is the part of the gateway client the auth flow calls.
type API interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.MessageResponse, error)
	SignIn(ctx context.Context, email, password string) (*models.SignInResult, error)
	ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error)
	VerifyOTP(ctx context.Context, email, otp string) (*models.MessageResponse, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error)
	ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) (*models.MessageResponse, error)
}

// SignUpForm is the input of the sign-up screen.
type SignUpForm struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// Controller owns the auth flow state and the session it produces.
type Controller struct {
	api      API
	sessions *session.Manager
	logger   *log.Logger

	mu    sync.Mutex
	state State
}

// NewController starts the flow at SignIn. A nil logger uses [log.Default].
func NewController(api API, sessions *session.Manager, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		api:      api,
		sessions: sessions,
		logger:   logger.WithPrefix("auth"),
		state:    State{Kind: SignIn},
	}
}

// State returns the active screen.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Authenticated reports whether a session token is stored.
func (c *Controller) Authenticated() bool {
	return c.sessions.Authenticated()
}

// Resume moves to OtpVerify when a recovery email from an earlier run is stored.
func (c *Controller) Resume() State {
	email, err := c.sessions.RecoveryEmail()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil && email != "" && c.state.Kind == SignIn {
		c.state = State{Kind: OTPVerify, Email: email}
	}
	return c.state
}

// GoToSignUp opens the sign-up screen.
func (c *Controller) GoToSignUp() error {
	return c.move(State{Kind: SignUp}, SignIn)
}

// GoToForgot opens the forgot-password screen pre-filled with email.
func (c *Controller) GoToForgot(email string) error {
	return c.move(State{Kind: ForgotPassword, Email: strings.TrimSpace(email)}, SignIn)
}

// BackToSignIn leaves the sign-up or forgot-password screen.
func (c *Controller) BackToSignIn() error {
	return c.move(State{Kind: SignIn}, SignUp, ForgotPassword)
}

// SubmitSignIn validates the form, signs in and persists the session.
func (c *Controller) SubmitSignIn(ctx context.Context, email, password string) notify.Notice {
	if _, err := c.expect(SignIn); err != nil {
		return invalid(err)
	}

	email = strings.TrimSpace(email)
	switch {
	case email == "" || password == "":
		return notify.Failed(MsgMissingSignIn, shared.ErrMissingArgument)
	case !shared.ValidEmail(email):
		return notify.Failed(MsgInvalidEmailSignIn, shared.ErrInvalidEmail)
	}

	res, err := c.api.SignIn(ctx, email, password)
	if err != nil {
		c.logger.Warn("sign in rejected", "email", email, "error", err)
		return notify.Failed(signInMessage(err), err)
	}

	s := session.Session{
		Token:    res.AccessToken,
		UserID:   res.UserID,
		Email:    res.UserEmail,
		Role:     res.Role,
		Verified: res.Verified,
	}
	if err := c.sessions.Replace(s); err != nil {
		c.logger.Error("failed to persist session", "error", err)
		return notify.Failed(MsgSessionFailed, err)
	}

	c.set(State{Kind: SignIn})
	c.logger.Info("signed in", "user_id", s.UserID)
	return notify.Succeeded(MsgLoginSuccess)
}

// SubmitSignUp validates the form and registers the account. Success returns to SignIn.
func (c *Controller) SubmitSignUp(ctx context.Context, form SignUpForm) notify.Notice {
	if _, err := c.expect(SignUp); err != nil {
		return invalid(err)
	}

	form.Name, form.Email = strings.TrimSpace(form.Name), strings.TrimSpace(form.Email)
	switch {
	case form.Name == "" || form.Email == "" || form.Password == "" || form.PasswordConfirm == "":
		return notify.Failed(MsgMissingField, shared.ErrMissingArgument)
	case !shared.ValidEmail(form.Email):
		return notify.Failed(MsgInvalidEmail, shared.ErrInvalidEmail)
	case len(form.Password) < shared.MinPasswordLength:
		return notify.Failed(MsgPasswordTooShort, shared.ErrPasswordTooShort)
	case form.Password != form.PasswordConfirm:
		return notify.Failed(MsgPasswordsMismatch, shared.ErrPasswordsMismatch)
	}

	_, err := c.api.SignUp(ctx, models.SignUpRequest{
		Name:            form.Name,
		Email:           form.Email,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
	})
	if err != nil {
		c.logger.Warn("sign up rejected", "email", form.Email, "error", err)
		return notify.Failed(signUpMessage(err), err)
	}

	c.transition(SignUp, State{Kind: SignIn})
	return notify.Succeeded(MsgSignUpSuccess)
}

// SubmitForgot requests a recovery code for email and stores it for the OTP step.
func (c *Controller) SubmitForgot(ctx context.Context, email string) notify.Notice {
	if _, err := c.expect(ForgotPassword); err != nil {
		return invalid(err)
	}

	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return notify.Failed(MsgMissingField, shared.ErrMissingArgument)
	case !shared.ValidEmail(email):
		return notify.Failed(MsgInvalidEmail, shared.ErrInvalidEmail)
	}

	if _, err := c.api.ForgotPassword(ctx, email); err != nil {
		c.logger.Warn("recovery request rejected", "email", email, "error", err)
		return notify.Failed(reason(err, MsgOTPSendFailed), err)
	}

	if err := c.sessions.SetRecoveryEmail(email); err != nil {
		c.logger.Error("failed to store recovery email", "error", err)
		return notify.Failed(MsgSessionFailed, err)
	}

	c.transition(ForgotPassword, State{Kind: OTPVerify, Email: email})
	return notify.Succeeded(MsgOTPSent)
}

// SubmitOTP verifies the code sent to the recovery email.
func (c *Controller) SubmitOTP(ctx context.Context, otp string) notify.Notice {
	st, err := c.expect(OTPVerify)
	if err != nil {
		return invalid(err)
	}

	otp = strings.TrimSpace(otp)
	if otp == "" {
		return notify.Failed(MsgMissingField, shared.ErrMissingArgument)
	}

	if _, err := c.api.VerifyOTP(ctx, st.Email, otp); err != nil {
		c.logger.Warn("otp rejected", "email", st.Email, "error", err)
		return notify.Failed(reason(err, MsgOTPInvalid), err)
	}

	c.transition(OTPVerify, State{Kind: NewPassword, Email: st.Email})
	return notify.Succeeded(MsgOTPVerified)
}

// SubmitNewPassword sets the recovered account's password and drops the recovery email.
func (c *Controller) SubmitNewPassword(ctx context.Context, password, confirm string) notify.Notice {
	st, err := c.expect(NewPassword)
	if err != nil {
		return invalid(err)
	}

	if n, ok := checkNewPassword(password, confirm); !ok {
		return n
	}

	_, err = c.api.ResetPassword(ctx, models.ResetPasswordRequest{
		Email:           st.Email,
		Password:        password,
		PasswordConfirm: confirm,
	})
	if err != nil {
		c.logger.Warn("password reset rejected", "email", st.Email, "error", err)
		return notify.Failed(reason(err, MsgPasswordResetFailed), err)
	}

	if err := c.sessions.ClearRecoveryEmail(); err != nil {
		c.logger.Warn("failed to drop recovery email", "error", err)
	}

	c.transition(NewPassword, State{Kind: SignIn})
	return notify.Succeeded(MsgPasswordReset)
}

// ChangePassword replaces the signed-in user's password after checking the old one server-side.
func (c *Controller) ChangePassword(ctx context.Context, oldPassword, password, confirm string) notify.Notice {
	s, err := c.sessions.Require()
	if err != nil {
		return notify.Failed(MsgNotSignedIn, err)
	}

	if oldPassword == "" {
		return notify.Failed(MsgMissingField, shared.ErrMissingArgument)
	}
	if n, ok := checkNewPassword(password, confirm); !ok {
		return n
	}

	_, err = c.api.ChangePassword(ctx, s.Token, models.ChangePasswordRequest{
		Email:           s.Email,
		OldPassword:     oldPassword,
		Password:        password,
		PasswordConfirm: confirm,
	})
	if err != nil {
		c.logger.Warn("password change rejected", "user_id", s.UserID, "error", err)
		return notify.Failed(reason(err, MsgChangeFailed), err)
	}
	return notify.Succeeded(MsgPasswordChanged)
}

// ResetPassword sets a new password for the signed-in user's email without the old one.
func (c *Controller) ResetPassword(ctx context.Context, password, confirm string) notify.Notice {
	s, err := c.sessions.Require()
	if err != nil {
		return notify.Failed(MsgNotSignedIn, err)
	}

	if n, ok := checkNewPassword(password, confirm); !ok {
		return n
	}

	_, err = c.api.ResetPassword(ctx, models.ResetPasswordRequest{
		Email:           s.Email,
		Password:        password,
		PasswordConfirm: confirm,
	})
	if err != nil {
		c.logger.Warn("in-session reset rejected", "user_id", s.UserID, "error", err)
		return notify.Failed(reason(err, MsgPasswordResetFailed), err)
	}
	return notify.Succeeded(MsgSessionPasswordReset)
}

// Logout clears the whole session store and returns to SignIn.
func (c *Controller) Logout() notify.Notice {
	if err := c.sessions.Clear(); err != nil {
		c.logger.Error("failed to clear session", "error", err)
		return notify.Failed(MsgSessionFailed, err)
	}
	c.set(State{Kind: SignIn})
	return notify.Succeeded(MsgLoggedOut)
}

func (c *Controller) expect(kinds ...Kind) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(kinds, c.state.Kind) {
		return c.state, fmt.Errorf("%w: not available from %s", shared.ErrInvalidTransition, c.state)
	}
	return c.state, nil
}

func (c *Controller) move(to State, from ...Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(from, c.state.Kind) {
		return fmt.Errorf("%w: %s to %s", shared.ErrInvalidTransition, c.state, to)
	}
	c.logger.Debug("transition", "from", c.state, "to", to)
	c.state = to
	return nil
}

// transition moves to `to` only when the flow is still at `from` once the request settles.
func (c *Controller) transition(from Kind, to State) {
	_ = c.move(to, from)
}

func (c *Controller) set(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func invalid(err error) notify.Notice {
	return notify.Failed(MsgInvalidAction, err)
}

func checkNewPassword(password, confirm string) (notify.Notice, bool) {
	switch {
	case password == "" || confirm == "":
		return notify.Failed(MsgMissingField, shared.ErrMissingArgument), false
	case password != confirm:
		return notify.Failed(MsgPasswordsMismatch, shared.ErrPasswordsMismatch), false
	}
	return notify.Notice{}, true
}

func signInMessage(err error) string {
	var apiErr *services.APIError
	switch {
	case errors.As(err, &apiErr):
		if text := apiErr.Text(); text != "" {
			return text
		}
		return fmt.Sprintf("%s (%d)", MsgLoginFailed, apiErr.Status)
	case errors.Is(err, services.ErrMissingToken):
		return MsgMissingToken
	}
	return services.Message(err, MsgLoginFailed)
}

func signUpMessage(err error) string {
	msg := MsgSignUpFailed
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		if text := apiErr.DetailFirst(); text != "" {
			msg = text
		}
	} else {
		msg = services.Message(err, MsgSignUpFailed)
	}

	if strings.Contains(strings.ToLower(msg), emailTakenMarker) {
		return MsgEmailTaken
	}
	return msg
}

// reason prefers the body's message field, then transport texts, then fallback.
func reason(err error, fallback string) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return services.Message(err, fallback)
}
