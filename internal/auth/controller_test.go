package auth

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amsavalli07/socialsync/internal/notify"
	"github.com/amsavalli07/socialsync/internal/services"
	"github.com/amsavalli07/socialsync/internal/session"
	"github.com/amsavalli07/socialsync/internal/shared"
	tu "github.com/amsavalli07/socialsync/internal/testing"
)

const signInOK = `{"access_token":"jwt-123","user_email":"ann@x.com","user_id":"u1","role":"user","verified":true}`

func setup(t *testing.T, routes map[string]tu.Route) (*Controller, *session.Manager, *tu.Backend) {
	t.Helper()
	backend := tu.NewBackend(t, routes)
	sessions := session.NewManager(session.NewMemoryStore())
	c := NewController(services.NewClient(backend.URL, nil), sessions, log.New(io.Discard))
	return c, sessions, backend
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the login response", func(t *testing.T) {
		c, sessions, backend := setup(t, map[string]tu.Route{"POST /api/signin": {Body: signInOK}})

		n := c.SubmitSignIn(ctx, " ann@x.com ", "secret1")
		require.True(t, n.OK(), n.Message)
		assert.Equal(t, MsgLoginSuccess, n.Message)

		s, ok, err := sessions.Load()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "jwt-123", s.Token)
		assert.Equal(t, "u1", s.UserID)
		assert.True(t, s.Verified)
		assert.True(t, c.Authenticated())
		assert.Equal(t, "ann@x.com", backend.Requests()[0].Body["email"])
	})

	t.Run("client validation issues no request", func(t *testing.T) {
		tc := []struct {
			name, email, password, want string
		}{
			{"missing password", "ann@x.com", "", MsgMissingSignIn},
			{"missing email", "", "secret1", MsgMissingSignIn},
			{"bad email", "ann@x", "secret1", MsgInvalidEmailSignIn},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				c, _, backend := setup(t, nil)
				n := c.SubmitSignIn(ctx, tt.email, tt.password)

				assert.Equal(t, tt.want, n.Message)
				assert.ErrorIs(t, n.Err, shared.ErrInvalidInput)
				assert.Empty(t, backend.Requests())
			})
		}
	})

	t.Run("server rejections", func(t *testing.T) {
		tc := []struct {
			name  string
			route tu.Route
			want  string
		}{
			{"message", tu.Route{Status: http.StatusUnauthorized, Body: `{"message":"Invalid credentials"}`}, "Invalid credentials"},
			{"detail", tu.Route{Status: http.StatusNotFound, Body: `{"detail":"User not found"}`}, "User not found"},
			{"bare status", tu.Route{Status: http.StatusBadGateway, Body: `{}`}, "Login failed (502)"},
			{"missing token", tu.Route{Body: `{"user_id":"u1"}`}, MsgMissingToken},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				c, sessions, _ := setup(t, map[string]tu.Route{"POST /api/signin": tt.route})
				n := c.SubmitSignIn(ctx, "ann@x.com", "secret1")

				assert.Equal(t, notify.Error, n.Level)
				assert.Equal(t, tt.want, n.Message)
				assert.False(t, sessions.Authenticated())
				assert.Equal(t, SignIn, c.State().Kind)
			})
		}
	})
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	valid := SignUpForm{Name: "Ann", Email: "ann@x.com", Password: "secret1", PasswordConfirm: "secret1"}

	t.Run("success returns to sign in", func(t *testing.T) {
		c, _, backend := setup(t, map[string]tu.Route{"POST /api/signup": {Status: http.StatusCreated, Body: `{}`}})
		require.NoError(t, c.GoToSignUp())

		n := c.SubmitSignUp(ctx, valid)
		assert.Equal(t, MsgSignUpSuccess, n.Message)
		assert.Equal(t, State{Kind: SignIn}, c.State())
		assert.Equal(t, 1, backend.Count("POST /api/signup"))
	})

	t.Run("client validation", func(t *testing.T) {
		mismatch := valid
		mismatch.PasswordConfirm = "secret2"
		short := valid
		short.Password, short.PasswordConfirm = "abc", "abc"
		badEmail := valid
		badEmail.Email = "ann"
		empty := valid
		empty.Name = " "

		tc := []struct {
			name string
			form SignUpForm
			want string
		}{
			{"mismatch", mismatch, MsgPasswordsMismatch},
			{"short", short, MsgPasswordTooShort},
			{"bad email", badEmail, MsgInvalidEmail},
			{"missing field", empty, MsgMissingField},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				c, _, backend := setup(t, nil)
				require.NoError(t, c.GoToSignUp())

				n := c.SubmitSignUp(ctx, tt.form)
				assert.Equal(t, tt.want, n.Message)
				assert.Equal(t, notify.Error, n.Level)
				assert.Empty(t, backend.Requests(), "validation failures must not reach the backend")
				assert.Equal(t, SignUp, c.State().Kind)
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		c, _, _ := setup(t, map[string]tu.Route{
			"POST /api/signup": {Status: http.StatusBadRequest, Body: `{"detail":"Email is already registered"}`},
		})
		require.NoError(t, c.GoToSignUp())

		n := c.SubmitSignUp(ctx, valid)
		assert.Equal(t, MsgEmailTaken, n.Message)
		assert.Equal(t, SignUp, c.State().Kind)
	})

	t.Run("detail wins over message", func(t *testing.T) {
		c, _, _ := setup(t, map[string]tu.Route{
			"POST /api/signup": {Status: http.StatusBadRequest, Body: `{"message":"m","detail":"d"}`},
		})
		require.NoError(t, c.GoToSignUp())
		assert.Equal(t, "d", c.SubmitSignUp(ctx, valid).Message)
	})
}

func TestRecovery(t *testing.T) {
	ctx := context.Background()

	t.Run("full flow", func(t *testing.T) {
		c, sessions, backend := setup(t, map[string]tu.Route{
			"POST /api/forgotPass": {Body: `{"message":"sent"}`},
			"POST /api/verify":     {Body: `{"message":"ok"}`},
			"POST /api/resetPass":  {Body: `{"message":"ok"}`},
		})

		require.NoError(t, c.GoToForgot("ann@x.com"))
		assert.Equal(t, State{Kind: ForgotPassword, Email: "ann@x.com"}, c.State())

		n := c.SubmitForgot(ctx, "ann@x.com")
		assert.Equal(t, MsgOTPSent, n.Message)
		assert.Equal(t, State{Kind: OTPVerify, Email: "ann@x.com"}, c.State())
		email, err := sessions.RecoveryEmail()
		require.NoError(t, err)
		assert.Equal(t, "ann@x.com", email)

		n = c.SubmitOTP(ctx, "123456")
		assert.Equal(t, MsgOTPVerified, n.Message)
		assert.Equal(t, State{Kind: NewPassword, Email: "ann@x.com"}, c.State())

		n = c.SubmitNewPassword(ctx, "n3wpass", "n3wpass")
		assert.Equal(t, MsgPasswordReset, n.Message)
		assert.Equal(t, State{Kind: SignIn}, c.State())

		email, _ = sessions.RecoveryEmail()
		assert.Empty(t, email, "recovery email is dropped after reset")

		reqs := backend.Requests()
		require.Len(t, reqs, 3)
		assert.Equal(t, "ann@x.com", reqs[1].Body["email"])
		assert.Equal(t, "123456", reqs[1].Body["otp"])
		assert.Equal(t, "n3wpass", reqs[2].Body["passwordConfirm"])
	})

	t.Run("rejected forgot keeps state and stores nothing", func(t *testing.T) {
		c, sessions, _ := setup(t, map[string]tu.Route{
			"POST /api/forgotPass": {Status: http.StatusNotFound, Body: `{"detail":"no such user"}`},
		})
		require.NoError(t, c.GoToForgot(""))

		n := c.SubmitForgot(ctx, "ann@x.com")
		assert.Equal(t, MsgOTPSendFailed, n.Message)
		assert.Equal(t, ForgotPassword, c.State().Kind)
		email, _ := sessions.RecoveryEmail()
		assert.Empty(t, email)
	})

	t.Run("wrong otp stays on otp screen", func(t *testing.T) {
		c, sessions, _ := setup(t, map[string]tu.Route{
			"POST /api/verify": {Status: http.StatusBadRequest, Body: `{}`},
		})
		require.NoError(t, sessions.SetRecoveryEmail("ann@x.com"))
		assert.Equal(t, OTPVerify, c.Resume().Kind)

		n := c.SubmitOTP(ctx, "000000")
		assert.Equal(t, MsgOTPInvalid, n.Message)
		assert.Equal(t, State{Kind: OTPVerify, Email: "ann@x.com"}, c.State())
	})

	t.Run("mismatched new password issues no request", func(t *testing.T) {
		c, sessions, backend := setup(t, map[string]tu.Route{"POST /api/verify": {Body: `{}`}})
		require.NoError(t, sessions.SetRecoveryEmail("ann@x.com"))
		c.Resume()
		require.True(t, c.SubmitOTP(ctx, "123456").OK())

		n := c.SubmitNewPassword(ctx, "abcdef", "abcdeg")
		assert.Equal(t, MsgPasswordsMismatch, n.Message)
		assert.Equal(t, NewPassword, c.State().Kind)
		assert.Equal(t, 0, backend.Count("POST /api/resetPass"))
	})
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	c, _, backend := setup(t, nil)

	n := c.SubmitOTP(ctx, "123456")
	assert.ErrorIs(t, n.Err, shared.ErrInvalidTransition)
	assert.ErrorIs(t, c.BackToSignIn(), shared.ErrInvalidTransition)

	require.NoError(t, c.GoToSignUp())
	assert.ErrorIs(t, c.GoToForgot("x"), shared.ErrInvalidTransition)
	assert.ErrorIs(t, c.SubmitSignIn(ctx, "ann@x.com", "pw").Err, shared.ErrInvalidTransition)
	assert.Equal(t, SignUp, c.State().Kind)

	require.NoError(t, c.BackToSignIn())
	assert.Empty(t, backend.Requests())
}

func TestAccountActions(t *testing.T) {
	ctx := context.Background()

	t.Run("change password requires a session", func(t *testing.T) {
		c, _, backend := setup(t, nil)
		n := c.ChangePassword(ctx, "old", "newpass", "newpass")
		assert.ErrorIs(t, n.Err, shared.ErrNotAuthenticated)
		assert.Empty(t, backend.Requests())
	})

	t.Run("change password sends bearer and session email", func(t *testing.T) {
		c, sessions, backend := setup(t, map[string]tu.Route{"POST /api/updatePass": {Body: `{}`}})
		require.NoError(t, sessions.Replace(session.Session{Token: "jwt", Email: "ann@x.com", UserID: "u1"}))

		n := c.ChangePassword(ctx, "old", "newpass", "newpass")
		assert.Equal(t, MsgPasswordChanged, n.Message)

		req := backend.Requests()[0]
		assert.Equal(t, "Bearer jwt", req.Header.Get("Authorization"))
		assert.Equal(t, "ann@x.com", req.Body["email"])
		assert.Equal(t, "old", req.Body["oldPassword"])
	})

	t.Run("change password failure uses message", func(t *testing.T) {
		c, sessions, _ := setup(t, map[string]tu.Route{
			"POST /api/updatePass": {Status: http.StatusBadRequest, Body: `{"message":"Old password is incorrect"}`},
		})
		require.NoError(t, sessions.Replace(session.Session{Token: "jwt", Email: "ann@x.com"}))

		assert.Equal(t, "Old password is incorrect", c.ChangePassword(ctx, "bad", "newpass", "newpass").Message)
		assert.Equal(t, MsgPasswordsMismatch, c.ChangePassword(ctx, "bad", "newpass", "other").Message)
	})

	t.Run("in-session reset", func(t *testing.T) {
		c, sessions, backend := setup(t, map[string]tu.Route{"POST /api/resetPass": {Body: `{}`}})
		require.NoError(t, sessions.Replace(session.Session{Token: "jwt", Email: "ann@x.com"}))

		n := c.ResetPassword(ctx, "newpass", "newpass")
		assert.Equal(t, MsgSessionPasswordReset, n.Message)
		assert.Equal(t, "ann@x.com", backend.Requests()[0].Body["email"])
	})

	t.Run("logout clears everything", func(t *testing.T) {
		c, sessions, _ := setup(t, nil)
		require.NoError(t, sessions.Replace(session.Session{Token: "jwt"}))
		require.NoError(t, sessions.SetTheme(session.ThemeDark))

		n := c.Logout()
		assert.Equal(t, MsgLoggedOut, n.Message)
		assert.False(t, c.Authenticated())
		assert.Equal(t, session.ThemeLight, sessions.Theme())
		assert.Equal(t, SignIn, c.State().Kind)
	})
}

func TestTransportFailures(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore())
	client := &http.Client{Transport: tu.NewMockRoundTripper(nil, io.ErrUnexpectedEOF)}
	c := NewController(services.NewClient("http://127.0.0.1:1", client), sessions, log.New(io.Discard))

	n := c.SubmitSignIn(context.Background(), "ann@x.com", "secret1")
	assert.Equal(t, services.NoResponseMessage, n.Message)
	assert.ErrorIs(t, n.Err, services.ErrNoResponse)
}
