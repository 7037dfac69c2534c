package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amsavalli07/socialsync/internal/auth"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// AuthSignUp creates an account. The session is not signed in afterwards.
func (r *Runner) AuthSignUp(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.authController()
	if err != nil {
		return err
	}
	if err := ctrl.GoToSignUp(); err != nil {
		return err
	}

	var form auth.SignUpForm
	if form.Name, err = r.value(cmd, "name", "Name"); err != nil {
		return err
	}
	if form.Email, err = r.value(cmd, "email", "Email"); err != nil {
		return err
	}
	if form.Password, err = r.secret(cmd, "password", "Password"); err != nil {
		return err
	}
	if form.PasswordConfirm, err = r.secret(cmd, "confirm", "Confirm password"); err != nil {
		return err
	}

	if err := r.settle(ctrl.SubmitSignUp(ctx, form)); err != nil {
		return err
	}
	return r.writePlain("Run 'socialsync auth signin' to continue\n")
}

// AuthSignIn signs in and stores the session.
func (r *Runner) AuthSignIn(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.authController()
	if err != nil {
		return err
	}

	email, err := r.value(cmd, "email", "Email")
	if err != nil {
		return err
	}
	password, err := r.secret(cmd, "password", "Password")
	if err != nil {
		return err
	}

	return r.settle(ctrl.SubmitSignIn(ctx, email, password))
}

// AuthRecover walks the forgot-password flow: request a code, verify it, set a new password.
//
// A recovery started in an earlier run resumes at the code step.
func (r *Runner) AuthRecover(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.authController()
	if err != nil {
		return err
	}

	st := ctrl.Resume()
	email := cmd.String("email")
	if st.Kind == auth.OTPVerify && (email == "" || email == st.Email) {
		r.writePlain("Resuming recovery for %s\n", st.Email)
	} else {
		if st.Kind == auth.OTPVerify {
			r.logger.Info("restarting recovery", "previous", st.Email, "email", email)
			if err := r.sessions.ClearRecoveryEmail(); err != nil {
				return fmt.Errorf("%w: %w", shared.ErrSessionStore, err)
			}
			ctrl = auth.NewController(r.client, r.sessions, r.logger)
		}

		if email, err = r.value(cmd, "email", "Email"); err != nil {
			return err
		}
		if err := ctrl.GoToForgot(email); err != nil {
			return err
		}
		if err := r.settle(ctrl.SubmitForgot(ctx, email)); err != nil {
			return err
		}
	}

	otp, err := r.value(cmd, "otp", "One-time code")
	if err != nil {
		return err
	}
	if err := r.settle(ctrl.SubmitOTP(ctx, otp)); err != nil {
		return err
	}

	password, err := r.secret(cmd, "password", "New password")
	if err != nil {
		return err
	}
	confirm, err := r.secret(cmd, "confirm", "Confirm password")
	if err != nil {
		return err
	}
	return r.settle(ctrl.SubmitNewPassword(ctx, password, confirm))
}

// AuthPassword changes the signed-in account's password. With --reset the current password is not asked for.
func (r *Runner) AuthPassword(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.authController()
	if err != nil {
		return err
	}
	if !ctrl.Authenticated() {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, auth.MsgNotSignedIn)
	}

	var old string
	if !cmd.Bool("reset") {
		if old, err = r.secret(cmd, "old", "Current password"); err != nil {
			return err
		}
	}
	password, err := r.secret(cmd, "password", "New password")
	if err != nil {
		return err
	}
	confirm, err := r.secret(cmd, "confirm", "Confirm password")
	if err != nil {
		return err
	}

	if cmd.Bool("reset") {
		return r.settle(ctrl.ResetPassword(ctx, password, confirm))
	}
	return r.settle(ctrl.ChangePassword(ctx, old, password, confirm))
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.authController()
	if err != nil {
		return err
	}
	return r.settle(ctrl.Logout())
}

// AuthStatus prints the stored session without contacting the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.session()
	if err != nil {
		return err
	}

	s, ok, err := sessions.Load()
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrSessionStore, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"authenticated": ok,
			"email":         s.Email,
			"user_id":       s.UserID,
			"role":          s.Role,
			"verified":      s.Verified,
			"theme":         sessions.Theme(),
		}, true)
	}

	if !ok {
		r.writePlain("✗ Not signed in\n")
		if email, _ := sessions.RecoveryEmail(); email != "" {
			r.writePlain("Recovery in progress for %s\n", email)
		}
		return nil
	}

	r.writePlain("✓ Signed in as %s\n", s.Email)
	r.writePlain("User id:  %s\n", s.UserID)
	r.writePlain("Role:     %s\n", s.Role)
	r.writePlain("Verified: %t\n", s.Verified)
	return nil
}
