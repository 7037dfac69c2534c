package services

import (
	"context"
	"net/http"

	"github.com/amsavalli07/socialsync/internal/models"
)

// SignUp registers an account.
func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn exchanges credentials for an access token and the profile fields.
//
// A 2xx body without access_token is reported as [ErrMissingToken].
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.SignInResult, error) {
	var out models.SignInResult
	req := models.SignInRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/signin", req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, ErrMissingToken
	}
	return &out, nil
}

// ForgotPassword asks the backend to email a one-time code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/forgotPass", models.EmailRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP checks the one-time code sent to email.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	req := models.VerifyOTPRequest{Email: email, OTP: otp}
	if err := c.doJSON(ctx, http.MethodPost, "/api/verify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password for email.
func (c *Client) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/resetPass", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the signed-in user's password. token is sent as a bearer token.
func (c *Client) ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.WithToken(token).doJSON(ctx, http.MethodPost, "/api/updatePass", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
