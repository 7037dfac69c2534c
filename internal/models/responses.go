package models

import "time"

// SignInResult is the body of a successful sign-in.
type SignInResult struct {
	AccessToken string `json:"access_token"`
	UserEmail   string `json:"user_email"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	Verified    bool   `json:"verified"`
	Message     string `json:"message,omitempty"`
}

// MessageResponse is the generic body of acknowledgement endpoints.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
}

// PostRequest is the upload body. Image is bare base64 without the data URI header.
type PostRequest struct {
	Caption string `json:"caption"`
	Image   string `json:"base64_image"`
}

// PostResponse is the body of a successful upload.
type PostResponse struct {
	Message string     `json:"message"`
	Data    PostResult `json:"data"`
}

// PostResult carries the hosted media record and per-platform results.
type PostResult struct {
	Caption    string               `json:"caption"`
	UploadedAt time.Time            `json:"uploaded_at"`
	Media      CloudinaryResponse   `json:"cloudinary_response"`
	Instagram  *SocialMediaResponse `json:"instagram_response,omitempty"`
	Facebook   *SocialMediaResponse `json:"facebook_response,omitempty"`
	Twitter    *SocialMediaResponse `json:"twitter_response,omitempty"`
	LinkedIn   *SocialMediaResponse `json:"linkedin_response,omitempty"`
}

// CloudinaryResponse describes the hosted copy of the uploaded image.
type CloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// SocialMediaResponse is one platform's publish result.
type SocialMediaResponse struct {
	ID     string `json:"id,omitempty"`
	PostID string `json:"post_id,omitempty"`
}

// Ref returns whichever identifier the platform reported.
func (r *SocialMediaResponse) Ref() string {
	if r == nil {
		return ""
	}
	if r.PostID != "" {
		return r.PostID
	}
	return r.ID
}

// Responses maps every platform to its result, nil when the backend omitted it.
func (r PostResult) Responses() map[Platform]*SocialMediaResponse {
	return map[Platform]*SocialMediaResponse{
		Instagram: r.Instagram,
		Facebook:  r.Facebook,
		Twitter:   r.Twitter,
		LinkedIn:  r.LinkedIn,
	}
}

// SignUpRequest is the body of /api/signup.
type SignUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// SignInRequest is the body of /api/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailRequest is the body of /api/forgotPass.
type EmailRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest is the body of /api/verify.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest is the body of /api/resetPass.
type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// ChangePasswordRequest is the body of /api/updatePass.
type ChangePasswordRequest struct {
	Email           string `json:"email"`
	OldPassword     string `json:"oldPassword"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}
