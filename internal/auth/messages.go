package auth

// Texts shown to the user.
const (
	MsgMissingSignIn        = "Please enter both email and password"
	MsgInvalidEmailSignIn   = "Please enter a valid email address"
	MsgLoginSuccess         = "Login successful"
	MsgLoginFailed          = "Login failed"
	MsgMissingField         = "Please fill in all fields"
	MsgInvalidEmail         = "Invalid email format"
	MsgPasswordTooShort     = "Password must be at least 6 characters"
	MsgPasswordsMismatch    = "Passwords do not match"
	MsgSignUpSuccess        = "Signup successful!"
	MsgSignUpFailed         = "Signup failed"
	MsgEmailTaken           = "This email is already registered. Please use another."
	MsgOTPSent              = "OTP sent successfully to your email"
	MsgOTPSendFailed        = "Failed to send OTP"
	MsgOTPVerified          = "OTP verified successfully"
	MsgOTPInvalid           = "Invalid OTP"
	MsgPasswordReset        = "Password reset successfully!"
	MsgPasswordResetFailed  = "Failed to reset password"
	MsgSessionPasswordReset = "Password reset successfully"
	MsgPasswordChanged      = "Password changed successfully"
	MsgChangeFailed         = "Failed to change password"
	MsgLoggedOut            = "Logged out successfully"
	MsgMissingToken         = "Invalid response structure: access_token missing"
	MsgNotSignedIn          = "Please sign in first"
	MsgInvalidAction        = "That action is not available here"
	MsgSessionFailed        = "Could not save your session"
)

// emailTakenMarker is matched case-insensitively against sign-up rejections.
const emailTakenMarker = "email is already registered"
