package auth

// Kind names a screen of the auth flow.
type Kind int

const (
	SignIn Kind = iota
	SignUp
	ForgotPassword
	OTPVerify
	NewPassword
)

func (k Kind) String() string {
	switch k {
	case SignUp:
		return "sign-up"
	case ForgotPassword:
		return "forgot-password"
	case OTPVerify:
		return "otp-verify"
	case NewPassword:
		return "new-password"
	default:
		return "sign-in"
	}
}

// State is the active screen. Email is carried by the recovery screens and
// pre-fills the forgot-password form.
type State struct {
	Kind  Kind
	Email string
}

func (s State) String() string {
	if s.Email == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + "(" + s.Email + ")"
}
