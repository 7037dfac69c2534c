// Package auth drives the sign-in, sign-up and password recovery flow.
//
// The [Controller] is a state machine over five screens:
//
//	SignIn ──forgot──▶ ForgotPassword(email) ──accepted──▶ OtpVerify(email) ──accepted──▶ NewPassword(email) ──reset──▶ SignIn
//	SignIn ──sign up──▶ SignUp ──accepted──▶ SignIn
//
// Every event validates its input locally before calling the backend and
// returns exactly one [notify.Notice]. Events fired from the wrong state are
// rejected with [shared.ErrInvalidTransition] and leave the state unchanged.
// A successful sign-in exits the flow by persisting the session; the signed-in
// account actions (change password, reset password, logout) live on the same
// controller.
package auth
