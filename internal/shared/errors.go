package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session and authentication errors
	ErrNotAuthenticated  = fmt.Errorf("not authenticated")
	ErrAuthFailed        = fmt.Errorf("authentication failed")
	ErrInvalidTransition = fmt.Errorf("invalid auth flow transition")
	ErrSessionStore      = fmt.Errorf("session store failure")

	// Workflow errors
	ErrPostInFlight  = fmt.Errorf("a post is already in progress")
	ErrNothingToPost = fmt.Errorf("draft is not postable")
	ErrSaveFailed    = fmt.Errorf("failed to save credentials")

	// Input validation errors
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrMissingArgument   = fmt.Errorf("%w: missing required argument", ErrInvalidInput)
	ErrInvalidArgument   = fmt.Errorf("%w: invalid argument", ErrInvalidInput)
	ErrInvalidEmail      = fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	ErrPasswordTooShort  = fmt.Errorf("%w: password too short", ErrInvalidInput)
	ErrPasswordsMismatch = fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	ErrUnknownPlatform   = fmt.Errorf("%w: unknown platform", ErrInvalidInput)
)
