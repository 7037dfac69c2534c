// Package services is the API gateway client for the SocialSync backend.
//
// A [Client] owns the backend origin and funnels every request through one
// code path that encodes JSON bodies, attaches the bearer token where the
// endpoint requires it and normalizes failures.
//
// # Error Handling
//
// Every failure maps to one of four kinds:
//   - client validation : [shared.ErrInvalidInput] family, raised before any request
//   - transport : [ErrNoResponse] and [ErrTimeout]
//   - server rejected : [*APIError] carrying the status and the body's message or detail
//   - unexpected payload : [ErrUnexpectedResponse]
//
// [Message] turns any of them into the text shown to the user.
//
// # Raw Requests
//
// [Client.Get] and [Client.Post] return an [APIResponse] with the undecoded
// body for debugging the backend from the command line.
package services
