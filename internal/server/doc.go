// Package server implements the sandbox backend: a local stand-in for the remote REST API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering
// and {name} path wildcards. Unmatched paths and methods reply with a JSON detail body.
//
// # Handlers
//
// Handler groups implement [Handler] and are mounted with [BasicRouter.Mount]:
//   - [AccountHandler]: sign-up, sign-in, forgot/verify/reset and bearer-protected password change
//   - [CredentialHandler]: get/save/edit for instagram, facebook and the combined record
//   - [PostHandler]: upload with a fabricated media record and per-platform results
//
// Passwords are stored as bcrypt hashes and access tokens are HS256 JWTs signed by [TokenIssuer].
// Recovery codes are logged at info level in place of email delivery.
//
// Errors use the {"detail": "..."} body shape of the remote API; acknowledgements use {"message": "..."}.
//
// # Middleware
//
// [RequestID] tags each request with a uuid, [Logging] writes one line per request,
// [Recover] converts panics to 500 replies and [RateLimit] applies a shared token bucket.
package server
