// Package repositories implements SQLite persistence for the client session store and the sandbox backend.
//
// Key Implementations:
//   - [KVRepository] : key-value pairs backing the client session
//   - [AccountRepository] : sandbox user accounts with email-based lookups
//   - [OTPRepository] : one outstanding recovery code per email
//   - [CredentialRepository] : per-user, per-provider credential payloads
//   - [PostRepository] : uploaded media records
//
// Accounts support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
// Sequence numbers provide stable, human-readable ordering (e.g., account #42, post #15) independent of UUIDs.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
