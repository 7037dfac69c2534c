// Package models defines domain entities and persistence interfaces for the SocialSync posting assistant.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs mirroring the backend's JSON shapes
//   - [InstagramCredentials], [FacebookCredentials], [BothCredentials] : per-platform publishing credentials
//   - [SignInResult] : token and profile fields returned by sign-in
//   - [PostResponse] : media record and per-platform results of an upload
//
// 2. Persistent Entities: database-backed models owned by the sandbox backend
//   - [Account] : user accounts with password hashes and profile fields
//   - [Post] : uploaded media records
//
// All persistent entities implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access;
// append-only records use the narrower Log[T].
package models
