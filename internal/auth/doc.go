// Package auth provides account registration, credential verification, and
// bearer-token authentication for the HTTP API.
//
// Passwords are stored as bcrypt hashes. Access tokens are HS256 JWTs
// carrying the user id; the middleware verifies them without a store
// round-trip and places the owner id in the request context, from which
// every repository call takes its scoping.
package auth
