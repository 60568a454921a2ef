// Package sec provides authentication and security primitives for the notebook
// API.
//
// # Authentication
//
// Clients authenticate with stateless HS256 bearer tokens carrying the account
// ID as their only claim. Tokens are issued on account creation and login and
// checked on every protected request by the [RequireToken] middleware. There is
// no server-side session and no revocation: a token stays valid until it
// expires, even across password changes.
//
// IMPORTANT: when no signing key is configured the [DevelopmentSigningKey] is
// used. It is only acceptable in dev mode.
//
// # Components
//
//   - [Hasher]: bcrypt password hashing and verification
//   - [Tokens]: token issuing and verification
//   - [RequireToken]: echo middleware rejecting unauthenticated requests
//   - [PrincipalFrom], [WithPrincipal]: context accessors for the principal ID
package sec
