// Package notebook implements the account and note operations behind the HTTP
// API.
//
// # Ownership
//
// Every operation on an existing record follows the same sequence:
//
//	load record → not found? → owned by principal? → mutate
//
// The ownership comparison always happens before the write, and writes to
// notes are additionally scoped to the owner in their WHERE clause, so a note
// deleted or reassigned between the check and the write is reported as not
// found rather than silently modified.
//
// Listing is scoped to the principal by the store query itself; nothing is
// filtered after an unrestricted fetch.
//
// # Errors
//
// Failures the caller should see are returned as [*Error] values wrapping one
// of [ErrNotFound], [ErrUnauthorized], or [ErrConflict]. Any other error is an
// internal failure and its text is not meant for clients.
package notebook

import (
	"strings"

	"github.com/stolasapp/inotebook/internal/storage"
	"github.com/stolasapp/inotebook/internal/storage/db"
)

// Kind classifies a failed operation.
type Kind string

// Failure kinds.
const (
	ErrNotFound     Kind = "not found"
	ErrUnauthorized Kind = "unauthorized"
	ErrConflict     Kind = "conflict"
)

// Error satisfies [error].
func (k Kind) Error() string { return string(k) }

// Error is a failed operation with a client-facing message. Use errors.Is
// with a [Kind] to classify it.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func fail(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// PasswordHasher produces and checks password digests.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(password string, digest []byte) bool
}

// TokenIssuer issues bearer tokens bound to an account ID.
type TokenIssuer interface {
	Issue(principalID uint64) (string, error)
}

// Service performs ownership-checked operations against the store.
type Service struct {
	accounts storage.Accounts
	notes    storage.Notes
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// New creates a Service.
func New(store storage.Store, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		accounts: store,
		notes:    store,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Session is an account together with a freshly issued bearer token.
type Session struct {
	Account db.Account
	Token   string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
