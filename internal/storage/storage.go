// Package storage provides the state management for accounts and notes.
package storage

import (
	"context"

	"github.com/stolasapp/inotebook/internal/storage/db"
)

const (
	// ErrNotFound is returned when an account or note cannot be found.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned if a unique account field is already in use.
	ErrAlreadyExists Error = "already exists"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Accounts are the methods on a storage implementation that are responsible
// for accessing and modifying accounts.
type Accounts interface {
	// CountAccounts returns the number of registered accounts.
	CountAccounts(ctx context.Context) (int64, error)
	// GetAccount returns a single account with the specified ID. An
	// [ErrNotFound] is returned if the ID does not exist.
	GetAccount(ctx context.Context, accountID uint64) (db.Account, error)
	// GetAccountByEmail returns the account registered with email. An
	// [ErrNotFound] is returned if no account uses it.
	GetAccountByEmail(ctx context.Context, email string) (db.Account, error)
	// CreateAccount assigns an ID and timestamps to account and persists it.
	// An [ErrAlreadyExists] is returned if the email is already registered.
	CreateAccount(ctx context.Context, account db.Account) (db.Account, error)
	// UpdateAccountProfile replaces the names and mobile number of the account
	// with the same ID. An [ErrNotFound] is returned if it does not exist.
	UpdateAccountProfile(ctx context.Context, account db.Account) (db.Account, error)
	// UpdateAccountPassword replaces the password hash of an account. An
	// [ErrNotFound] is returned if it does not exist.
	UpdateAccountPassword(ctx context.Context, accountID uint64, hash []byte) error
	// DeleteAccount removes an account and all its notes. Note that this is a
	// hard delete; data is not recoverable. An [ErrNotFound] is returned if the
	// account does not exist.
	DeleteAccount(ctx context.Context, accountID uint64) error
}

// Notes are the methods on a storage implementation that are responsible for
// accessing and modifying notes. Every method that changes a note is scoped
// to an owning account.
type Notes interface {
	// ListNotes returns up to limit notes owned by accountID with an ID greater
	// than afterID, in ID order.
	ListNotes(ctx context.Context, accountID, afterID uint64, limit int32) ([]db.Note, error)
	// GetNote returns a single note regardless of owner. An [ErrNotFound] is
	// returned if the ID does not exist.
	GetNote(ctx context.Context, noteID uint64) (db.Note, error)
	// CreateNote assigns an ID and timestamps to note and persists it.
	CreateNote(ctx context.Context, note db.Note) (db.Note, error)
	// UpdateNote replaces the body of the note with the given ID if it is owned
	// by accountID. An [ErrNotFound] is returned if no such note exists.
	UpdateNote(ctx context.Context, accountID, noteID uint64, body string) (db.Note, error)
	// DeleteNote removes the note with the given ID if it is owned by
	// accountID. An [ErrNotFound] is returned if no such note exists.
	DeleteNote(ctx context.Context, accountID, noteID uint64) error
}

// Store is the combination interface for [Accounts] and [Notes].
type Store interface {
	Accounts
	Notes
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
