package notebook

import (
	"context"
	"errors"
	"fmt"

	"github.com/stolasapp/inotebook/internal/storage"
	"github.com/stolasapp/inotebook/internal/storage/db"
)

// NewAccount is the input to [Service.CreateAccount].
type NewAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Mobile    string
}

// Profile holds the account fields an owner may update. Email is not
// changeable; it must match the stored address to confirm the target account.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
	Mobile    string
}

// CreateAccount registers a new account and issues a token for it. An
// [ErrConflict] is returned, without creating anything, if the email is
// already registered.
func (s *Service) CreateAccount(ctx context.Context, req NewAccount) (Session, error) {
	email := normalizeEmail(req.Email)
	switch _, err := s.accounts.GetAccountByEmail(ctx, email); {
	case err == nil:
		return Session{}, fail(ErrConflict, "account already exists")
	case !errors.Is(err, storage.ErrNotFound):
		return Session{}, fmt.Errorf("failed to look up account by email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return Session{}, err
	}

	account, err := s.accounts.CreateAccount(ctx, db.Account{
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Mobile:       req.Mobile,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return Session{}, fail(ErrConflict, "account already exists")
	} else if err != nil {
		return Session{}, fmt.Errorf("failed to create account: %w", err)
	}

	return s.session(account)
}

// Login checks the password of the account registered with email and issues a
// token. An unknown email yields [ErrNotFound]; a wrong password yields
// [ErrUnauthorized] and no token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, fail(ErrNotFound, "account not found")
	} else if err != nil {
		return Session{}, fmt.Errorf("failed to look up account by email: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return Session{}, fail(ErrUnauthorized, "incorrect password")
	}
	return s.session(account)
}

// IssueToken issues a token for an existing account.
func (s *Service) IssueToken(ctx context.Context, accountID uint64) (Session, error) {
	account, err := s.ownAccount(ctx, accountID)
	if err != nil {
		return Session{}, err
	}
	return s.session(account)
}

// GetAccount returns the principal's own account.
func (s *Service) GetAccount(ctx context.Context, principal uint64) (db.Account, error) {
	return s.ownAccount(ctx, principal)
}

// UpdateAccount replaces the principal's names and mobile number. The email in
// profile must match the stored one, otherwise [ErrUnauthorized] is returned.
func (s *Service) UpdateAccount(ctx context.Context, principal uint64, profile Profile) (db.Account, error) {
	account, err := s.ownAccount(ctx, principal)
	if err != nil {
		return db.Account{}, err
	}
	if normalizeEmail(profile.Email) != account.Email {
		return db.Account{}, fail(ErrUnauthorized, "not your account")
	}

	account.FirstName = profile.FirstName
	account.LastName = profile.LastName
	account.Mobile = profile.Mobile
	updated, err := s.accounts.UpdateAccountProfile(ctx, account)
	if errors.Is(err, storage.ErrNotFound) {
		return db.Account{}, fail(ErrNotFound, "account does not exist")
	} else if err != nil {
		return db.Account{}, fmt.Errorf("failed to update account: %w", err)
	}
	return updated, nil
}

// ChangePassword rotates the principal's password after verifying current. A
// wrong current password returns [ErrUnauthorized] and leaves the stored hash
// untouched. Outstanding tokens remain valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, principal uint64, current, next string) error {
	account, err := s.ownAccount(ctx, principal)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, account.PasswordHash) {
		return fail(ErrUnauthorized, "incorrect password")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err = s.accounts.UpdateAccountPassword(ctx, account.ID, hash); errors.Is(err, storage.ErrNotFound) {
		return fail(ErrNotFound, "account does not exist")
	} else if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteAccount removes the account with the given ID, and all its notes, if
// it is the principal's own.
func (s *Service) DeleteAccount(ctx context.Context, principal, accountID uint64) error {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if errors.Is(err, storage.ErrNotFound) {
		return fail(ErrNotFound, "account does not exist")
	} else if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account.ID != principal {
		return fail(ErrUnauthorized, "cannot delete other account")
	}

	if err = s.accounts.DeleteAccount(ctx, account.ID); errors.Is(err, storage.ErrNotFound) {
		return fail(ErrNotFound, "account does not exist")
	} else if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (s *Service) ownAccount(ctx context.Context, principal uint64) (db.Account, error) {
	account, err := s.accounts.GetAccount(ctx, principal)
	if errors.Is(err, storage.ErrNotFound) {
		return db.Account{}, fail(ErrNotFound, "account does not exist")
	} else if err != nil {
		return db.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *Service) session(account db.Account) (Session, error) {
	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Account: account, Token: token}, nil
}
