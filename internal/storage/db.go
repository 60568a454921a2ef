package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/stolasapp/inotebook/internal/config"
	"github.com/stolasapp/inotebook/internal/storage/db"
)

// DB is a [Store] backed by a SQLite or MySQL database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries *db.Queries
}

// NewDB opens and migrates the database described by cfg.
func NewDB(ctx context.Context, cfg config.Database, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Driver != db.DriverSQLite && cfg.MaxOpenConns > 0 {
		handle.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: db.New(handle),
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// now truncates to the precision the MySQL schema keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// CountAccounts satisfies the [Accounts] interface.
func (d *DB) CountAccounts(ctx context.Context) (int64, error) {
	return d.queries.CountAccounts(ctx)
}

// GetAccount satisfies the [Accounts] interface.
func (d *DB) GetAccount(ctx context.Context, accountID uint64) (db.Account, error) {
	account, err := d.queries.GetAccount(ctx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return account, ErrNotFound
	}
	return account, err
}

// GetAccountByEmail satisfies the [Accounts] interface.
func (d *DB) GetAccountByEmail(ctx context.Context, email string) (db.Account, error) {
	account, err := d.queries.GetAccountByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return account, ErrNotFound
	}
	return account, err
}

// CreateAccount satisfies the [Accounts] interface.
func (d *DB) CreateAccount(ctx context.Context, account db.Account) (db.Account, error) {
	account.ID = d.ids.Next()
	account.CreateTime = now()
	account.UpdateTime = account.CreateTime
	switch err := d.queries.InsertAccount(ctx, account); {
	case db.IsUniqueViolation(err):
		return db.Account{}, ErrAlreadyExists
	case err != nil:
		return db.Account{}, err
	}
	return account, nil
}

// UpdateAccountProfile satisfies the [Accounts] interface.
func (d *DB) UpdateAccountProfile(ctx context.Context, account db.Account) (db.Account, error) {
	n, err := d.queries.UpdateAccountProfile(ctx, db.UpdateAccountProfileParams{
		ID:         account.ID,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
		Mobile:     account.Mobile,
		UpdateTime: now(),
	})
	if err != nil {
		return db.Account{}, err
	} else if n == 0 {
		return db.Account{}, ErrNotFound
	}
	return d.GetAccount(ctx, account.ID)
}

// UpdateAccountPassword satisfies the [Accounts] interface.
func (d *DB) UpdateAccountPassword(ctx context.Context, accountID uint64, hash []byte) error {
	n, err := d.queries.UpdateAccountPassword(ctx, db.UpdateAccountPasswordParams{
		ID:           accountID,
		PasswordHash: hash,
		UpdateTime:   now(),
	})
	if err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAccount satisfies the [Accounts] interface.
func (d *DB) DeleteAccount(ctx context.Context, accountID uint64) error {
	n, err := d.queries.DeleteAccount(ctx, accountID)
	if err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListNotes satisfies the [Notes] interface.
func (d *DB) ListNotes(ctx context.Context, accountID, afterID uint64, limit int32) ([]db.Note, error) {
	return d.queries.ListNotes(ctx, db.ListNotesParams{
		AccountID: accountID,
		AfterID:   afterID,
		Limit:     int64(limit),
	})
}

// GetNote satisfies the [Notes] interface.
func (d *DB) GetNote(ctx context.Context, noteID uint64) (db.Note, error) {
	note, err := d.queries.GetNote(ctx, noteID)
	if errors.Is(err, sql.ErrNoRows) {
		return note, ErrNotFound
	}
	return note, err
}

// CreateNote satisfies the [Notes] interface. It returns [ErrNotFound] if the
// owning account does not exist.
func (d *DB) CreateNote(ctx context.Context, note db.Note) (db.Note, error) {
	note.ID = d.ids.Next()
	note.CreateTime = now()
	note.UpdateTime = note.CreateTime
	if err := d.queries.InsertNote(ctx, note); db.IsForeignKeyViolation(err) {
		return db.Note{}, ErrNotFound
	} else if err != nil {
		return db.Note{}, err
	}
	return note, nil
}

// UpdateNote satisfies the [Notes] interface.
func (d *DB) UpdateNote(ctx context.Context, accountID, noteID uint64, body string) (db.Note, error) {
	n, err := d.queries.UpdateNote(ctx, db.UpdateNoteParams{
		ID:         noteID,
		AccountID:  accountID,
		Body:       body,
		UpdateTime: now(),
	})
	if err != nil {
		return db.Note{}, err
	} else if n == 0 {
		return db.Note{}, ErrNotFound
	}
	return d.GetNote(ctx, noteID)
}

// DeleteNote satisfies the [Notes] interface.
func (d *DB) DeleteNote(ctx context.Context, accountID, noteID uint64) error {
	n, err := d.queries.DeleteNote(ctx, noteID, accountID)
	if err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*DB)(nil)
