package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the parameterized statements for accounts and notes. All
// statements use "?" placeholders, which both supported drivers accept.
type Queries struct {
	db DBTX
}

// New returns Queries executing against db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const accountColumns = `id, email, first_name, last_name, mobile, password_hash, create_time, update_time`

func scanAccount(row interface{ Scan(dest ...any) error }) (Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.FirstName,
		&a.LastName,
		&a.Mobile,
		&a.PasswordHash,
		&a.CreateTime,
		&a.UpdateTime,
	)
	return a, err
}

const getAccount = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

// GetAccount returns sql.ErrNoRows if id does not exist.
func (q *Queries) GetAccount(ctx context.Context, id uint64) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccount, id))
}

const getAccountByEmail = `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`

// GetAccountByEmail returns sql.ErrNoRows if no account uses email.
func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByEmail, email))
}

const countAccounts = `SELECT COUNT(*) FROM accounts`

func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countAccounts).Scan(&n)
	return n, err
}

const insertAccount = `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertAccount(ctx context.Context, a Account) error {
	_, err := q.db.ExecContext(ctx, insertAccount,
		a.ID,
		a.Email,
		a.FirstName,
		a.LastName,
		a.Mobile,
		a.PasswordHash,
		a.CreateTime,
		a.UpdateTime,
	)
	return err
}

const updateAccountProfile = `UPDATE accounts
SET first_name = ?, last_name = ?, mobile = ?, update_time = ?
WHERE id = ?`

// UpdateAccountProfileParams are the mutable profile fields of an account.
type UpdateAccountProfileParams struct {
	ID         uint64
	FirstName  string
	LastName   string
	Mobile     string
	UpdateTime time.Time
}

// UpdateAccountProfile returns the number of rows changed.
func (q *Queries) UpdateAccountProfile(ctx context.Context, arg UpdateAccountProfileParams) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updateAccountProfile,
		arg.FirstName,
		arg.LastName,
		arg.Mobile,
		arg.UpdateTime,
		arg.ID,
	))
}

const updateAccountPassword = `UPDATE accounts SET password_hash = ?, update_time = ? WHERE id = ?`

type UpdateAccountPasswordParams struct {
	ID           uint64
	PasswordHash []byte
	UpdateTime   time.Time
}

// UpdateAccountPassword returns the number of rows changed.
func (q *Queries) UpdateAccountPassword(ctx context.Context, arg UpdateAccountPasswordParams) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updateAccountPassword,
		arg.PasswordHash,
		arg.UpdateTime,
		arg.ID,
	))
}

const deleteAccount = `DELETE FROM accounts WHERE id = ?`

// DeleteAccount returns the number of rows removed. Notes owned by the account
// are removed by the foreign key cascade.
func (q *Queries) DeleteAccount(ctx context.Context, id uint64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, deleteAccount, id))
}

const noteColumns = `id, account_id, body, create_time, update_time`

func scanNote(row interface{ Scan(dest ...any) error }) (Note, error) {
	var n Note
	err := row.Scan(
		&n.ID,
		&n.AccountID,
		&n.Body,
		&n.CreateTime,
		&n.UpdateTime,
	)
	return n, err
}

const getNote = `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`

// GetNote returns sql.ErrNoRows if id does not exist.
func (q *Queries) GetNote(ctx context.Context, id uint64) (Note, error) {
	return scanNote(q.db.QueryRowContext(ctx, getNote, id))
}

const listNotes = `SELECT ` + noteColumns + ` FROM notes
WHERE account_id = ? AND id > ?
ORDER BY id
LIMIT ?`

// ListNotesParams selects a page of an account's notes, ordered by ID.
type ListNotesParams struct {
	AccountID uint64
	AfterID   uint64
	Limit     int64
}

func (q *Queries) ListNotes(ctx context.Context, arg ListNotesParams) (notes []Note, err error) {
	rows, err := q.db.QueryContext(ctx, listNotes, arg.AccountID, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); err == nil {
			err = closeErr
		}
	}()
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

const insertNote = `INSERT INTO notes (` + noteColumns + `) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertNote(ctx context.Context, n Note) error {
	_, err := q.db.ExecContext(ctx, insertNote,
		n.ID,
		n.AccountID,
		n.Body,
		n.CreateTime,
		n.UpdateTime,
	)
	return err
}

const updateNote = `UPDATE notes SET body = ?, update_time = ? WHERE id = ? AND account_id = ?`

// UpdateNoteParams identifies a note by ID and owner.
type UpdateNoteParams struct {
	ID         uint64
	AccountID  uint64
	Body       string
	UpdateTime time.Time
}

// UpdateNote only touches the note if it is owned by arg.AccountID. It returns
// the number of rows changed.
func (q *Queries) UpdateNote(ctx context.Context, arg UpdateNoteParams) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updateNote,
		arg.Body,
		arg.UpdateTime,
		arg.ID,
		arg.AccountID,
	))
}

const deleteNote = `DELETE FROM notes WHERE id = ? AND account_id = ?`

// DeleteNote only removes the note if it is owned by accountID. It returns the
// number of rows removed.
func (q *Queries) DeleteNote(ctx context.Context, id, accountID uint64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, deleteNote, id, accountID))
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
