package storage

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/inotebook/internal/config"
	"github.com/stolasapp/inotebook/internal/storage/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	store, err := NewDB(t.Context(), config.Database{
		Driver: db.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "db.sqlite"),
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestAccount(t *testing.T, store *DB, email string) db.Account {
	t.Helper()
	account, err := store.CreateAccount(t.Context(), db.Account{
		Email:        email,
		FirstName:    "First",
		LastName:     "Last",
		Mobile:       "1234567890",
		PasswordHash: []byte("hash"),
	})
	require.NoError(t, err)
	return account
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := NewDB(t.Context(), config.Database{Driver: "oracle", DSN: "x"}, slog.New(slog.DiscardHandler))
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestDB(t *testing.T) {
	t.Parallel()

	store := newTestDB(t)

	// These operations are tested together since they depend on the number of
	// accounts in the system.
	t.Run("AccountCRUD", func(t *testing.T) {
		count, err := store.CountAccounts(t.Context())
		require.NoError(t, err)
		assert.Zero(t, count)

		account := newTestAccount(t, store, "crud@example.com")
		assert.NotZero(t, account.ID)
		assert.False(t, account.CreateTime.IsZero())

		count, err = store.CountAccounts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		actual, err := store.GetAccount(t.Context(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.Email, actual.Email)
		assert.Equal(t, account.PasswordHash, actual.PasswordHash)

		actual, err = store.GetAccountByEmail(t.Context(), account.Email)
		require.NoError(t, err)
		assert.Equal(t, account.ID, actual.ID)

		_, err = store.GetAccount(t.Context(), 0)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetAccountByEmail(t.Context(), "nobody@example.com")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = store.CreateAccount(t.Context(), db.Account{
			Email:        account.Email,
			PasswordHash: []byte("other"),
		})
		require.ErrorIs(t, err, ErrAlreadyExists)
		count, err = store.CountAccounts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		account.FirstName = "Changed"
		account.Mobile = "0987654321"
		updated, err := store.UpdateAccountProfile(t.Context(), account)
		require.NoError(t, err)
		assert.Equal(t, "Changed", updated.FirstName)
		assert.Equal(t, "0987654321", updated.Mobile)
		assert.Equal(t, account.Email, updated.Email)

		_, err = store.UpdateAccountProfile(t.Context(), db.Account{ID: 1})
		require.ErrorIs(t, err, ErrNotFound)

		err = store.UpdateAccountPassword(t.Context(), account.ID, []byte("new hash"))
		require.NoError(t, err)
		actual, err = store.GetAccount(t.Context(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("new hash"), actual.PasswordHash)

		err = store.UpdateAccountPassword(t.Context(), 1, []byte("x"))
		require.ErrorIs(t, err, ErrNotFound)

		err = store.DeleteAccount(t.Context(), account.ID)
		require.NoError(t, err)
		_, err = store.GetAccount(t.Context(), account.ID)
		require.ErrorIs(t, err, ErrNotFound)
		err = store.DeleteAccount(t.Context(), account.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NoteCRUD", func(t *testing.T) {
		owner := newTestAccount(t, store, "owner@example.com")
		other := newTestAccount(t, store, "other@example.com")

		note, err := store.CreateNote(t.Context(), db.Note{AccountID: owner.ID, Body: "buy milk"})
		require.NoError(t, err)
		assert.NotZero(t, note.ID)

		actual, err := store.GetNote(t.Context(), note.ID)
		require.NoError(t, err)
		assert.Equal(t, note.Body, actual.Body)
		assert.True(t, actual.OwnedBy(owner.ID))
		assert.False(t, actual.OwnedBy(other.ID))

		_, err = store.GetNote(t.Context(), 0)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = store.UpdateNote(t.Context(), other.ID, note.ID, "hijacked")
		require.ErrorIs(t, err, ErrNotFound)
		err = store.DeleteNote(t.Context(), other.ID, note.ID)
		require.ErrorIs(t, err, ErrNotFound)
		actual, err = store.GetNote(t.Context(), note.ID)
		require.NoError(t, err)
		assert.Equal(t, "buy milk", actual.Body)

		updated, err := store.UpdateNote(t.Context(), owner.ID, note.ID, "buy oat milk")
		require.NoError(t, err)
		assert.Equal(t, "buy oat milk", updated.Body)
		assert.Equal(t, owner.ID, updated.AccountID)

		err = store.DeleteNote(t.Context(), owner.ID, note.ID)
		require.NoError(t, err)
		_, err = store.GetNote(t.Context(), note.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListNotes", func(t *testing.T) {
		owner := newTestAccount(t, store, "lister@example.com")
		other := newTestAccount(t, store, "bystander@example.com")

		notes, err := store.ListNotes(t.Context(), owner.ID, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, notes)

		var ids []uint64
		for _, body := range []string{"one", "two", "three"} {
			note, err := store.CreateNote(t.Context(), db.Note{AccountID: owner.ID, Body: body})
			require.NoError(t, err)
			ids = append(ids, note.ID)
		}
		_, err = store.CreateNote(t.Context(), db.Note{AccountID: other.ID, Body: "not yours"})
		require.NoError(t, err)

		notes, err = store.ListNotes(t.Context(), owner.ID, 0, 10)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		for i, note := range notes {
			assert.Equal(t, ids[i], note.ID)
			assert.Equal(t, owner.ID, note.AccountID)
		}

		notes, err = store.ListNotes(t.Context(), owner.ID, 0, 2)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		notes, err = store.ListNotes(t.Context(), owner.ID, notes[1].ID, 2)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "three", notes[0].Body)
	})

	t.Run("DeleteAccountCascades", func(t *testing.T) {
		owner := newTestAccount(t, store, "cascade@example.com")
		note, err := store.CreateNote(t.Context(), db.Note{AccountID: owner.ID, Body: "gone soon"})
		require.NoError(t, err)

		require.NoError(t, store.DeleteAccount(t.Context(), owner.ID))
		_, err = store.GetNote(t.Context(), note.ID)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = store.CreateNote(t.Context(), db.Note{AccountID: owner.ID, Body: "orphan"})
		require.ErrorIs(t, err, ErrNotFound)
	})
}
