package devseed

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/inotebook/internal/config"
	"github.com/stolasapp/inotebook/internal/notebook"
	"github.com/stolasapp/inotebook/internal/sec"
	"github.com/stolasapp/inotebook/internal/storage"
	"github.com/stolasapp/inotebook/internal/storage/db"
)

func TestPopulate(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)
	store, err := storage.NewDB(t.Context(), config.Database{
		Driver: db.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "db.sqlite"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hasher, err := sec.NewHasher(sec.MinimumCost)
	require.NoError(t, err)
	svc := notebook.New(store, hasher, sec.NewTokens([]byte("devseed"), time.Hour))

	created, err := Populate(t.Context(), logger, store, svc, 42)
	require.NoError(t, err)
	assert.True(t, created)

	count, err := store.CountAccounts(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(numAccounts), count)

	session, err := svc.Login(t.Context(), Email(0), Password)
	require.NoError(t, err)
	page, err := svc.ListNotes(t.Context(), session.Account.ID, notebook.Page{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(page.Notes), minNotes)

	created, err = Populate(t.Context(), logger, store, svc, 42)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeed(t *testing.T) {
	t.Setenv(EnvSeed, "1234")
	assert.Equal(t, uint64(1234), Seed())
}

func TestGenerateNote(t *testing.T) {
	t.Parallel()

	a := generateNote(gofakeit.New(7))
	b := generateNote(gofakeit.New(7))
	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
}
