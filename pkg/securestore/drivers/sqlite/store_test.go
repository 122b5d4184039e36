package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string, key string) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Unlock(context.Background(), []byte(key)))
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "keeper.db"), "master")

	_, err := s.Load(ctx, securestore.KeyRefreshToken)
	require.ErrorIs(t, err, securestore.ErrNotFound)

	require.NoError(t, s.Save(ctx, securestore.KeyRefreshToken, "r1"))
	require.NoError(t, s.Save(ctx, securestore.KeyRefreshToken, "r2"))

	v, err := s.Load(ctx, securestore.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "r2", v)

	require.NoError(t, s.Delete(ctx, securestore.KeyRefreshToken))
	_, err = s.Load(ctx, securestore.KeyRefreshToken)
	require.ErrorIs(t, err, securestore.ErrNotFound)

	require.NoError(t, s.Ping(ctx))
}

func TestStoreSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keeper.db")

	first := openStore(t, path, "master")
	require.NoError(t, first.Save(ctx, securestore.KeyPassword, "hunter2"))
	require.NoError(t, first.Close())

	second := openStore(t, path, "master")
	v, err := second.Load(ctx, securestore.KeyPassword)
	require.NoError(t, err)
	require.Equal(t, "hunter2", v)
}

func TestStoreWrongKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keeper.db")

	first := openStore(t, path, "right")
	require.NoError(t, first.Save(ctx, securestore.KeyPassword, "hunter2"))
	require.NoError(t, first.Close())

	second := openStore(t, path, "wrong")
	_, err := second.Load(ctx, securestore.KeyPassword)
	require.Error(t, err)
	require.NotErrorIs(t, err, securestore.ErrNotFound)
}

func TestStoreReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keeper.db")

	first := openStore(t, path, "old")
	require.NoError(t, first.Save(ctx, securestore.KeyPassword, "hunter2"))
	require.NoError(t, first.Save(ctx, securestore.KeyAccessToken, "a1"))
	require.NoError(t, first.Close())

	second := openStore(t, path, "new")
	require.NoError(t, second.Reset(ctx))

	for _, key := range securestore.Keys {
		_, err := second.Load(ctx, key)
		require.ErrorIs(t, err, securestore.ErrNotFound, key)
	}

	require.NoError(t, second.Save(ctx, securestore.KeyPassword, "fresh"))
	v, err := second.Load(ctx, securestore.KeyPassword)
	require.NoError(t, err)
	require.Equal(t, "fresh", v)
}

func TestStoreEncryptsAtRest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keeper.db")

	s := openStore(t, path, "master")
	require.NoError(t, s.Save(ctx, securestore.KeyPassword, "plaintext-password"))

	raw, err := sql.Open("sqlite", sqlite.DSN(path))
	require.NoError(t, err)
	defer raw.Close()

	var value []byte
	require.NoError(t, raw.QueryRowContext(ctx,
		`SELECT value FROM secrets WHERE key = ?`, securestore.KeyPassword,
	).Scan(&value))
	require.NotContains(t, string(value), "plaintext-password")
}

func TestStoreLocked(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "keeper.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	require.ErrorIs(t, s.Save(ctx, securestore.KeyUsername, "alice"), sqlite.ErrLocked)
	_, err = s.Load(ctx, securestore.KeyUsername)
	require.ErrorIs(t, err, sqlite.ErrLocked)
}
