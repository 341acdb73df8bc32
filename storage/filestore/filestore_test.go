package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/qlpt/rental-portal/storage"
	"github.com/qlpt/rental-portal/storage/filestore"
	"github.com/qlpt/rental-portal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := filestore.Open(filepath.Join(t.TempDir(), "session.json"))
		require.NoError(t, err)
		return s
	})
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := filestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetMany(ctx, map[string]string{"access_token": "A1", "refresh_token": "R1"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := filestore.Open(path)
	require.NoError(t, err)
	got, ok, err := reopened.Get(ctx, "refresh_token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "R1", got)
}

func TestFileStore_MalformedFileIsSetAside(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"eyJ`), 0o600))

	s, err := filestore.Open(path)
	require.ErrorIs(t, err, storage.ErrCorrupt)
	require.NotNil(t, s)

	_, ok, err := s.Get(ctx, "access_token")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
	kept, err := os.ReadFile(path + filestore.CorruptSuffix)
	require.NoError(t, err)
	require.Equal(t, `{"access_token":"eyJ`, string(kept))

	// The store is usable and a fresh file replaces the bad one.
	require.NoError(t, s.SetMany(ctx, map[string]string{"access_token": "A1"}))
	reopened, err := filestore.Open(path)
	require.NoError(t, err)
	got, ok, err := reopened.Get(ctx, "access_token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A1", got)
}

func TestFileStore_FailedWriteLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	s, err := filestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1"}))

	// Replace the file with a directory so the rename fails.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(path, "x"), nil, 0o600))

	require.Error(t, s.SetMany(ctx, map[string]string{"a": "2", "b": "3"}))

	got, _, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "1", got)
	_, ok, err := s.Get(ctx, "b")
	require.NoError(t, err)
	require.False(t, ok)
}
