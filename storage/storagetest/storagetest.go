// Package storagetest holds behaviour checks every storage driver must pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/qlpt/rental-portal/storage"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh store returned by open.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		_, ok, err := s.Get(ctx, "absent")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("set many then get", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1", "b": "2", "c": "3"}))

		for k, want := range map[string]string{"a": "1", "b": "2", "c": "3"} {
			got, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			require.True(t, ok, k)
			require.Equal(t, want, got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1"}))
		require.NoError(t, s.SetMany(ctx, map[string]string{"a": "2"}))
		got, _, err := s.Get(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, "2", got)
	})

	t.Run("delete many is idempotent", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1", "b": "2", "keep": "x"}))
		require.NoError(t, s.DeleteMany(ctx, "a", "b"))
		require.NoError(t, s.DeleteMany(ctx, "a", "b"))

		_, ok, err := s.Get(ctx, "a")
		require.NoError(t, err)
		require.False(t, ok)
		got, ok, err := s.Get(ctx, "keep")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "x", got)
	})
}
