package roomrepo_test

import (
	"testing"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/server/roomrepo"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo(t *testing.T) {
	repo := roomrepo.NewInMemoryRepo()

	seeded, err := repo.Create(gateway.Room{ID: 5, Name: "P105"})
	require.NoError(t, err)
	require.Equal(t, 5, seeded.ID)

	next, err := repo.Create(gateway.Room{Name: "P106"})
	require.NoError(t, err)
	require.Equal(t, 6, next.ID)

	_, err = repo.Create(gateway.Room{ID: 5})
	require.ErrorIs(t, err, errors.ErrConflict)

	next.Status = gateway.RoomRented
	require.NoError(t, repo.Update(next))
	got, err := repo.Get(6)
	require.NoError(t, err)
	require.Equal(t, gateway.RoomRented, got.Status)

	all, err := repo.List()
	require.NoError(t, err)
	require.Equal(t, []int{5, 6}, []int{all[0].ID, all[1].ID})

	require.NoError(t, repo.Delete(5))
	_, err = repo.Get(5)
	require.ErrorIs(t, err, errors.ErrNotFound)
	require.ErrorIs(t, repo.Delete(5), errors.ErrNotFound)
	require.ErrorIs(t, repo.Update(gateway.Room{ID: 42}), errors.ErrNotFound)
}
