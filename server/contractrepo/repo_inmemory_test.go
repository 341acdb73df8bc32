package contractrepo_test

import (
	"testing"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/server/contractrepo"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo(t *testing.T) {
	repo := contractrepo.NewInMemoryRepo()

	for _, tenant := range []int{1, 3, 1} {
		_, err := repo.Create(gateway.Contract{Tenant: tenant, Status: gateway.ContractActive})
		require.NoError(t, err)
	}

	mine, err := repo.ListByTenant(1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, 1, mine[0].ID)
	require.Equal(t, 3, mine[1].ID)

	c, err := repo.Get(2)
	require.NoError(t, err)
	c.Status = gateway.ContractEnded
	require.NoError(t, repo.Update(c))

	require.NoError(t, repo.Delete(1))
	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, gateway.ContractEnded, all[0].Status)

	_, err = repo.Get(1)
	require.ErrorIs(t, err, errors.ErrNotFound)
}
