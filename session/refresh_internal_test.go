package session

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/storage/memstore"
	"github.com/qlpt/rental-portal/users"
	"github.com/stretchr/testify/require"
)

type countingGateway struct {
	refreshes atomic.Int32
}

func (g *countingGateway) Authenticate(context.Context, string, string) (*gateway.LoginResult, error) {
	return &gateway.LoginResult{
		Access:  "A1",
		Refresh: "R1",
		User:    &users.User{ID: 1, Email: "tenant@demo.com", Role: users.RoleTenant},
	}, nil
}

func (g *countingGateway) Refresh(context.Context, string) (string, error) {
	g.refreshes.Add(1)
	return "A2", nil
}

func TestRefreshAfter_StaleFailureUsesCurrentToken(t *testing.T) {
	gw := &countingGateway{}
	m := New(gw, memstore.New())
	require.NoError(t, m.Bootstrap(context.Background()))
	_, err := m.Login(context.Background(), "tenant@demo.com", "pw")
	require.NoError(t, err)

	// A request that failed with an older token retries with A1 as-is.
	access, err := m.refreshAfter(context.Background(), "A0")
	require.NoError(t, err)
	require.Equal(t, "A1", access)
	require.Zero(t, gw.refreshes.Load())

	access, err = m.refreshAfter(context.Background(), "A1")
	require.NoError(t, err)
	require.Equal(t, "A2", access)
	require.EqualValues(t, 1, gw.refreshes.Load())
}

func TestRefreshAfter_CallerCancellation(t *testing.T) {
	m := New(&countingGateway{}, memstore.New())
	require.NoError(t, m.Bootstrap(context.Background()))
	_, err := m.Login(context.Background(), "tenant@demo.com", "pw")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.refreshAfter(ctx, "A1")
	// Either the shared refresh finished first or the caller gave up.
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}
