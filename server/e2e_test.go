package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/session"
	"github.com/qlpt/rental-portal/storage/memstore"
	"github.com/qlpt/rental-portal/token/jwt"
	"github.com/stretchr/testify/require"
)

// shiftClock moves the token clock forward so issued access tokens expire.
func shiftClock(t *testing.T, d time.Duration) {
	t.Helper()
	jwt.NowTimeFunc = func() time.Time { return time.Now().Add(d) }
	t.Cleanup(func() { jwt.NowTimeFunc = time.Now })
}

func TestClientSession_EndToEnd(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	store := memstore.New()
	mgr := session.New(gateway.New(f.ts.URL), store)
	api := gateway.New(f.ts.URL, gateway.WithTransport(mgr.Transport(nil)))

	require.NoError(t, mgr.Bootstrap(ctx))
	u, err := mgr.Login(ctx, ownerEmail, ownerPassword)
	require.NoError(t, err)
	require.Equal(t, "Quản lý hệ thống", u.FullName)
	require.Equal(t, session.PathOwnerHome, session.HomeFor(u.Role))

	rooms, err := gateway.ListAll(ctx, api.ListRooms, gateway.ListParams{PageSize: 4})
	require.NoError(t, err)
	require.Len(t, rooms, 10)

	// The access token is now expired server side; the next call refreshes
	// silently and succeeds.
	firstAccess := store.Snapshot()[session.KeyAccessToken]
	shiftClock(t, 2*time.Minute)

	me, err := api.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, ownerEmail, me.Email)
	require.True(t, mgr.IsAuthenticated())
	require.NotEqual(t, firstAccess, store.Snapshot()[session.KeyAccessToken])

	// Once the refresh token is gone the next expiry ends the session.
	require.NoError(t, f.repos.RefreshTokens.Delete(store.Snapshot()[session.KeyRefreshToken]))
	shiftClock(t, 4*time.Minute)

	_, err = api.Me(ctx)
	require.ErrorIs(t, err, errors.ErrSessionExpired)
	require.Equal(t, session.StateUnauthenticated, mgr.State())
	require.Empty(t, store.Snapshot())
}

func TestClientSession_RejectedLogin(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	mgr := session.New(gateway.New(f.ts.URL), memstore.New())
	require.NoError(t, mgr.Bootstrap(ctx))

	_, err := mgr.Login(ctx, ownerEmail, "wrong")
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	require.Equal(t, session.StateUnauthenticated, mgr.State())
	require.Equal(t, "No active account found with the given credentials", session.DisplayMessage(err, session.MsgLoginFailed))
}
