package viewrouter_test

import (
	"testing"

	"github.com/qlpt/rental-portal/session"
	"github.com/qlpt/rental-portal/users"
	"github.com/qlpt/rental-portal/viewrouter"
	"github.com/stretchr/testify/require"
)

// fixedSession answers route checks from a fixed state and principal.
type fixedSession struct {
	state session.State
	user  *users.User
}

func (f fixedSession) CheckRouteAccess(required session.Requirement) session.Decision {
	return session.Decide(f.state, f.user, required)
}

func (f fixedSession) CurrentPrincipal() (*users.User, bool) {
	return f.user, f.user != nil
}

func (f fixedSession) State() session.State { return f.state }

func as(role users.RoleType) fixedSession {
	return fixedSession{state: session.StateAuthenticated, user: &users.User{ID: 1, Email: "x@demo.com", Role: role}}
}

var anonymous = fixedSession{state: session.StateUnauthenticated}

func TestNavigate(t *testing.T) {
	cases := []struct {
		name      string
		session   fixedSession
		path      string
		wantPath  string
		wantScene viewrouter.Screen
	}{
		{"anonymous root goes to demo", anonymous, "/", "/demo", viewrouter.ScreenDemo},
		{"anonymous admin goes to login", anonymous, "/admin/rooms", "/login", viewrouter.ScreenLogin},
		{"anonymous register", anonymous, "/register", "/register", viewrouter.ScreenRegister},
		{"owner root", as(users.RoleOwner), "/", "/admin", viewrouter.ScreenOwnerDashboard},
		{"owner tenant page", as(users.RoleOwner), "/tenant/rooms", "/admin", viewrouter.ScreenOwnerDashboard},
		{"owner login page", as(users.RoleOwner), "/login", "/admin", viewrouter.ScreenOwnerDashboard},
		{"tenant owner page", as(users.RoleTenant), "/admin/contracts/", "/tenant", viewrouter.ScreenTenantDashboard},
		{"tenant own page with query", as(users.RoleTenant), "/tenant/contracts?page=2", "/tenant/contracts", viewrouter.ScreenTenantContracts},
		{"tech owner page", as(users.RoleTech), "/admin", "/no-access", viewrouter.ScreenNoAccess},
		{"tech root", as(users.RoleTech), "/", "/no-access", viewrouter.ScreenNoAccess},
		{"unknown path", as(users.RoleOwner), "/nowhere", "/nowhere", viewrouter.ScreenNotFound},
		{"initializing", fixedSession{state: session.StateInitializing}, "/admin", "/admin", viewrouter.ScreenLoading},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := viewrouter.New(c.session).Navigate(c.path)
			require.NoError(t, err)
			require.Equal(t, c.wantPath, res.Path)
			require.Equal(t, c.wantScene, res.Screen)
		})
	}
}

func TestNavigate_RecordsRedirects(t *testing.T) {
	res, err := viewrouter.New(anonymous).Navigate("/tenant")
	require.NoError(t, err)
	require.True(t, res.Redirected())
	require.Equal(t, []string{"/login"}, res.Redirects)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "/", viewrouter.Normalize(""))
	require.Equal(t, "/", viewrouter.Normalize("/"))
	require.Equal(t, "/admin", viewrouter.Normalize("admin/"))
	require.Equal(t, "/admin/rooms", viewrouter.Normalize("/admin/rooms/?x=1#top"))
}
