package session_test

import (
	"testing"

	"github.com/qlpt/rental-portal/session"
	"github.com/qlpt/rental-portal/users"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	owner := &users.User{ID: 1, Email: "o@demo.com", Role: users.RoleOwner}
	tenant := &users.User{ID: 2, Email: "t@demo.com", Role: users.RoleTenant}
	tech := &users.User{ID: 3, Email: "k@demo.com", Role: users.RoleTech}

	permit := session.Decision{Kind: session.Permit}
	toLogin := session.Decision{Kind: session.RedirectLogin, Target: session.PathLogin}
	toAdmin := session.Decision{Kind: session.RedirectHome, Target: session.PathOwnerHome}
	toTenant := session.Decision{Kind: session.RedirectHome, Target: session.PathTenantHome}
	forbidden := session.Decision{Kind: session.Forbidden, Target: session.PathNoAccess}

	cases := []struct {
		name     string
		state    session.State
		user     *users.User
		required session.Requirement
		want     session.Decision
	}{
		{"unauthenticated owner route", session.StateUnauthenticated, nil, session.RequireOwner, toLogin},
		{"unauthenticated tenant route", session.StateUnauthenticated, nil, session.RequireTenant, toLogin},
		{"unauthenticated guest route", session.StateUnauthenticated, nil, session.RequireGuest, permit},
		{"unauthenticated public route", session.StateUnauthenticated, nil, session.RequirePublic, permit},
		{"owner on owner route", session.StateAuthenticated, owner, session.RequireOwner, permit},
		{"owner on tenant route", session.StateAuthenticated, owner, session.RequireTenant, toAdmin},
		{"tenant on tenant route", session.StateAuthenticated, tenant, session.RequireTenant, permit},
		{"tenant on owner route", session.StateAuthenticated, tenant, session.RequireOwner, toTenant},
		{"owner on guest route", session.StateAuthenticated, owner, session.RequireGuest, toAdmin},
		{"tenant on guest route", session.StateAuthenticated, tenant, session.RequireGuest, toTenant},
		{"tech on owner route", session.StateAuthenticated, tech, session.RequireOwner, forbidden},
		{"tech on tenant route", session.StateAuthenticated, tech, session.RequireTenant, forbidden},
		{"tech on guest route", session.StateAuthenticated, tech, session.RequireGuest, session.Decision{Kind: session.RedirectHome, Target: session.PathNoAccess}},
		{"initializing", session.StateInitializing, nil, session.RequireOwner, session.Decision{Kind: session.Pending}},
		{"initializing public", session.StateInitializing, nil, session.RequirePublic, permit},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, session.Decide(c.state, c.user, c.required))
		})
	}
}

func TestHomeFor(t *testing.T) {
	require.Equal(t, "/admin", session.HomeFor(users.RoleOwner))
	require.Equal(t, "/tenant", session.HomeFor(users.RoleTenant))
	require.Equal(t, "/no-access", session.HomeFor(users.RoleTech))
}
