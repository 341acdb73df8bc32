package session

import "github.com/qlpt/rental-portal/users"

// View paths the Manager redirects to.
const (
	PathRoot       = "/"
	PathDemo       = "/demo"
	PathLogin      = "/login"
	PathRegister   = "/register"
	PathOwnerHome  = "/admin"
	PathTenantHome = "/tenant"
	PathNoAccess   = "/no-access"
)

// Requirement is what a route demands of the session.
type Requirement int

const (
	RequirePublic Requirement = iota // anyone, any state
	RequireGuest                     // login and register forms
	RequireOwner
	RequireTenant
)

func (r Requirement) String() string {
	switch r {
	case RequirePublic:
		return "public"
	case RequireGuest:
		return "guest"
	case RequireOwner:
		return "owner"
	case RequireTenant:
		return "tenant"
	default:
		return "unknown"
	}
}

type DecisionKind int

const (
	Permit DecisionKind = iota
	Pending             // session still initializing
	RedirectLogin
	RedirectHome
	Forbidden
)

func (k DecisionKind) String() string {
	switch k {
	case Permit:
		return "permit"
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a route check. Target is set for redirects and
// for Forbidden.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// HomeFor is the landing view of a role.
func HomeFor(role users.RoleType) string {
	switch role {
	case users.RoleOwner:
		return PathOwnerHome
	case users.RoleTenant:
		return PathTenantHome
	case users.RoleTech:
		return PathNoAccess
	default:
		return PathNoAccess
	}
}

// CheckRouteAccess decides whether the current session may enter a route
// with the given requirement.
func (m *Manager) CheckRouteAccess(required Requirement) Decision {
	m.mu.Lock()
	state, user := m.state, m.user
	m.mu.Unlock()
	return Decide(state, user, required)
}

// Decide is the pure decision table behind CheckRouteAccess.
func Decide(state State, user *users.User, required Requirement) Decision {
	if required == RequirePublic {
		return Decision{Kind: Permit}
	}

	switch state {
	case StateInitializing:
		return Decision{Kind: Pending}
	case StateUnauthenticated:
		if required == RequireGuest {
			return Decision{Kind: Permit}
		}
		return Decision{Kind: RedirectLogin, Target: PathLogin}
	case StateAuthenticated:
		if user == nil {
			return Decision{Kind: RedirectLogin, Target: PathLogin}
		}
	default:
		return Decision{Kind: RedirectLogin, Target: PathLogin}
	}

	switch required {
	case RequireGuest:
		return Decision{Kind: RedirectHome, Target: HomeFor(user.Role)}
	case RequireOwner:
		return roleGate(user.Role, users.RoleOwner)
	case RequireTenant:
		return roleGate(user.Role, users.RoleTenant)
	default:
		return Decision{Kind: Forbidden, Target: PathNoAccess}
	}
}

func roleGate(have, want users.RoleType) Decision {
	if have == want {
		return Decision{Kind: Permit}
	}
	switch have {
	case users.RoleOwner, users.RoleTenant:
		return Decision{Kind: RedirectHome, Target: HomeFor(have)}
	case users.RoleTech:
		return Decision{Kind: Forbidden, Target: PathNoAccess}
	default:
		return Decision{Kind: Forbidden, Target: PathNoAccess}
	}
}
