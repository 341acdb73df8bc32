package session

import (
	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/token/jwt"
	"github.com/qlpt/rental-portal/users"
)

// derivePrincipal picks who the login response says we are: the user object
// if the backend sent one, else the access token's claims, else a default
// OWNER named after the login.
func derivePrincipal(res *gateway.LoginResult, username string) *users.User {
	if res.User != nil && res.User.Validate() == nil {
		u := *res.User
		return &u
	}
	if u, err := jwt.PrincipalFromUnverified(res.Access); err == nil {
		return u
	}
	return &users.User{
		ID:       1,
		Email:    username,
		FullName: username,
		Role:     users.RoleOwner,
	}
}
