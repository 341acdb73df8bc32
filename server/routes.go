package server

import (
	"net/http"

	"github.com/qlpt/rental-portal/users"
)

func (s *Server) initRoutes() {
	api := s.APIMiddleware
	authed := func(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
		return api(append([]func(http.HandlerFunc) http.HandlerFunc{s.RequireAuth()}, mw...)...)
	}
	ownerOnly := s.RequireRole(users.RoleOwner)

	s.RegisterRouteFunc("OPTIONS "+RoutePreflight, ChainMiddleware(func(http.ResponseWriter, *http.Request) {}, api()...))
	s.RegisterRouteFunc("GET "+exact(RouteHealth), ChainMiddleware(s.HealthHandler(), api()...))

	// AUTH
	s.RegisterRouteFunc("POST "+exact(RouteAuthLogin), ChainMiddleware(s.LoginHandler(), api()...))
	s.RegisterRouteFunc("POST "+exact(RouteAuthRefresh), ChainMiddleware(s.RefreshHandler(), api()...))
	s.RegisterRouteFunc("POST "+exact(RouteAuthRegister), ChainMiddleware(s.RegisterHandler(), api()...))
	s.RegisterRouteFunc("POST "+exact(RouteAuthValidatePassword), ChainMiddleware(s.ValidatePasswordHandler(), api()...))
	s.RegisterRouteFunc("GET "+exact(RouteAuthMe), ChainMiddleware(s.MeHandler(), authed()...))
	s.RegisterRouteFunc("POST "+exact(RouteAuthLogout), ChainMiddleware(s.LogoutHandler(), authed()...))

	// ROOMS
	s.RegisterRouteFunc("GET "+exact(RouteRooms), ChainMiddleware(s.ListRoomsHandler(), authed()...))
	s.RegisterRouteFunc("GET "+exact(RouteRoom), ChainMiddleware(s.GetRoomHandler(), authed()...))
	s.RegisterRouteFunc("POST "+exact(RouteRooms), ChainMiddleware(s.CreateRoomHandler(), authed(ownerOnly)...))
	s.RegisterRouteFunc("PATCH "+exact(RouteRoom), ChainMiddleware(s.UpdateRoomHandler(), authed(ownerOnly)...))
	s.RegisterRouteFunc("DELETE "+exact(RouteRoom), ChainMiddleware(s.DeleteRoomHandler(), authed(ownerOnly)...))

	// CONTRACTS
	s.RegisterRouteFunc("GET "+exact(RouteContracts), ChainMiddleware(s.ListContractsHandler(), authed()...))
	s.RegisterRouteFunc("GET "+exact(RouteContract), ChainMiddleware(s.GetContractHandler(), authed()...))
	s.RegisterRouteFunc("POST "+exact(RouteContracts), ChainMiddleware(s.CreateContractHandler(), authed(ownerOnly)...))
	s.RegisterRouteFunc("PATCH "+exact(RouteContract), ChainMiddleware(s.UpdateContractHandler(), authed(ownerOnly)...))
	s.RegisterRouteFunc("DELETE "+exact(RouteContract), ChainMiddleware(s.DeleteContractHandler(), authed(ownerOnly)...))
	s.RegisterRouteFunc("POST "+exact(RouteContractEnd), ChainMiddleware(s.EndContractHandler(), authed(ownerOnly)...))

	s.RegisterRouteFunc("/", ChainMiddleware(s.NotFoundHandler(), api()...))
}

// exact anchors a trailing-slash path so it does not match its subtree.
func exact(path string) string {
	return path + "{$}"
}
