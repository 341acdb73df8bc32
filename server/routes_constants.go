package server

import "github.com/qlpt/rental-portal/gateway"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin            = gateway.PathLogin
	RouteAuthRefresh          = gateway.PathRefresh
	RouteAuthRegister         = gateway.PathRegister
	RouteAuthMe               = gateway.PathMe
	RouteAuthLogout           = "/api/auth/logout/"
	RouteAuthValidatePassword = "/api/auth/validate-password/"

	// Room Routes
	RouteRooms = gateway.PathRooms
	RouteRoom  = gateway.PathRooms + "{id}/"

	// Contract Routes
	RouteContracts   = gateway.PathContracts
	RouteContract    = gateway.PathContracts + "{id}/"
	RouteContractEnd = gateway.PathContracts + "{id}/end/"

	// Misc
	RouteHealth    = "/api/health/"
	RoutePreflight = "/api/"
)
