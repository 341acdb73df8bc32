package viewrouter

import "github.com/qlpt/rental-portal/session"

// Screen names a view the client can render.
type Screen string

const (
	ScreenLoading         Screen = "loading"
	ScreenDemo            Screen = "demo"
	ScreenLogin           Screen = "login"
	ScreenRegister        Screen = "register"
	ScreenOwnerDashboard  Screen = "admin.dashboard"
	ScreenOwnerRooms      Screen = "admin.rooms"
	ScreenOwnerContracts  Screen = "admin.contracts"
	ScreenTenantDashboard Screen = "tenant.dashboard"
	ScreenTenantContracts Screen = "tenant.contracts"
	ScreenTenantRooms     Screen = "tenant.rooms"
	ScreenNoAccess        Screen = "no-access"
	ScreenNotFound        Screen = "not-found"
)

// Route binds a path to a screen and the session it requires.
type Route struct {
	Path     string
	Screen   Screen
	Requires session.Requirement
	Title    string
}

const (
	PathOwnerRooms      = session.PathOwnerHome + "/rooms"
	PathOwnerContracts  = session.PathOwnerHome + "/contracts"
	PathTenantContracts = session.PathTenantHome + "/contracts"
	PathTenantRooms     = session.PathTenantHome + "/rooms"
)

// Routes is the full route table. "/" is handled separately.
var Routes = []Route{
	{Path: session.PathDemo, Screen: ScreenDemo, Requires: session.RequirePublic, Title: "Demo"},
	{Path: session.PathLogin, Screen: ScreenLogin, Requires: session.RequireGuest, Title: "Đăng nhập"},
	{Path: session.PathRegister, Screen: ScreenRegister, Requires: session.RequireGuest, Title: "Đăng ký"},

	{Path: session.PathOwnerHome, Screen: ScreenOwnerDashboard, Requires: session.RequireOwner, Title: "Tổng quan"},
	{Path: PathOwnerRooms, Screen: ScreenOwnerRooms, Requires: session.RequireOwner, Title: "Quản lý phòng"},
	{Path: PathOwnerContracts, Screen: ScreenOwnerContracts, Requires: session.RequireOwner, Title: "Quản lý hợp đồng"},

	{Path: session.PathTenantHome, Screen: ScreenTenantDashboard, Requires: session.RequireTenant, Title: "Trang chủ"},
	{Path: PathTenantContracts, Screen: ScreenTenantContracts, Requires: session.RequireTenant, Title: "Hợp đồng của tôi"},
	{Path: PathTenantRooms, Screen: ScreenTenantRooms, Requires: session.RequireTenant, Title: "Phòng trống"},

	{Path: session.PathNoAccess, Screen: ScreenNoAccess, Requires: session.RequirePublic, Title: "Không có quyền truy cập"},
}
