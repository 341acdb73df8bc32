package server

import (
	"fmt"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/config"
	"github.com/qlpt/rental-portal/users"
	"github.com/shopspring/decimal"
)

// DemoAccount is a seeded login.
type DemoAccount struct {
	User     users.User
	Password string
}

// DemoAccounts are the logins the demo backend starts with.
var DemoAccounts = []DemoAccount{
	{User: users.User{ID: 1, Email: "tenant@demo.com", FullName: "Nguyễn Văn A", Role: users.RoleTenant}, Password: "Tenant123"},
	{User: users.User{ID: 2, Email: "admin@demo.com", FullName: "Quản lý hệ thống", Role: users.RoleOwner}, Password: "Admin123"},
	{User: users.User{ID: 3, Email: "tenant2@demo.com", FullName: "Trần Thị B", Role: users.RoleTenant}, Password: "Tenant123"},
}

func demoRoom(id int, name, area, price string, status gateway.RoomStatus, building int) gateway.Room {
	a := decimal.RequireFromString(area)
	return gateway.Room{ID: id, Name: name, AreaM2: &a, BasePrice: decimal.RequireFromString(price), Status: status, Building: building}
}

func demoRooms() []gateway.Room {
	return []gateway.Room{
		demoRoom(1, "Phòng A101", "25", "4500000", gateway.RoomRented, 1),
		demoRoom(2, "Phòng B102", "25", "4500000", gateway.RoomEmpty, 1),
		demoRoom(3, "Phòng C203", "30", "5200000", gateway.RoomEmpty, 2),
		demoRoom(4, "Phòng A205", "28", "4800000", gateway.RoomEmpty, 1),
		demoRoom(5, "Phòng D301", "35", "6000000", gateway.RoomEmpty, 3),
		demoRoom(6, "Phòng B104", "22", "4200000", gateway.RoomEmpty, 1),
		demoRoom(7, "Phòng C205", "32", "5500000", gateway.RoomEmpty, 2),
		demoRoom(8, "Phòng A103", "24", "4300000", gateway.RoomRented, 1),
		demoRoom(9, "Phòng B201", "27", "4700000", gateway.RoomMaintenance, 1),
		demoRoom(10, "Phòng D302", "40", "7000000", gateway.RoomEmpty, 3),
	}
}

func demoContracts() []gateway.Contract {
	date := func(s string) *string { return &s }
	return []gateway.Contract{
		{ID: 1, Room: 1, RoomName: "Phòng A101", Tenant: 1, TenantName: "Nguyễn Văn A", StartDate: "2024-01-15", EndDate: date("2024-12-15"),
			Deposit: decimal.NewFromInt(9_000_000), BillingCycle: defaultBillingCycle, Status: gateway.ContractActive},
		{ID: 2, Room: 8, RoomName: "Phòng A103", Tenant: 3, TenantName: "Trần Thị B", StartDate: "2024-03-01", EndDate: date("2025-02-28"),
			Deposit: decimal.NewFromInt(8_600_000), BillingCycle: defaultBillingCycle, Status: gateway.ContractActive},
		{ID: 3, Room: 5, RoomName: "Phòng D301", Tenant: 1, TenantName: "Nguyễn Văn A", StartDate: "2023-06-01", EndDate: date("2023-12-31"),
			Deposit: decimal.NewFromInt(12_000_000), BillingCycle: defaultBillingCycle, Status: gateway.ContractEnded},
	}
}

// InitialiseDemoData seeds accounts, rooms and contracts into empty stores.
// Stores that already hold data are left alone.
func (s *Server) InitialiseDemoData() error {
	existing, err := s.repos.Users.List(0, 1)
	if err != nil {
		return fmt.Errorf("[Server InitialiseDemoData] failed to list users: %w", err)
	}
	if len(existing) > 0 {
		s.log.Debug().Msg("user store not empty, skipping demo data")
		return nil
	}

	for _, acct := range DemoAccounts {
		hash, err := users.HashPassword(acct.Password)
		if err != nil {
			return fmt.Errorf("[Server InitialiseDemoData] failed to hash password: %w", err)
		}
		u := acct.User
		u.PasswordHash = hash
		if err := s.repos.Users.Upsert(&u); err != nil {
			return fmt.Errorf("[Server InitialiseDemoData] failed to create %s: %w", u.Email, err)
		}
	}

	rooms, err := s.repos.Rooms.List()
	if err != nil {
		return fmt.Errorf("[Server InitialiseDemoData] failed to list rooms: %w", err)
	}
	if len(rooms) == 0 {
		for _, room := range demoRooms() {
			if _, err := s.repos.Rooms.Create(room); err != nil {
				return fmt.Errorf("[Server InitialiseDemoData] failed to create room %d: %w", room.ID, err)
			}
		}
		for _, c := range demoContracts() {
			if _, err := s.repos.Contracts.Create(c); err != nil {
				return fmt.Errorf("[Server InitialiseDemoData] failed to create contract %d: %w", c.ID, err)
			}
		}
	}

	if s.env == config.EnvDev {
		s.log.Info().Msg("👤 Demo accounts:")
		for _, acct := range DemoAccounts {
			s.log.Info().Msgf("   %-18s %-8s password: %s", acct.User.Email, acct.User.Role, acct.Password)
		}
	}
	return nil
}
