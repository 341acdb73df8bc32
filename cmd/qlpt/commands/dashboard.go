package commands

import (
	"fmt"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/listing"
	"github.com/qlpt/rental-portal/users"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the home screen for the signed-in role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		user, err := a.requireSession()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		rooms, err := gateway.ListAll(ctx, a.api.ListRooms, gateway.ListParams{PageSize: 100})
		if err != nil {
			return err
		}
		contracts, err := gateway.ListAll(ctx, a.api.ListContracts, gateway.ListParams{PageSize: 100})
		if err != nil {
			return err
		}

		switch user.Role {
		case users.RoleOwner:
			return a.ownerDashboard(rooms, contracts)
		case users.RoleTenant:
			return a.tenantDashboard(user, rooms, contracts)
		default:
			return a.requireOwner()
		}
	},
}

func (a *app) ownerDashboard(rooms []gateway.Room, contracts []gateway.Contract) error {
	stats := listing.ComputeStats(rooms, contracts)
	if outputJSON {
		return writeJSON(a.out, struct {
			listing.Stats
			OccupancyRate string `json:"OccupancyRate"`
		}{stats, stats.OccupancyRate().String()})
	}
	table := newTable(a.out, "Chỉ số", "Giá trị")
	table.AppendBulk([][]string{
		{"Tổng số phòng", fmt.Sprint(stats.TotalRooms)},
		{"Phòng trống", fmt.Sprint(stats.EmptyRooms)},
		{"Đã thuê", fmt.Sprint(stats.RentedRooms)},
		{"Bảo trì", fmt.Sprint(stats.MaintenanceRooms)},
		{"Hợp đồng hiệu lực", fmt.Sprintf("%d/%d", stats.ActiveContracts, stats.TotalContracts)},
		{"Tỷ lệ lấp đầy", stats.OccupancyRate().String() + "%"},
		{"Tiền cọc đang giữ", listing.FormatVND(stats.Revenue)},
	})
	table.Render()
	return nil
}

func (a *app) tenantDashboard(user *users.User, rooms []gateway.Room, contracts []gateway.Contract) error {
	contract, ok := listing.CurrentContract(contracts)
	available := listing.AvailableRooms(rooms)
	if outputJSON {
		return writeJSON(a.out, struct {
			Contract  *gateway.Contract `json:"current_contract"`
			Available int               `json:"available_rooms"`
		}{contract, len(available)})
	}

	fmt.Fprintf(a.out, "Xin chào, %s\n", user.DisplayName())
	if ok {
		fmt.Fprintln(a.out, "Hợp đồng hiện tại:")
		if err := a.printContract(contract); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(a.out, dimText("Bạn chưa có hợp đồng đang hiệu lực."))
	}
	fmt.Fprintf(a.out, "Phòng trống: %d\n", len(available))
	return nil
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
