package commands

import (
	"fmt"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/listing"
	"github.com/qlpt/rental-portal/users"
	"github.com/spf13/cobra"
)

var (
	roomsStatus    string
	roomsBuilding  int
	roomsMinPrice  string
	roomsMaxPrice  string
	roomsSearch    string
	roomsSort      string
	roomsAvailable bool

	roomName     string
	roomBuilding int
	roomPrice    string
	roomArea     string
	roomStatus   string
)

var roomsCmd = &cobra.Command{
	Use:     "rooms",
	Aliases: []string{"room"},
	Short:   "Browse and manage rooms",
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms with optional filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		user, err := a.requireSession()
		if err != nil {
			return err
		}

		filter, key, err := roomFilterFromFlags(user)
		if err != nil {
			return err
		}
		rooms, err := gateway.ListAll(cmd.Context(), a.api.ListRooms, gateway.ListParams{PageSize: 100})
		if err != nil {
			return err
		}
		rooms = listing.SortRooms(listing.FilterRooms(rooms, filter), key)
		if err := a.printRooms(rooms); err != nil {
			return err
		}
		if !outputJSON && len(rooms) > 0 {
			fmt.Fprintln(a.out, dimText(fmt.Sprintf("%d phòng, tòa %v", len(rooms), listing.Buildings(rooms))))
		}
		return nil
	},
}

// roomFilterFromFlags starts tenants on the vacant-room filter and layers any
// explicit flags over it.
func roomFilterFromFlags(user *users.User) (listing.RoomFilter, listing.SortKey, error) {
	var f listing.RoomFilter
	if roomsAvailable || user.Role == users.RoleTenant {
		f = listing.TenantRoomFilter()
	}
	if roomsStatus != "" {
		status := gateway.RoomStatus(roomsStatus)
		if !status.Valid() {
			return f, "", errors.Wrapf(errors.ErrInvalidInput, "--status %q must be EMPTY, RENTED or MAINT", roomsStatus)
		}
		f.Status = status
	}
	f.Building = roomsBuilding
	f.Search = roomsSearch

	minPrice, err := parseAmount("min-price", roomsMinPrice)
	if err != nil {
		return f, "", err
	}
	if minPrice != nil {
		f.MinPrice = minPrice
	}
	maxPrice, err := parseAmount("max-price", roomsMaxPrice)
	if err != nil {
		return f, "", err
	}
	if maxPrice != nil {
		f.MaxPrice = maxPrice
	}

	key, err := listing.ParseSortKey(roomsSort)
	return f, key, err
}

var roomsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if _, err := a.requireSession(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		room, err := a.api.GetRoom(cmd.Context(), id)
		if err != nil {
			return err
		}
		return a.printRoom(room)
	},
}

var roomsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a room",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.requireOwner(); err != nil {
			return err
		}
		price, err := parseAmount("price", roomPrice)
		if err != nil {
			return err
		}
		if price == nil {
			return errors.Wrapf(errors.ErrInvalidInput, "--price is required")
		}
		area, err := parseAmount("area", roomArea)
		if err != nil {
			return err
		}
		in := gateway.RoomInput{
			Name:      roomName,
			AreaM2:    area,
			BasePrice: *price,
			Status:    gateway.RoomStatus(roomStatus),
			Building:  roomBuilding,
		}
		room, err := a.api.CreateRoom(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, okText("Đã thêm phòng."))
		return a.printRoom(room)
	},
}

var roomsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the given fields of a room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.requireOwner(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var patch gateway.RoomPatch
		flags := cmd.Flags()
		if flags.Changed("name") {
			patch.Name = &roomName
		}
		if flags.Changed("building") {
			patch.Building = &roomBuilding
		}
		if patch.BasePrice, err = parseAmount("price", roomPrice); err != nil {
			return err
		}
		if patch.AreaM2, err = parseAmount("area", roomArea); err != nil {
			return err
		}
		if flags.Changed("status") {
			status := gateway.RoomStatus(roomStatus)
			patch.Status = &status
		}

		room, err := a.api.UpdateRoom(cmd.Context(), id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, okText("Đã cập nhật phòng."))
		return a.printRoom(room)
	},
}

var roomsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.requireOwner(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.api.DeleteRoom(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s #%d\n", okText("Đã xóa phòng"), id)
		return nil
	},
}

func init() {
	lf := roomsListCmd.Flags()
	lf.StringVar(&roomsStatus, "status", "", "EMPTY, RENTED or MAINT")
	lf.IntVar(&roomsBuilding, "building", 0, "building number (0 for all)")
	lf.StringVar(&roomsMinPrice, "min-price", "", "lowest monthly price in VND")
	lf.StringVar(&roomsMaxPrice, "max-price", "", "highest monthly price in VND")
	lf.StringVar(&roomsSearch, "search", "", "match room names")
	lf.StringVar(&roomsSort, "sort", string(listing.SortByPrice), "price, area or name")
	lf.BoolVar(&roomsAvailable, "available", false, "only vacant rooms up to 10.000.000 VND")

	for _, c := range []*cobra.Command{roomsCreateCmd, roomsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&roomName, "name", "", "room name")
		f.IntVar(&roomBuilding, "building", 1, "building number")
		f.StringVar(&roomPrice, "price", "", "monthly price in VND")
		f.StringVar(&roomArea, "area", "", "area in square metres")
		f.StringVar(&roomStatus, "status", "", "EMPTY, RENTED or MAINT")
	}
	_ = roomsCreateCmd.MarkFlagRequired("name")

	roomsCmd.AddCommand(roomsListCmd, roomsGetCmd, roomsCreateCmd, roomsUpdateCmd, roomsDeleteCmd)
	rootCmd.AddCommand(roomsCmd)
}
