package listing_test

import (
	"testing"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/internal/utils"
	"github.com/qlpt/rental-portal/listing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func room(id int, name string, building int, price int64, area *float64, status gateway.RoomStatus) gateway.Room {
	r := gateway.Room{ID: id, Name: name, Building: building, BasePrice: decimal.NewFromInt(price), Status: status}
	if area != nil {
		r.AreaM2 = utils.Ptr(decimal.NewFromFloat(*area))
	}
	return r
}

func testRooms() []gateway.Room {
	return []gateway.Room{
		room(1, "P101", 1, 3_000_000, utils.Ptr(25.0), gateway.RoomRented),
		room(2, "P102", 1, 3_500_000, utils.Ptr(30.0), gateway.RoomEmpty),
		room(3, "p201", 2, 4_500_000, nil, gateway.RoomEmpty),
		room(4, "P202", 2, 12_000_000, utils.Ptr(50.0), gateway.RoomEmpty),
		room(5, "P301", 3, 2_800_000, utils.Ptr(20.5), gateway.RoomMaintenance),
	}
}

func ids(rooms []gateway.Room) []int {
	out := make([]int, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterRooms(t *testing.T) {
	rooms := testRooms()

	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(listing.FilterRooms(rooms, listing.RoomFilter{})))
	require.Equal(t, []int{3, 4}, ids(listing.FilterRooms(rooms, listing.RoomFilter{Building: 2})))
	require.Equal(t, []int{2, 3}, ids(listing.FilterRooms(rooms, listing.TenantRoomFilter())))
	require.Equal(t, []int{3}, ids(listing.FilterRooms(rooms, listing.RoomFilter{Search: " P201 "})))
	require.Equal(t, []int{2, 3, 4}, ids(listing.AvailableRooms(rooms)))

	minPrice := decimal.NewFromInt(3_500_000)
	require.Equal(t, []int{2, 3, 4}, ids(listing.FilterRooms(rooms, listing.RoomFilter{MinPrice: &minPrice})))
}

func TestFilterRoomsComparesWholeDong(t *testing.T) {
	r := gateway.Room{ID: 9, BasePrice: decimal.RequireFromString("10000000.90")}
	require.Len(t, listing.FilterRooms([]gateway.Room{r}, listing.TenantRoomFilter()), 0, "status filter")

	r.Status = gateway.RoomEmpty
	require.Len(t, listing.FilterRooms([]gateway.Room{r}, listing.TenantRoomFilter()), 1)
}

func TestSortRooms(t *testing.T) {
	rooms := testRooms()

	require.Equal(t, []int{5, 1, 2, 3, 4}, ids(listing.SortRooms(rooms, listing.SortByPrice)))
	require.Equal(t, []int{3, 5, 1, 2, 4}, ids(listing.SortRooms(rooms, listing.SortByArea)))
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(listing.SortRooms(rooms, listing.SortByName)))

	// input untouched
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(rooms))
}

func TestParseSortKey(t *testing.T) {
	k, err := listing.ParseSortKey("Area")
	require.NoError(t, err)
	require.Equal(t, listing.SortByArea, k)

	k, err = listing.ParseSortKey("")
	require.NoError(t, err)
	require.Equal(t, listing.SortByPrice, k)

	_, err = listing.ParseSortKey("size")
	require.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestBuildings(t *testing.T) {
	require.Equal(t, []int{1, 2, 3}, listing.Buildings(testRooms()))
	require.Empty(t, listing.Buildings(nil))
}

func testContracts() []gateway.Contract {
	return []gateway.Contract{
		{ID: 1, RoomName: "P101", TenantName: "Nguyễn Văn A", Deposit: decimal.NewFromInt(6_000_000), Status: gateway.ContractActive},
		{ID: 2, RoomName: "P102", TenantName: "Trần Thị B", Deposit: decimal.NewFromInt(7_000_000), Status: gateway.ContractEnded},
		{ID: 3, RoomName: "P201", TenantName: "Trần Thị B", Deposit: decimal.RequireFromString("9000000.50"), Status: gateway.ContractActive},
	}
}

func TestFilterContracts(t *testing.T) {
	contracts := testContracts()

	require.Len(t, listing.FilterContracts(contracts, "", ""), 3)
	require.Len(t, listing.FilterContracts(contracts, "trần", ""), 2)
	require.Len(t, listing.FilterContracts(contracts, "trần", gateway.ContractActive), 1)
	require.Len(t, listing.FilterContracts(contracts, "p10", ""), 2)
}

func TestCurrentContract(t *testing.T) {
	c, ok := listing.CurrentContract(testContracts())
	require.True(t, ok)
	require.Equal(t, 1, c.ID)

	_, ok = listing.CurrentContract(testContracts()[1:2])
	require.False(t, ok)
}

func TestComputeStats(t *testing.T) {
	s := listing.ComputeStats(testRooms(), testContracts())

	require.Equal(t, 5, s.TotalRooms)
	require.Equal(t, 3, s.EmptyRooms)
	require.Equal(t, 1, s.RentedRooms)
	require.Equal(t, 1, s.MaintenanceRooms)
	require.Equal(t, 3, s.TotalContracts)
	require.Equal(t, 2, s.ActiveContracts)
	require.True(t, s.Revenue.Equal(decimal.RequireFromString("15000000.5")))
	require.True(t, s.OccupancyRate().Equal(decimal.NewFromInt(20)))

	require.True(t, listing.ComputeStats(nil, nil).OccupancyRate().IsZero())
}

func TestFormatVND(t *testing.T) {
	require.Equal(t, "4.500.000\u00a0₫", listing.FormatVND(decimal.NewFromInt(4_500_000)))
	require.Equal(t, "1.000\u00a0₫", listing.FormatVND(decimal.RequireFromString("999.99")))
	require.Equal(t, "5.000.000\u00a0₫", listing.FormatVND(decimal.RequireFromString("4999999.6")))
	require.Equal(t, "4.999.999\u00a0₫", listing.FormatVND(decimal.RequireFromString("4999999.4")))
	require.Equal(t, "0\u00a0₫", listing.FormatVND(decimal.Zero))
	require.Equal(t, "-1.000\u00a0₫", listing.FormatVND(decimal.NewFromInt(-1000)))
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "15/1/2024", listing.FormatDate(utils.Ptr("2024-01-15")))
	require.Equal(t, "soon", listing.FormatDate(utils.Ptr("soon")))
	require.Equal(t, "—", listing.FormatDate(nil))
}

func TestFormatArea(t *testing.T) {
	require.Equal(t, "20.5 m²", listing.FormatArea(utils.Ptr(decimal.NewFromFloat(20.5))))
	require.Equal(t, "—", listing.FormatArea(nil))
}
