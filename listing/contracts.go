package listing

import (
	"strings"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/shopspring/decimal"
)

// FilterContracts matches search against room and tenant names. An empty
// status matches every contract.
func FilterContracts(contracts []gateway.Contract, search string, status gateway.ContractStatus) []gateway.Contract {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]gateway.Contract, 0, len(contracts))
	for _, c := range contracts {
		if status != "" && c.Status != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.RoomName), search) &&
			!strings.Contains(strings.ToLower(c.TenantName), search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CurrentContract is the tenant's first active contract, if any.
func CurrentContract(contracts []gateway.Contract) (*gateway.Contract, bool) {
	for i := range contracts {
		if contracts[i].Status == gateway.ContractActive {
			c := contracts[i]
			return &c, true
		}
	}
	return nil, false
}

// Stats are the owner dashboard figures.
type Stats struct {
	TotalRooms       int
	EmptyRooms       int
	RentedRooms      int
	MaintenanceRooms int
	TotalContracts   int
	ActiveContracts  int
	Revenue          decimal.Decimal // sum of deposits on active contracts
}

func ComputeStats(rooms []gateway.Room, contracts []gateway.Contract) Stats {
	s := Stats{TotalRooms: len(rooms), TotalContracts: len(contracts), Revenue: decimal.Zero}
	for _, r := range rooms {
		switch r.Status {
		case gateway.RoomEmpty:
			s.EmptyRooms++
		case gateway.RoomRented:
			s.RentedRooms++
		case gateway.RoomMaintenance:
			s.MaintenanceRooms++
		}
	}
	for _, c := range contracts {
		if c.Status == gateway.ContractActive {
			s.ActiveContracts++
			s.Revenue = s.Revenue.Add(c.Deposit)
		}
	}
	return s
}

// OccupancyRate is rented rooms over all rooms, as a percentage.
func (s Stats) OccupancyRate() decimal.Decimal {
	if s.TotalRooms == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.RentedRooms)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(s.TotalRooms))).
		Round(1)
}
