// Package listing holds the in-memory list work done by the consoles:
// filtering and sorting rooms, dashboard figures and display formatting.
package listing

import (
	"sort"
	"strings"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/shopspring/decimal"
)

// RoomFilter selects rooms. Zero values match everything.
type RoomFilter struct {
	Building int // 0 means every building
	Status   gateway.RoomStatus
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string // case-insensitive substring of the name
}

// TenantRoomFilter is the vacant-room browser's starting filter.
func TenantRoomFilter() RoomFilter {
	minPrice, maxPrice := decimal.Zero, decimal.NewFromInt(10_000_000)
	return RoomFilter{Status: gateway.RoomEmpty, MinPrice: &minPrice, MaxPrice: &maxPrice}
}

func (f RoomFilter) match(r gateway.Room) bool {
	if f.Building != 0 && r.Building != f.Building {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	// Prices compare as whole dong.
	price := r.BasePrice.Truncate(0)
	if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(strings.TrimSpace(f.Search))) {
		return false
	}
	return true
}

func FilterRooms(rooms []gateway.Room, f RoomFilter) []gateway.Room {
	out := make([]gateway.Room, 0, len(rooms))
	for _, r := range rooms {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// AvailableRooms are the rooms a new contract can be written for.
func AvailableRooms(rooms []gateway.Room) []gateway.Room {
	return FilterRooms(rooms, RoomFilter{Status: gateway.RoomEmpty})
}

type SortKey string

const (
	SortByPrice SortKey = "price"
	SortByArea  SortKey = "area"
	SortByName  SortKey = "name"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByPrice, SortByArea, SortByName:
		return k, nil
	case "":
		return SortByPrice, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidInput, "unknown sort key %q (want price, area or name)", s)
	}
}

// SortRooms returns a sorted copy, ascending. Rooms without an area sort as
// zero. Ties keep their input order.
func SortRooms(rooms []gateway.Room, key SortKey) []gateway.Room {
	out := append([]gateway.Room(nil), rooms...)
	var less func(a, b gateway.Room) bool
	switch key {
	case SortByArea:
		less = func(a, b gateway.Room) bool { return areaOf(a).LessThan(areaOf(b)) }
	case SortByName:
		less = func(a, b gateway.Room) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b gateway.Room) bool { return a.BasePrice.Truncate(0).LessThan(b.BasePrice.Truncate(0)) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func areaOf(r gateway.Room) decimal.Decimal {
	if r.AreaM2 == nil {
		return decimal.Zero
	}
	return *r.AreaM2
}

// Buildings lists the distinct building numbers, ascending.
func Buildings(rooms []gateway.Room) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range rooms {
		if _, ok := seen[r.Building]; ok {
			continue
		}
		seen[r.Building] = struct{}{}
		out = append(out, r.Building)
	}
	sort.Ints(out)
	return out
}
