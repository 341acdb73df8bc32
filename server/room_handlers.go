package server

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/listing"
	"github.com/qlpt/rental-portal/users"
	"github.com/shopspring/decimal"
)

const (
	msgRoomNameTaken   = "room with this name already exists."
	msgRoomHasContract = "Phòng đang có hợp đồng hiệu lực"
	msgInvalidNumber   = "A valid number is required."
	msgInvalidInteger  = "A valid integer is required."
	msgNotNegative     = "Ensure this value is greater than or equal to 0."
	msgInvalidChoice   = `"%s" is not a valid choice.`
)

// roomFilterFromQuery reads status, building, min_price, max_price and search.
func roomFilterFromQuery(r *http.Request, lq listQuery) (listing.RoomFilter, fieldErrors) {
	q := r.URL.Query()
	fe := fieldErrors{}
	f := listing.RoomFilter{Search: lq.Search}

	if v := q.Get("status"); v != "" {
		f.Status = gateway.RoomStatus(strings.ToUpper(v))
		if !f.Status.Valid() {
			fe.add("status", fmt.Sprintf(msgInvalidChoice, v))
		}
	}
	if v := q.Get("building"); v != "" && v != "all" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fe.add("building", msgInvalidInteger)
		}
		f.Building = n
	}
	for _, bound := range []struct {
		key string
		dst **decimal.Decimal
	}{{"min_price", &f.MinPrice}, {"max_price", &f.MaxPrice}} {
		if v := q.Get(bound.key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				fe.add(bound.key, msgInvalidNumber)
				continue
			}
			*bound.dst = &d
		}
	}
	if len(fe) > 0 {
		return f, fe
	}
	return f, nil
}

func sortRoomsBy(rooms []gateway.Room, raw string) []gateway.Room {
	field, desc := ordering(raw)
	var sorted []gateway.Room
	switch field {
	case "base_price", "price":
		sorted = listing.SortRooms(rooms, listing.SortByPrice)
	case "area_m2", "area":
		sorted = listing.SortRooms(rooms, listing.SortByArea)
	case "name":
		sorted = listing.SortRooms(rooms, listing.SortByName)
	case "building":
		sorted = slices.Clone(rooms)
		slices.SortStableFunc(sorted, func(a, b gateway.Room) int { return a.Building - b.Building })
	default:
		sorted = slices.Clone(rooms)
	}
	if desc {
		slices.Reverse(sorted)
	}
	return sorted
}

// visibleRooms applies the caller's role. Tenants browse vacant rooms and
// may still open the rooms they rent.
func (s *Server) visibleRooms(user *users.User, rooms []gateway.Room) ([]gateway.Room, error) {
	if user.Role == users.RoleOwner {
		return rooms, nil
	}
	rented, err := s.rentedRoomIDs(user.ID)
	if err != nil {
		return nil, err
	}
	out := make([]gateway.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Status == gateway.RoomEmpty || rented[room.ID] {
			out = append(out, room)
		}
	}
	return out, nil
}

func (s *Server) rentedRoomIDs(tenantID int) (map[int]bool, error) {
	contracts, err := s.repos.Contracts.ListByTenant(tenantID)
	if err != nil {
		return nil, err
	}
	ids := make(map[int]bool, len(contracts))
	for _, c := range contracts {
		if c.Status == gateway.ContractActive {
			ids[c.Room] = true
		}
	}
	return ids, nil
}

func (s *Server) ListRoomsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lq, fe := parseListQuery(r)
		if fe != nil {
			writeFieldErrors(w, fe)
			return
		}
		filter, fe := roomFilterFromQuery(r, lq)
		if fe != nil {
			writeFieldErrors(w, fe)
			return
		}

		rooms, err := s.repos.Rooms.List()
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		rooms, err = s.visibleRooms(principalFrom(r), rooms)
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		rooms = sortRoomsBy(listing.FilterRooms(rooms, filter), lq.Ordering)

		page, ok := paginate(r, rooms, lq)
		if !ok {
			invalidPage(w)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) GetRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := s.roomFromPath(w, r)
		if !ok {
			return
		}
		visible, err := s.visibleRooms(principalFrom(r), []gateway.Room{room})
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		if len(visible) == 0 {
			writeJSONError(w, msgNotFound, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, room)
	}
}

func (s *Server) CreateRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in gateway.RoomInput
		if err := decodeJSON(r, &in); err != nil {
			writeJSONError(w, msgMalformedJSONBody, http.StatusBadRequest)
			return
		}
		if in.Status == "" {
			in.Status = gateway.RoomEmpty
		}
		room := gateway.Room{
			Name:      strings.TrimSpace(in.Name),
			AreaM2:    in.AreaM2,
			BasePrice: in.BasePrice,
			Status:    in.Status,
			Building:  in.Building,
		}

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		if fe := s.validateRoom(room); fe != nil {
			writeFieldErrors(w, fe)
			return
		}
		created, err := s.repos.Rooms.Create(room)
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		s.log.Info().Int("room_id", created.ID).Str("name", created.Name).Msg("room created")
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) UpdateRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch gateway.RoomPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeJSONError(w, msgMalformedJSONBody, http.StatusBadRequest)
			return
		}

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		room, ok := s.roomFromPath(w, r)
		if !ok {
			return
		}
		if patch.Name != nil {
			room.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.AreaM2 != nil {
			room.AreaM2 = patch.AreaM2
		}
		if patch.BasePrice != nil {
			room.BasePrice = *patch.BasePrice
		}
		if patch.Status != nil {
			room.Status = *patch.Status
		}
		if patch.Building != nil {
			room.Building = *patch.Building
		}

		if fe := s.validateRoom(room); fe != nil {
			writeFieldErrors(w, fe)
			return
		}
		if err := s.repos.Rooms.Update(room); err != nil {
			s.writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)
	}
}

func (s *Server) DeleteRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		room, ok := s.roomFromPath(w, r)
		if !ok {
			return
		}
		contracts, err := s.repos.Contracts.List()
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		for _, c := range contracts {
			if c.Room == room.ID && c.Status == gateway.ContractActive {
				writeJSONError(w, msgRoomHasContract, http.StatusConflict)
				return
			}
		}
		if err := s.repos.Rooms.Delete(room.ID); err != nil {
			s.writeRepoError(w, err)
			return
		}
		s.log.Info().Int("room_id", room.ID).Msg("room deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) roomFromPath(w http.ResponseWriter, r *http.Request) (gateway.Room, bool) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, msgNotFound, http.StatusNotFound)
		return gateway.Room{}, false
	}
	room, err := s.repos.Rooms.Get(id)
	if err != nil {
		s.writeRepoError(w, err)
		return gateway.Room{}, false
	}
	return room, true
}

// validateRoom checks field rules and name uniqueness. Callers hold writeMu.
func (s *Server) validateRoom(room gateway.Room) fieldErrors {
	fe := fieldErrors{}
	if room.Name == "" {
		fe.add("name", msgFieldRequired)
	}
	if room.BasePrice.IsNegative() {
		fe.add("base_price", msgNotNegative)
	}
	if room.AreaM2 != nil && room.AreaM2.IsNegative() {
		fe.add("area_m2", msgNotNegative)
	}
	if !room.Status.Valid() {
		fe.add("status", fmt.Sprintf(msgInvalidChoice, room.Status))
	}
	if room.Building < 1 {
		fe.add("building", "Ensure this value is greater than or equal to 1.")
	}

	if room.Name != "" {
		if rooms, err := s.repos.Rooms.List(); err == nil {
			for _, other := range rooms {
				if other.ID != room.ID && strings.EqualFold(other.Name, room.Name) {
					fe.add("name", msgRoomNameTaken)
					break
				}
			}
		}
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}
