package server

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/listing"
	"github.com/qlpt/rental-portal/users"
)

const (
	dateLayout          = "2006-01-02"
	defaultBillingCycle = "MONTHLY"

	msgInvalidPK       = `Invalid pk "%d" - object does not exist.`
	msgRoomNotEmpty    = "Phòng đã có người thuê"
	msgNotATenant      = "Người thuê không hợp lệ"
	msgInvalidDate     = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgEndBeforeStart  = "Ngày kết thúc phải sau ngày bắt đầu"
	msgContractNotLive = "Hợp đồng không còn hiệu lực"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

func today() string {
	return NowTimeFunc().Format(dateLayout)
}

func sortContractsBy(contracts []gateway.Contract, raw string) []gateway.Contract {
	field, desc := ordering(raw)
	sorted := slices.Clone(contracts)
	switch field {
	case "start_date":
		// ISO dates order lexically
		slices.SortStableFunc(sorted, func(a, b gateway.Contract) int { return strings.Compare(a.StartDate, b.StartDate) })
	case "deposit":
		slices.SortStableFunc(sorted, func(a, b gateway.Contract) int { return a.Deposit.Cmp(b.Deposit) })
	case "room_name":
		slices.SortStableFunc(sorted, func(a, b gateway.Contract) int {
			return strings.Compare(strings.ToLower(a.RoomName), strings.ToLower(b.RoomName))
		})
	}
	if desc {
		slices.Reverse(sorted)
	}
	return sorted
}

// visibleContracts is every contract for an owner and only their own for
// anyone else.
func (s *Server) visibleContracts(user *users.User) ([]gateway.Contract, error) {
	if user.Role == users.RoleOwner {
		return s.repos.Contracts.List()
	}
	return s.repos.Contracts.ListByTenant(user.ID)
}

func (s *Server) ListContractsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lq, fe := parseListQuery(r)
		if fe != nil {
			writeFieldErrors(w, fe)
			return
		}
		status := gateway.ContractStatus(strings.ToUpper(r.URL.Query().Get("status")))
		if status != "" && !status.Valid() {
			writeFieldErrors(w, fieldErrors{"status": {fmt.Sprintf(msgInvalidChoice, status)}})
			return
		}

		contracts, err := s.visibleContracts(principalFrom(r))
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		contracts = sortContractsBy(listing.FilterContracts(contracts, lq.Search, status), lq.Ordering)

		page, ok := paginate(r, contracts, lq)
		if !ok {
			invalidPage(w)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) GetContractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contract, ok := s.contractFromPath(w, r)
		if !ok {
			return
		}
		user := principalFrom(r)
		if user.Role != users.RoleOwner && contract.Tenant != user.ID {
			writeJSONError(w, msgNotFound, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, contract)
	}
}

// CreateContractHandler rents an empty room to a tenant. The room becomes
// RENTED.
func (s *Server) CreateContractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in gateway.ContractCreate
		if err := decodeJSON(r, &in); err != nil {
			writeJSONError(w, msgMalformedJSONBody, http.StatusBadRequest)
			return
		}
		if in.BillingCycle == "" {
			in.BillingCycle = defaultBillingCycle
		}

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		fe := fieldErrors{}
		room, err := s.repos.Rooms.Get(in.Room)
		if err != nil {
			fe.add("room", fmt.Sprintf(msgInvalidPK, in.Room))
		} else if room.Status != gateway.RoomEmpty {
			fe.add(nonFieldErrors, msgRoomNotEmpty)
		}
		tenant, err := s.repos.Users.GetByID(in.Tenant)
		if err != nil || tenant == nil {
			fe.add("tenant", fmt.Sprintf(msgInvalidPK, in.Tenant))
		} else if tenant.Role != users.RoleTenant {
			fe.add("tenant", msgNotATenant)
		}
		if in.Deposit.IsNegative() {
			fe.add("deposit", msgNotNegative)
		}
		validateDates(fe, in.StartDate, in.EndDate)
		if len(fe) > 0 {
			writeFieldErrors(w, fe)
			return
		}

		contract, err := s.repos.Contracts.Create(gateway.Contract{
			Room:         room.ID,
			RoomName:     room.Name,
			Tenant:       tenant.ID,
			TenantName:   tenant.DisplayName(),
			StartDate:    in.StartDate,
			EndDate:      in.EndDate,
			Deposit:      in.Deposit,
			BillingCycle: in.BillingCycle,
			Status:       gateway.ContractActive,
		})
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		room.Status = gateway.RoomRented
		if err := s.repos.Rooms.Update(room); err != nil {
			s.writeRepoError(w, err)
			return
		}

		s.log.Info().Int("contract_id", contract.ID).Int("room_id", room.ID).Int("tenant_id", tenant.ID).Msg("contract created")
		writeJSON(w, http.StatusCreated, contract)
	}
}

func (s *Server) UpdateContractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch gateway.ContractPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeJSONError(w, msgMalformedJSONBody, http.StatusBadRequest)
			return
		}

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		contract, ok := s.contractFromPath(w, r)
		if !ok {
			return
		}
		wasActive := contract.Status == gateway.ContractActive
		if patch.EndDate != nil {
			contract.EndDate = patch.EndDate
		}
		if patch.Deposit != nil {
			contract.Deposit = *patch.Deposit
		}
		if patch.BillingCycle != nil {
			contract.BillingCycle = *patch.BillingCycle
		}
		if patch.Status != nil {
			contract.Status = *patch.Status
		}

		fe := fieldErrors{}
		if !contract.Status.Valid() {
			fe.add("status", fmt.Sprintf(msgInvalidChoice, contract.Status))
		}
		if contract.Deposit.IsNegative() {
			fe.add("deposit", msgNotNegative)
		}
		validateDates(fe, contract.StartDate, contract.EndDate)
		if !wasActive && contract.Status == gateway.ContractActive {
			fe.add("status", msgContractNotLive)
		}
		if len(fe) > 0 {
			writeFieldErrors(w, fe)
			return
		}

		if err := s.repos.Contracts.Update(contract); err != nil {
			s.writeRepoError(w, err)
			return
		}
		if wasActive && contract.Status != gateway.ContractActive {
			s.releaseRoom(contract.Room)
		}
		writeJSON(w, http.StatusOK, contract)
	}
}

// EndContractHandler ends an active contract today and frees its room.
func (s *Server) EndContractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		contract, ok := s.contractFromPath(w, r)
		if !ok {
			return
		}
		if contract.Status != gateway.ContractActive {
			writeJSONError(w, msgContractNotLive, http.StatusBadRequest)
			return
		}

		end := today()
		contract.EndDate = &end
		contract.Status = gateway.ContractEnded
		if err := s.repos.Contracts.Update(contract); err != nil {
			s.writeRepoError(w, err)
			return
		}
		s.releaseRoom(contract.Room)

		s.log.Info().Int("contract_id", contract.ID).Msg("contract ended")
		writeJSON(w, http.StatusOK, contract)
	}
}

func (s *Server) DeleteContractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		contract, ok := s.contractFromPath(w, r)
		if !ok {
			return
		}
		if err := s.repos.Contracts.Delete(contract.ID); err != nil {
			s.writeRepoError(w, err)
			return
		}
		if contract.Status == gateway.ContractActive {
			s.releaseRoom(contract.Room)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// releaseRoom marks a rented room empty again. Callers hold writeMu.
func (s *Server) releaseRoom(id int) {
	room, err := s.repos.Rooms.Get(id)
	if err != nil {
		// The room may have been removed
		s.log.Warn().Err(err).Int("room_id", id).Msg("contract room not found")
		return
	}
	if room.Status != gateway.RoomRented {
		return
	}
	room.Status = gateway.RoomEmpty
	if err := s.repos.Rooms.Update(room); err != nil {
		s.log.Err(err).Int("room_id", id).Msg("failed to release room")
	}
}

func (s *Server) contractFromPath(w http.ResponseWriter, r *http.Request) (gateway.Contract, bool) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, msgNotFound, http.StatusNotFound)
		return gateway.Contract{}, false
	}
	contract, err := s.repos.Contracts.Get(id)
	if err != nil {
		s.writeRepoError(w, err)
		return gateway.Contract{}, false
	}
	return contract, true
}

func validateDates(fe fieldErrors, start string, end *string) {
	startAt, err := time.Parse(dateLayout, start)
	if err != nil {
		fe.add("start_date", msgInvalidDate)
		return
	}
	if end == nil || *end == "" {
		return
	}
	endAt, err := time.Parse(dateLayout, *end)
	if err != nil {
		fe.add("end_date", msgInvalidDate)
		return
	}
	if !endAt.After(startAt) {
		fe.add("end_date", msgEndBeforeStart)
	}
}
