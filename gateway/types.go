package gateway

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qlpt/rental-portal/users"
	"github.com/shopspring/decimal"
)

// LoginRequest is the body of POST /api/auth/login/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by the login endpoint.
type TokenResponse struct {
	// Access is the short-lived bearer token sent on every resource call.
	Access string `json:"access"`

	// Refresh is the long-lived opaque token exchanged for a new access token.
	Refresh string `json:"refresh"`

	// User is the principal when the backend includes it. Older backends omit
	// it and the client derives the principal itself.
	User *users.User `json:"user,omitempty"`
}

// RefreshRequest is the body of POST /api/auth/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the new access token. A rotated refresh token may
// be present; the client keeps its original one.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// LoginResult is what a successful Authenticate hands to the session layer.
type LoginResult struct {
	Access  string
	Refresh string
	User    *users.User
}

// RegisterRequest is the body of POST /api/auth/register/.
type RegisterRequest struct {
	Email           string         `json:"email"`
	FullName        string         `json:"full_name"`
	Role            users.RoleType `json:"role"`
	Password        string         `json:"password"`
	PasswordConfirm string         `json:"password_confirm"`
}

// MsgPasswordMismatch is shown when the confirmation does not match.
const MsgPasswordMismatch = "Mật khẩu xác nhận không khớp"

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.FullName) == "" || r.Password == "" {
		return fmt.Errorf("email, full name and password are required")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("role %q is not valid", r.Role)
	}
	if r.Password != r.PasswordConfirm {
		return fmt.Errorf("%s", MsgPasswordMismatch)
	}
	return nil
}

type RoomStatus string

const (
	RoomEmpty       RoomStatus = "EMPTY"
	RoomRented      RoomStatus = "RENTED"
	RoomMaintenance RoomStatus = "MAINT"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomEmpty, RoomRented, RoomMaintenance:
		return true
	default:
		return false
	}
}

// Label is the Vietnamese status label shown in room lists.
func (s RoomStatus) Label() string {
	switch s {
	case RoomEmpty:
		return "Trống"
	case RoomRented:
		return "Đã thuê"
	case RoomMaintenance:
		return "Bảo trì"
	default:
		return string(s)
	}
}

type Room struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	AreaM2    *decimal.Decimal `json:"area_m2,omitempty"`
	BasePrice decimal.Decimal  `json:"base_price"`
	Status    RoomStatus       `json:"status"`
	Building  int              `json:"building"`
}

// RoomInput is the body of a room create.
type RoomInput struct {
	Name      string           `json:"name"`
	AreaM2    *decimal.Decimal `json:"area_m2,omitempty"`
	BasePrice decimal.Decimal  `json:"base_price"`
	Status    RoomStatus       `json:"status"`
	Building  int              `json:"building"`
}

// RoomPatch is a partial update; nil fields are left unchanged.
type RoomPatch struct {
	Name      *string          `json:"name,omitempty"`
	AreaM2    *decimal.Decimal `json:"area_m2,omitempty"`
	BasePrice *decimal.Decimal `json:"base_price,omitempty"`
	Status    *RoomStatus      `json:"status,omitempty"`
	Building  *int             `json:"building,omitempty"`
}

type ContractStatus string

const (
	ContractActive    ContractStatus = "ACTIVE"
	ContractEnded     ContractStatus = "ENDED"
	ContractSuspended ContractStatus = "SUSPENDED"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractActive, ContractEnded, ContractSuspended:
		return true
	default:
		return false
	}
}

func (s ContractStatus) Label() string {
	switch s {
	case ContractActive:
		return "Đang hiệu lực"
	case ContractEnded:
		return "Đã kết thúc"
	case ContractSuspended:
		return "Tạm dừng"
	default:
		return string(s)
	}
}

type Contract struct {
	ID           int             `json:"id"`
	Room         int             `json:"room"`
	RoomName     string          `json:"room_name"`
	Tenant       int             `json:"tenant"`
	TenantName   string          `json:"tenant_name"`
	StartDate    string          `json:"start_date"`
	EndDate      *string         `json:"end_date,omitempty"`
	Deposit      decimal.Decimal `json:"deposit"`
	BillingCycle string          `json:"billing_cycle"`
	Status       ContractStatus  `json:"status"`
}

// ContractCreate is the body of a contract create.
type ContractCreate struct {
	Room         int             `json:"room"`
	Tenant       int             `json:"tenant"`
	StartDate    string          `json:"start_date"`
	EndDate      *string         `json:"end_date,omitempty"`
	Deposit      decimal.Decimal `json:"deposit"`
	BillingCycle string          `json:"billing_cycle"`
}

type ContractPatch struct {
	EndDate      *string          `json:"end_date,omitempty"`
	Deposit      *decimal.Decimal `json:"deposit,omitempty"`
	BillingCycle *string          `json:"billing_cycle,omitempty"`
	Status       *ContractStatus  `json:"status,omitempty"`
}

// Page is the paginated list envelope used by every collection endpoint.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ListParams are the optional query parameters of list endpoints.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Ordering string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Ordering != "" {
		v.Set("ordering", p.Ordering)
	}
	return v
}
