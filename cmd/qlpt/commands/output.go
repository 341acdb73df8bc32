package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/listing"
	"github.com/qlpt/rental-portal/session"
	"github.com/qlpt/rental-portal/users"
)

const (
	msgNotSignedIn   = "chưa đăng nhập, hãy chạy 'qlpt login' trước"
	msgRequestFailed = "Yêu cầu thất bại. Vui lòng thử lại."
	msgNoResults     = "Không có kết quả."
)

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	errText  = color.New(color.FgRed, color.Bold).SprintFunc()
	dimText  = color.New(color.Faint).SprintFunc()
)

// errorLine is the one line printed for a failed command. Backend details and
// session expiry read the same as in the web client.
func errorLine(err error) string {
	msg := err.Error()
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) || errors.Is(err, session.ErrSessionExpired) || errors.Is(err, session.ErrNetwork) {
		msg = session.DisplayMessage(err, msgRequestFailed)
	}
	return errText("Lỗi: ") + msg
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}

func roomStatusText(s gateway.RoomStatus) string {
	switch s {
	case gateway.RoomEmpty:
		return okText(s.Label())
	case gateway.RoomMaintenance:
		return warnText(s.Label())
	default:
		return s.Label()
	}
}

func contractStatusText(s gateway.ContractStatus) string {
	switch s {
	case gateway.ContractActive:
		return okText(s.Label())
	case gateway.ContractSuspended:
		return warnText(s.Label())
	default:
		return dimText(s.Label())
	}
}

func (a *app) printRooms(rooms []gateway.Room) error {
	if outputJSON {
		return writeJSON(a.out, rooms)
	}
	if len(rooms) == 0 {
		fmt.Fprintln(a.out, msgNoResults)
		return nil
	}
	table := newTable(a.out, "ID", "Phòng", "Tòa", "Diện tích", "Giá thuê", "Trạng thái")
	for _, r := range rooms {
		table.Append([]string{
			strconv.Itoa(r.ID),
			r.Name,
			strconv.Itoa(r.Building),
			listing.FormatArea(r.AreaM2),
			listing.FormatVND(r.BasePrice),
			roomStatusText(r.Status),
		})
	}
	table.Render()
	return nil
}

func (a *app) printRoom(r *gateway.Room) error {
	if outputJSON {
		return writeJSON(a.out, r)
	}
	return a.printRooms([]gateway.Room{*r})
}

func (a *app) printContracts(contracts []gateway.Contract) error {
	if outputJSON {
		return writeJSON(a.out, contracts)
	}
	if len(contracts) == 0 {
		fmt.Fprintln(a.out, msgNoResults)
		return nil
	}
	table := newTable(a.out, "ID", "Phòng", "Khách thuê", "Bắt đầu", "Kết thúc", "Tiền cọc", "Chu kỳ", "Trạng thái")
	for _, c := range contracts {
		start := c.StartDate
		table.Append([]string{
			strconv.Itoa(c.ID),
			c.RoomName,
			c.TenantName,
			listing.FormatDate(&start),
			listing.FormatDate(c.EndDate),
			listing.FormatVND(c.Deposit),
			c.BillingCycle,
			contractStatusText(c.Status),
		})
	}
	table.Render()
	return nil
}

func (a *app) printContract(c *gateway.Contract) error {
	if outputJSON {
		return writeJSON(a.out, c)
	}
	return a.printContracts([]gateway.Contract{*c})
}

func (a *app) printUser(u *users.User) error {
	if outputJSON {
		return writeJSON(a.out, u)
	}
	table := newTable(a.out, "ID", "Email", "Họ tên", "Vai trò")
	table.Append([]string{strconv.Itoa(u.ID), u.Email, u.FullName, string(u.Role)})
	table.Render()
	return nil
}
