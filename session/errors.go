package session

import (
	"errors"
	"fmt"

	"github.com/qlpt/rental-portal/gateway"
	apperrors "github.com/qlpt/rental-portal/internal/errors"
)

// Error kinds surfaced by the Manager. Test with errors.Is.
var (
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	ErrInvalidInput       = apperrors.ErrInvalidInput
	ErrCorruptSession     = apperrors.ErrCorruptSession
	ErrRefreshFailure     = apperrors.ErrRefreshFailure
	ErrNetwork            = apperrors.ErrNetwork
	ErrNotAuthenticated   = apperrors.ErrNotAuthenticated
	ErrSessionExpired     = apperrors.ErrSessionExpired
	ErrInternal           = apperrors.ErrInternal
)

// CorruptSessionError reports a persisted snapshot that could not be read
// back. Key names the first offending entry.
type CorruptSessionError struct {
	Key string
	Err error
}

func (e *CorruptSessionError) Error() string {
	return fmt.Sprintf("corrupt session snapshot (%s): %v", e.Key, e.Err)
}

func (e *CorruptSessionError) Unwrap() []error {
	return []error{ErrCorruptSession, e.Err}
}

// Inline messages shown under the login and register forms.
const (
	MsgLoginFailed    = "Đăng nhập thất bại. Vui lòng thử lại."
	MsgRegisterFailed = "Đăng ký thất bại. Vui lòng thử lại."
	MsgNetwork        = "Không thể kết nối tới máy chủ. Vui lòng thử lại."
	MsgSessionExpired = "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại."
)

// DisplayMessage turns an error from Login, Register or a resource call into
// the text shown to the user. The server's own detail wins when present.
func DisplayMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	switch {
	case errors.Is(err, ErrSessionExpired):
		return MsgSessionExpired
	case errors.Is(err, ErrNetwork):
		return MsgNetwork
	default:
		return fallback
	}
}
