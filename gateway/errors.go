package gateway

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/qlpt/rental-portal/internal/errors"
	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status    int
	Detail    string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}

// Unwrap maps the status onto the shared error kinds so callers can use
// errors.Is without knowing HTTP.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest:
		return apperrors.ErrInvalidInput
	case e.Status == http.StatusUnauthorized:
		return apperrors.ErrNotAuthenticated
	case e.Status == http.StatusForbidden:
		return apperrors.ErrForbidden
	case e.Status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.Status == http.StatusConflict:
		return apperrors.ErrConflict
	case e.Status >= 500:
		return apperrors.ErrInternal
	default:
		return nil
	}
}

func newAPIError(status int, body []byte, requestID string) *APIError {
	return &APIError{Status: status, Detail: detailFromBody(body), RequestID: requestID}
}

// detailFromBody pulls a human readable message out of an error body. The
// backend uses {"detail": "..."} for most errors and {"field": ["..."]} for
// validation failures.
func detailFromBody(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return ""
	}
	for _, key := range []string{"detail", "error_description", "error"} {
		if v := res.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}

	var msg string
	res.ForEach(func(k, v gjson.Result) bool {
		text := v.String()
		if v.IsArray() {
			text = v.Get("0").String()
		}
		if text == "" {
			return true
		}
		if k.String() == "non_field_errors" {
			msg = text
		} else {
			msg = k.String() + ": " + text
		}
		return false
	})
	return strings.TrimSpace(msg)
}
