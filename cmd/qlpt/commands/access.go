package commands

import (
	"strconv"

	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/session"
	"github.com/shopspring/decimal"
)

const msgOwnerOnly = "chỉ chủ trọ mới được thực hiện thao tác này"

// requireOwner applies the owner console's route check to a write command.
func (a *app) requireOwner() error {
	switch d := a.session.CheckRouteAccess(session.RequireOwner); d.Kind {
	case session.Permit:
		return nil
	case session.RedirectLogin, session.Pending:
		return errors.Wrapf(session.ErrNotAuthenticated, msgNotSignedIn)
	default:
		return errors.Wrapf(errors.ErrForbidden, msgOwnerOnly)
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "id %q must be a positive number", s)
	}
	return id, nil
}

// parseAmount reads an optional money or area flag. Empty means unset.
func parseAmount(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "--%s %q is not a number", name, s)
	}
	return &d, nil
}
