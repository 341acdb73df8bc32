package listing

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var viPrinter = message.NewPrinter(language.Vietnamese)

const (
	dateLayout   = "2006-01-02"
	viDateLayout = "2/1/2006"
	currencyMark = "\u00a0₫"
	missingValue = "—"
)

// FormatVND renders an amount as whole dong the vi-VN way, e.g.
// "4.500.000\u00a0₫". Fractions round half away from zero.
func FormatVND(amount decimal.Decimal) string {
	return viPrinter.Sprintf("%d", amount.Round(0).IntPart()) + currencyMark
}

// FormatDate turns a YYYY-MM-DD date into d/m/yyyy. Unparseable input is
// returned unchanged and nil renders as a dash.
func FormatDate(date *string) string {
	if date == nil || *date == "" {
		return missingValue
	}
	t, err := time.Parse(dateLayout, *date)
	if err != nil {
		return *date
	}
	return t.Format(viDateLayout)
}

// FormatArea renders an optional area in square metres.
func FormatArea(area *decimal.Decimal) string {
	if area == nil {
		return missingValue
	}
	return area.String() + " m²"
}
