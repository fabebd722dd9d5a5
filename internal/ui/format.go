package ui

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money formats an amount with thousands separators and two decimals
func Money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return d.StringFixed(2)
	}
	out := humanize.Comma(n) + "." + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// Balance formats a ledger balance with a Dr suffix when the party owes
// and Cr when it is in credit
func Balance(d decimal.Decimal) string {
	switch {
	case d.IsPositive():
		return Money(d) + " Dr"
	case d.IsNegative():
		return Money(d.Abs()) + " Cr"
	default:
		return Money(d)
	}
}

// ActiveLabel renders an is_active flag
func ActiveLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
