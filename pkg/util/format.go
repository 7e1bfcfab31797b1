package util

import (
	"fmt"
	"strings"

	"github.com/nftlens/cli/pkg/analytics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// OrDash returns the string if non-empty, otherwise returns "-".
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// FirstOrDash returns the first non-empty string from the provided items.
// If all items are empty, it returns "-".
func FirstOrDash(items ...string) string {
	for _, item := range items {
		if item != "" {
			return item
		}
	}
	return "-"
}

// JoinOrDash joins the provided strings with ", " as separator.
// If no items are provided, it returns "-".
func JoinOrDash(items ...string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// FormatFloat formats v with thousands separators and the given number of decimals.
func FormatFloat(v float64, decimals int) string {
	return numberPrinter.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// FormatNumber formats n like FormatFloat, or "-" when the API had no value.
func FormatNumber(n analytics.Number, decimals int) string {
	if !n.Valid {
		return "-"
	}
	return FormatFloat(n.Value, decimals)
}

// FormatUSD formats n as a dollar amount with two decimals.
func FormatUSD(n analytics.Number) string {
	if !n.Valid {
		return "-"
	}
	if n.Value < 0 {
		return "-$" + FormatFloat(-n.Value, 2)
	}
	return "$" + FormatFloat(n.Value, 2)
}

// FormatChange formats a fractional change (0.12 = 12%) as a signed percentage.
func FormatChange(n analytics.Number) string {
	if !n.Valid {
		return "-"
	}
	pct := n.Value * 100
	if pct > 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// ShortAddress abbreviates a long hex address to 0x1234...abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 14 {
		return OrDash(addr)
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
