// Package util provides shared display helpers: placeholder substitution for
// missing product fields, price and rating formatting, and truncation.
package util

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is shown in place of any missing product field.
const Placeholder = "N/A"

// OrNA returns s, or the placeholder when s is blank.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// FormatPrice formats a price as "$<amount>" keeping the source precision
// (109.95 → "$109.95", 15 → "$15"). A missing price renders as "$N/A".
func FormatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "$" + Placeholder
	}
	return "$" + p.Decimal.String()
}

// FormatRate formats an average rating, or the placeholder when missing.
func FormatRate(r *float64) string {
	if r == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

// FormatCount formats an integer count, or the placeholder when missing.
func FormatCount(n *int) string {
	if n == nil {
		return Placeholder
	}
	return strconv.Itoa(*n)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
