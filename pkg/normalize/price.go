// Package normalize holds the small, total conversion functions that turn
// loosely formatted upstream values into the numbers the storefront renders.
// Nothing in this package returns an error or panics; failures collapse to a
// documented sentinel instead.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Unavailable is the display token for a price that could not be resolved.
const Unavailable = "unavailable"

// currencyAmountRe matches a currency symbol, any non-digit run, then the
// first group of digits and grouping commas.
var currencyAmountRe = regexp.MustCompile(`[₹$€£][^\d]*([\d,]+)`)

// NormalizePrice extracts an integer amount from free text such as
// "₹ 12,499" or "Now only ₹1,09,999!". The second return value is false when
// no currency-prefixed amount is present or it does not parse.
func NormalizePrice(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}

	m := currencyAmountRe.FindStringSubmatch(raw)
	if len(m) < 2 || m[1] == "" {
		return 0, false
	}

	digits := strings.ReplaceAll(m[1], ",", "")
	if digits == "" {
		return 0, false
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// PriceText returns the normalized amount as a decimal string, or
// Unavailable.
func PriceText(raw string) string {
	v, ok := NormalizePrice(raw)
	if !ok {
		return Unavailable
	}
	return strconv.FormatInt(v, 10)
}

// ParseBudget accepts either a bare integer ("30000") or a currency string
// ("₹30,000") and returns the amount. Anything else yields 0, which callers
// treat as "no budget".
func ParseBudget(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if v, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64); err == nil {
		if v < 0 {
			return 0
		}
		return v
	}
	if v, ok := NormalizePrice(raw); ok {
		return v
	}
	return 0
}
