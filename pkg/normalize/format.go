package normalize

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	rupee = "₹"
	lakh  = 100_000
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount with Indian locale digit grouping, e.g.
// "₹12,499".
func FormatINR(amount int64) string {
	return rupee + inrPrinter.Sprintf("%d", amount)
}

// FormatCompactINR renders a short budget label: "₹1.2L" at or above one
// lakh, "₹25K" below.
func FormatCompactINR(amount int64) string {
	if amount >= lakh {
		return fmt.Sprintf("%s%.1fL", rupee, math.Round(float64(amount)/lakh*10)/10)
	}
	return fmt.Sprintf("%s%dK", rupee, int64(math.Round(float64(amount)/1000)))
}
