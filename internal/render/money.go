package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// money formats a decimal for display, e.g. $1,234.56 or -$30,000.00.
// Engine values stay at full precision; rounding to cents happens only here.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}

// percent formats a discount column value. Fixed-price lines show a dash
// because their discount is baked into the price pair, not a percentage.
func percent(d decimal.Decimal, fixed bool) string {
	if fixed {
		return "-"
	}
	return d.String() + "%"
}
