package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// maxExponent bounds the decimal exponent of a parsed amount. Larger
// exponents expand to numbers with that many digits on the first arithmetic.
const maxExponent = 30

// ParseAmount converts a spreadsheet cell to a decimal. It accepts thousands
// separators, currency symbols, accounting parentheses and trailing minus signs.
// Blank cells and lone dashes are zero. ok is false when the cell could not be
// parsed, in which case the returned amount is zero. A cell carrying more than
// one negative marker, such as "(-100)", is not parsed.
func ParseAmount(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "=")
	s = strings.Trim(s, `"`)
	switch s {
	case "", "-", "\u2013", "\u2014":
		return decimal.Zero, true
	}

	markers := 0
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		markers++
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasSuffix(s, "-") {
		markers++
		s = strings.TrimSpace(strings.TrimSuffix(s, "-"))
	}

	s = strings.NewReplacer(
		"$", "",
		"\u20ac", "", // Euro
		"\u00a3", "", // Pound
		",", "",
		" ", "",
		"\u00a0", "",
	).Replace(s)

	if strings.HasPrefix(s, "-") {
		markers++
	}
	if markers > 1 || !numericRegex.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false
	}
	if markers == 1 && !strings.HasPrefix(s, "-") {
		d = d.Neg()
	}
	return d, true
}
