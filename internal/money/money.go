// Package money parses and formats Brazilian real (BRL) amounts.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmpty is returned when there is nothing to parse.
var ErrEmpty = errors.New("empty amount")

var hundred = decimal.NewFromInt(100)

// ParseBRL parses amounts written the Brazilian way ("R$ 1.234,56") and
// tolerates the anglo form ("1,234.56"). Parentheses or a leading minus mark
// negative values. A decimal comma takes at most two digits, so "1,234" is
// rejected rather than read as 1,23. The result is rounded to cents.
func ParseBRL(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	v = strings.ReplaceAll(v, "R$", "")
	v = strings.ReplaceAll(v, "\u00a0", "")
	v = strings.ReplaceAll(v, " ", "")
	if v == "" {
		return decimal.Zero, ErrEmpty
	}

	neg := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		neg = true
		v = v[1 : len(v)-1]
	}
	if strings.HasPrefix(v, "-") {
		neg = !neg
		v = v[1:]
	}
	v = strings.TrimPrefix(v, "+")

	lastDot := strings.LastIndex(v, ".")
	lastComma := strings.LastIndex(v, ",")

	switch {
	case lastComma > lastDot:
		// 1.234,56
		if len(v)-lastComma-1 > 2 {
			return decimal.Zero, fmt.Errorf("invalid amount %q: more than two decimal places", s)
		}
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	case lastDot > lastComma:
		v = strings.ReplaceAll(v, ",", "")
		if strings.Count(v, ".") > 1 {
			// 1.234.567 with no decimals
			v = strings.ReplaceAll(v, ".", "")
		} else if lastComma < 0 && len(v)-lastDot-1 == 3 && lastDot > 0 && v[:lastDot] != "0" {
			// 1.234 is a thousands separator in pt-BR
			v = strings.ReplaceAll(v, ".", "")
		}
	}

	for _, r := range v {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, fmt.Errorf("invalid amount %q", s)
		}
	}
	if v == "" || v == "." {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d.Round(2), nil
}

// FormatBRL renders d as "R$ 1.234,56" ("-R$ 1.234,56" when negative).
func FormatBRL(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-R$ " + FormatPlain(d.Neg())
	}
	return "R$ " + FormatPlain(d)
}

// FormatPlain renders d as "1.234,56" without the currency symbol.
func FormatPlain(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "," + frac
}

// Cents converts d to an integer number of cents, rounding half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromCents converts an integer number of cents to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// HasAtMostTwoPlaces reports whether d can be represented exactly in cents.
func HasAtMostTwoPlaces(d decimal.Decimal) bool {
	m := d.Mul(hundred)
	return m.Equal(m.Truncate(0))
}

// Split divides total into n parts truncated to cents. The rounding
// remainder goes to the first part so the parts always add up to total.
func Split(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	cents := Cents(total)
	base := cents / int64(n)
	rem := cents - base*int64(n)

	parts := make([]decimal.Decimal, n)
	for i := range parts {
		c := base
		if i == 0 {
			c += rem
		}
		parts[i] = FromCents(c)
	}
	return parts
}
