// Package document validates and formats Brazilian identification numbers
// (CPF, CNPJ, CEP) and contact fields.
package document

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Type identifies a taxpayer document.
type Type string

const (
	TypeCPF  Type = "cpf"
	TypeCNPJ Type = "cnpj"
)

var (
	// ErrInvalidCPF is returned for a CPF with a bad length or check digit.
	ErrInvalidCPF = errors.New("invalid CPF")
	// ErrInvalidCNPJ is returned for a CNPJ with a bad length or check digit.
	ErrInvalidCNPJ = errors.New("invalid CNPJ")
	// ErrUnknownDocument is returned when the digit count matches neither.
	ErrUnknownDocument = errors.New("document must have 11 (CPF) or 14 (CNPJ) digits")
)

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// OnlyDigits strips everything but ASCII digits.
func OnlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ValidCPF reports whether s (punctuated or not) is a valid CPF.
func ValidCPF(s string) bool {
	d := digits(OnlyDigits(s))
	if len(d) != 11 || allSame(d) {
		return false
	}
	for n := 9; n <= 10; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * (n + 1 - i)
		}
		r := sum * 10 % 11
		if r == 10 {
			r = 0
		}
		if r != d[n] {
			return false
		}
	}
	return true
}

// ValidCNPJ reports whether s (punctuated or not) is a valid CNPJ.
func ValidCNPJ(s string) bool {
	d := digits(OnlyDigits(s))
	if len(d) != 14 || allSame(d) {
		return false
	}
	for _, w := range [][]int{cnpjWeights1, cnpjWeights2} {
		n := len(w)
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * w[i]
		}
		dv := 0
		if r := sum % 11; r >= 2 {
			dv = 11 - r
		}
		if dv != d[n] {
			return false
		}
	}
	return true
}

// Detect classifies s by digit count and validates it.
func Detect(s string) (Type, error) {
	switch len(OnlyDigits(s)) {
	case 11:
		if !ValidCPF(s) {
			return "", ErrInvalidCPF
		}
		return TypeCPF, nil
	case 14:
		if !ValidCNPJ(s) {
			return "", ErrInvalidCNPJ
		}
		return TypeCNPJ, nil
	default:
		return "", ErrUnknownDocument
	}
}

// Normalize validates s as a CPF or CNPJ and returns its digits.
func Normalize(s string) (string, Type, error) {
	t, err := Detect(s)
	if err != nil {
		return "", "", err
	}
	return OnlyDigits(s), t, nil
}

// FormatCPF renders 11 digits as 000.000.000-00. Other input is returned unchanged.
func FormatCPF(s string) string {
	d := OnlyDigits(s)
	if len(d) != 11 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
}

// FormatCNPJ renders 14 digits as 00.000.000/0000-00. Other input is returned unchanged.
func FormatCNPJ(s string) string {
	d := OnlyDigits(s)
	if len(d) != 14 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
}

// Format picks the CPF or CNPJ mask by digit count.
func Format(s string) string {
	switch len(OnlyDigits(s)) {
	case 11:
		return FormatCPF(s)
	case 14:
		return FormatCNPJ(s)
	default:
		return s
	}
}

// ValidCEP reports whether s has the 8 digits of a postal code.
func ValidCEP(s string) bool {
	return len(OnlyDigits(s)) == 8
}

// FormatCEP renders 8 digits as 00000-000.
func FormatCEP(s string) string {
	d := OnlyDigits(s)
	if len(d) != 8 {
		return s
	}
	return d[:5] + "-" + d[5:]
}

// ValidPhone accepts landlines (10 digits) and mobiles (11 digits, ninth
// digit 9), both with area code. A leading +55 is ignored.
func ValidPhone(s string) bool {
	d := OnlyDigits(s)
	if strings.HasPrefix(strings.TrimSpace(s), "+55") {
		d = strings.TrimPrefix(d, "55")
	}
	switch len(d) {
	case 10:
		return d[0] != '0'
	case 11:
		return d[0] != '0' && d[2] == '9'
	default:
		return false
	}
}

// ValidEmail performs a syntactic check of an email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

func digits(s string) []int {
	out := make([]int, len(s))
	for i := range s {
		out[i] = int(s[i] - '0')
	}
	return out
}

func allSame(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}
