// Package textutil normalizes free text typed in Portuguese for matching.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// StripAccents removes combining marks: "Pagamento à Vista" -> "Pagamento a Vista".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Normalize upper-cases, strips accents and punctuation and collapses spaces.
// "  Padaria São João Ltda. " -> "PADARIA SAO JOAO LTDA"
func Normalize(s string) string {
	result := strings.ToUpper(StripAccents(s))
	result = nonAlphanumeric.ReplaceAllString(result, " ")
	result = whitespace.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Contains reports whether needle occurs in haystack ignoring case, accents
// and punctuation.
func Contains(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), n)
}
