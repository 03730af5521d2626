package utils

import (
	"strings"
	"unicode"
)

// NormalizeIdentifierValue canonicalizes URN/Medicare identifier strings for
// query and storage use: every Unicode hyphen variant becomes an ASCII '-'
// and all whitespace is stripped. Total and idempotent.
func NormalizeIdentifierValue(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '‐' && r <= '―':
			// hyphen, non-breaking hyphen, figure dash, en dash, em dash, horizontal bar
			return '-'
		case r == '−' || r == '﹘' || r == '﹣' || r == '－':
			// minus sign, small em dash, small hyphen-minus, fullwidth hyphen-minus
			return '-'
		case unicode.IsSpace(r):
			return -1
		default:
			return r
		}
	}, raw)
}
