// Package numinput turns arbitrary keystroke input into a canonical signed
// decimal literal: an optional leading '-', digits, an optional single '.',
// digits. Partial tokens such as "", "-" and "." are valid literals because
// the user may still be typing.
package numinput

import "strings"

// Normalize converts raw input into the longest canonical literal it contains.
//
// The passes run in a fixed order, each one relying on the character set left
// by the previous one: extract, sign-collapse, point-collapse, zero-strip.
// Normalize never fails and Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	kept, negative := extract(raw)
	body := collapsePoints(kept)
	body = stripLeadingZeros(body)
	if negative {
		return "-" + body
	}
	return body
}

// extract keeps digits and decimal points in order and reports whether any
// minus sign survived. Minus signs are removed from their original positions.
func extract(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	negative := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case isDigit(c), c == '.':
			b.WriteByte(c)
		case c == '-':
			negative = true
		}
	}
	return b.String(), negative
}

// collapsePoints keeps the first '.' in place and drops every later one.
func collapsePoints(s string) string {
	first := strings.IndexByte(s, '.')
	if first < 0 {
		return s
	}
	rest := strings.ReplaceAll(s[first+1:], ".", "")
	return s[:first+1] + rest
}

// stripLeadingZeros drops a leading '0' while the next character is a digit.
func stripLeadingZeros(s string) string {
	for len(s) > 1 && s[0] == '0' && isDigit(s[1]) {
		s = s[1:]
	}
	return s
}

// DigitCount returns the number of digits in a literal, ignoring the sign and
// the decimal point.
func DigitCount(literal string) int {
	n := 0
	for i := 0; i < len(literal); i++ {
		if isDigit(literal[i]) {
			n++
		}
	}
	return n
}

// IsCanonical reports whether s is already a canonical literal.
func IsCanonical(s string) bool {
	body := strings.TrimPrefix(s, "-")
	points := 0
	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case c == '.':
			points++
		case !isDigit(c):
			return false
		}
	}
	if points > 1 {
		return false
	}
	return len(body) < 2 || body[0] != '0' || !isDigit(body[1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
