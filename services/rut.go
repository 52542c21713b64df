package services

import (
	"strconv"
	"strings"
)

// NormalizeRUT strips dots, spaces and the hyphen from a RUT and
// uppercases the check digit: "12.345.678-k" → "12345678K".
func NormalizeRUT(rut string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(rut) {
		if (r >= '0' && r <= '9') || r == 'K' {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "0")
}

// RUTCheckDigit computes the modulo 11 check digit for a RUT body.
func RUTCheckDigit(body string) string {
	sum, mul := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * mul
		mul++
		if mul > 7 {
			mul = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(r)
	}
}

// ValidRUT reports whether rut has a well-formed body and a matching
// check digit.
func ValidRUT(rut string) bool {
	n := NormalizeRUT(rut)
	if len(n) < 2 || len(n) > 9 {
		return false
	}
	body, dv := n[:len(n)-1], n[len(n)-1:]
	for _, r := range body {
		if r < '0' || r > '9' {
			return false
		}
	}
	return RUTCheckDigit(body) == dv
}

// FormatRUT renders a RUT as 12.345.678-5. Input that is too short to
// hold a check digit is returned unchanged.
func FormatRUT(rut string) string {
	n := NormalizeRUT(rut)
	if len(n) < 2 {
		return rut
	}
	return groupThousands(n[:len(n)-1]) + "-" + n[len(n)-1:]
}
