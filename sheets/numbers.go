package sheets

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ParseNumber reads a spreadsheet-formatted number. It understands currency
// symbols, percent signs, accounting parentheses and both separator
// conventions ("1.234.567", "1.234,5", "1,234.5", "12,5"). A single dot
// followed by exactly three digits is a thousands separator. Blank or
// unreadable input yields 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' || r == '−':
			neg = true
		}
	}
	digits := b.String()
	if strings.Trim(digits, ".,") == "" {
		return 0
	}

	f, err := strconv.ParseFloat(canonicalDecimal(digits), 64)
	if err != nil {
		return 0
	}
	if neg {
		return -f
	}
	return f
}

// canonicalDecimal rewrites s (digits, dots and commas only) so that the
// only separator left is a dot before the decimals.
func canonicalDecimal(s string) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		// The separator that appears last is the decimal one.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		return strings.Replace(s, ",", ".", 1)
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	case dots == 1:
		i := strings.Index(s, ".")
		if len(s)-i-1 == 3 && i > 0 && s[:i] != "0" {
			return strings.Replace(s, ".", "", 1)
		}
	}
	return s
}

// ToNumber converts a cell value decoded from JSON (GViz or the Sheets API)
// into a float64. Strings go through ParseNumber.
func ToNumber(v any) float64 {
	if s, ok := v.(string); ok {
		return ParseNumber(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}

// ToText converts a decoded cell value to its string form. Whole floats
// drop the decimals; fractional ones use a decimal comma so ParseNumber
// reads them back unambiguously.
func ToText(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		return formatNumber(n)
	case float32:
		return formatNumber(float64(n))
	}
	return cast.ToString(v)
}

func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return strings.Replace(s, ".", ",", 1)
}
