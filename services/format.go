package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatCLP formats an amount as Chilean pesos: whole pesos, dot as the
// thousands separator (e.g. $1.234.567, -$3.500).
func FormatCLP(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0"
	}
	pesos := int64(math.Round(amount))
	if pesos < 0 {
		return "-$" + groupThousands(strconv.FormatInt(-pesos, 10))
	}
	return "$" + groupThousands(strconv.FormatInt(pesos, 10))
}

// FormatNumber formats a quantity with dot grouping and up to two decimals
// after a comma (e.g. 1.250,5).
func FormatNumber(n float64) string {
	negative := n < 0
	if negative {
		n = -n
	}
	raw := strconv.FormatFloat(math.Round(n*100)/100, 'f', -1, 64)
	intPart, decPart, _ := strings.Cut(raw, ".")

	result := groupThousands(intPart)
	if decPart != "" {
		result += "," + decPart
	}
	if negative && result != "0" {
		result = "-" + result
	}
	return result
}

// FormatPercent formats a percentage with one decimal (e.g. 12,5%).
func FormatPercent(pct float64) string {
	if math.Abs(pct) < 0.05 {
		pct = 0
	}
	return strings.Replace(fmt.Sprintf("%.1f", pct), ".", ",", 1) + "%"
}

// FormatDate formats t as dd-mm-yyyy. The zero time formats as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-01-2006")
}

// groupThousands inserts a dot every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
