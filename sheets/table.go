package sheets

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Table is a header row plus data rows. Every data row has exactly
// len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// newTable builds a Table from raw rows: leading blank rows are skipped,
// the first remaining row becomes the header, short rows are padded,
// long rows are cut and blank rows are dropped.
func newTable(raw [][]string) (*Table, error) {
	start := 0
	for start < len(raw) && blankRow(raw[start]) {
		start++
	}
	if start >= len(raw) {
		return nil, ErrEmptySheet
	}

	headers := make([]string, len(raw[start]))
	for i, h := range raw[start] {
		headers[i] = strings.TrimSpace(h)
	}
	// Trailing unnamed columns come from formatted-but-empty cells.
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, ErrEmptySheet
	}

	t := &Table{Headers: headers}
	for _, r := range raw[start+1:] {
		if blankRow(r) {
			continue
		}
		row := make([]string, len(headers))
		for i := range row {
			if i < len(r) {
				row[i] = strings.TrimSpace(r[i])
			}
		}
		if blankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Col returns the index of the first header matching any alias, or -1.
// Matching ignores case, accents and punctuation.
func (t *Table) Col(aliases ...string) int {
	if t == nil {
		return -1
	}
	normalized := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		normalized[i] = Normalize(h)
	}
	for _, a := range aliases {
		want := Normalize(a)
		for i, h := range normalized {
			if h == want {
				return i
			}
		}
	}
	return -1
}

// Cell returns row[idx], or "" when idx is -1 or out of range.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s, strips accents and collapses everything that is
// not a letter or digit into single spaces: "Código  Cliente*" becomes
// "codigo cliente".
func Normalize(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	space := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}
