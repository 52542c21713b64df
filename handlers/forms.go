package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"salesdesk/sheets"
)

// formText returns the trimmed form value of key.
func formText(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// formFloat parses a numeric form value. Number inputs send plain Go
// syntax; anything else is read as a Chilean formatted amount such as
// "1.234,5". Blank or invalid input yields 0, and so do NaN and infinities.
func formFloat(r *http.Request, key string) float64 {
	return parseFormNumber(r.FormValue(key))
}

func parseFormNumber(s string) float64 {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0
	}
	if err != nil {
		f = sheets.ParseNumber(s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// formInt truncates a numeric form value. Values outside the int32 range
// yield 0.
func formInt(r *http.Request, key string) int {
	f := formFloat(r, key)
	if math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// formColumn returns the i-th value of a repeated field, or "".
func formColumn(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

// formRows returns the number of rows of a table of repeated fields: the
// length of the longest column.
func formRows(r *http.Request, keys ...string) int {
	n := 0
	for _, k := range keys {
		n = max(n, len(r.Form[k]))
	}
	return n
}

func writeDownload(w http.ResponseWriter, contentType, filename string, body []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, err := w.Write(body)
	return err
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
