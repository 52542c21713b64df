package sheets

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var errHTMLPage = errors.New("sheets: got an HTML page instead of data (is the sheet shared publicly?)")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a CSV export. Quoted fields may contain commas, quotes and
// newlines.
func ParseCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	if head, _ := br.Peek(512); looksLikeHTML(head) {
		return nil, errHTMLPage
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return newTable(rows)
}

// looksLikeHTML checks the start of a response body. Private sheets answer
// the export URL with a sign-in page and a 200 status.
func looksLikeHTML(head []byte) bool {
	head = bytes.TrimSpace(head)
	if len(head) > 512 {
		head = head[:512]
	}
	if len(head) == 0 || head[0] != '<' {
		return false
	}
	lower := bytes.ToLower(head)
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}
