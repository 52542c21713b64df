package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// quoteNumberPrefix returns the yearly prefix, e.g. "COT-2026-".
func quoteNumberPrefix(t time.Time) string {
	return fmt.Sprintf("COT-%d-", t.Year())
}

// formatQuoteNumber constructs the quote number from its components.
func formatQuoteNumber(t time.Time, sequence int) string {
	return fmt.Sprintf("%s%04d", quoteNumberPrefix(t), sequence)
}

// GenerateQuoteNumber returns the next quote number for the year of now.
// Format: COT-{yyyy}-{sequence}, the sequence zero-padded to 4 digits and
// restarting every year. The highest existing sequence is used so deleted
// quotes never cause a repeat. Sequences are compared as integers since
// past 9999 the text order no longer matches.
func GenerateQuoteNumber(app core.App, now time.Time) (string, error) {
	prefix := quoteNumberPrefix(now)

	records, err := app.FindRecordsByFilter(
		"quotes",
		"number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("find quotes of %d: %w", now.Year(), err)
	}

	highest := 0
	for _, rec := range records {
		seq, err := strconv.Atoi(strings.TrimPrefix(rec.GetString("number"), prefix))
		if err == nil && seq > highest {
			highest = seq
		}
	}

	return formatQuoteNumber(now, highest+1), nil
}
