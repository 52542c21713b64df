package services

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/testhelpers"
)

func TestFormatQuoteNumber(t *testing.T) {
	day := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		seq    int
		expect string
	}{
		{1, "COT-2026-0001"},
		{42, "COT-2026-0042"},
		{9999, "COT-2026-9999"},
		{12345, "COT-2026-12345"},
	}
	for _, tt := range tests {
		if got := formatQuoteNumber(day, tt.seq); got != tt.expect {
			t.Errorf("formatQuoteNumber(%d) = %q, want %q", tt.seq, got, tt.expect)
		}
	}
}

func TestGenerateQuoteNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	now := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

	got, err := GenerateQuoteNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuoteNumber: %v", err)
	}
	if got != "COT-2026-0001" {
		t.Errorf("first number = %q, want COT-2026-0001", got)
	}

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("find quotes collection: %v", err)
	}
	for _, number := range []string{"COT-2025-0040", "COT-2026-0001", "COT-2026-0007"} {
		rec := core.NewRecord(col)
		rec.Set("number", number)
		rec.Set("client_name", "Cliente")
		if err := app.Save(rec); err != nil {
			t.Fatalf("save quote: %v", err)
		}
	}

	got, err = GenerateQuoteNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuoteNumber: %v", err)
	}
	if got != "COT-2026-0008" {
		t.Errorf("next number = %q, want COT-2026-0008", got)
	}

	got, _ = GenerateQuoteNumber(app, time.Date(2027, time.January, 2, 0, 0, 0, 0, time.UTC))
	if got != "COT-2027-0001" {
		t.Errorf("new year number = %q, want COT-2027-0001", got)
	}
}

func TestGenerateQuoteNumber_PastFourDigits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	now := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("find quotes collection: %v", err)
	}
	for _, number := range []string{"COT-2026-9999", "COT-2026-10000", "COT-2026-0950"} {
		rec := core.NewRecord(col)
		rec.Set("number", number)
		rec.Set("client_name", "Cliente")
		if err := app.Save(rec); err != nil {
			t.Fatalf("save quote: %v", err)
		}
	}

	got, err := GenerateQuoteNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuoteNumber: %v", err)
	}
	if got != "COT-2026-10001" {
		t.Errorf("next number = %q, want COT-2026-10001", got)
	}
}
