package services

import (
	"math"
	"testing"
	"time"
)

func TestFormatCLP_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0"},
		{"small integer", 5, "$5"},
		{"rounds half up", 42.5, "$43"},
		{"hundreds", 999, "$999"},
		{"thousands", 1234, "$1.234"},
		{"ten thousands", 12345, "$12.345"},
		{"hundred thousands", 123456, "$123.456"},
		{"millions", 1234567, "$1.234.567"},
		{"hundred millions", 123456789, "$123.456.789"},
		{"negative", -3500, "-$3.500"},
		{"negative rounding to zero", -0.4, "$0"},
		{"exact thousand boundary", 1000, "$1.000"},
		{"exact million boundary", 1000000, "$1.000.000"},
		{"not a number", math.NaN(), "$0"},
		{"infinity", math.Inf(-1), "$0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCLP(tt.input)
			if got != tt.expect {
				t.Errorf("FormatCLP(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"5", "5"},
		{"42", "42"},
		{"999", "999"},
		{"1234", "1.234"},
		{"12345", "12.345"},
		{"123456", "123.456"},
		{"1234567", "1.234.567"},
		{"1234567890", "1.234.567.890"},
	}

	for _, tt := range tests {
		if got := groupThousands(tt.input); got != tt.expect {
			t.Errorf("groupThousands(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{0, "0"},
		{12, "12"},
		{1250.5, "1.250,5"},
		{0.125, "0,13"},
		{-2000, "-2.000"},
		{1000000.25, "1.000.000,25"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.expect {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{0, "0,0%"},
		{12.5, "12,5%"},
		{100, "100,0%"},
		{-4.26, "-4,3%"},
		{-0.01, "0,0%"},
		{33.333, "33,3%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.input); got != tt.expect {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Date(2026, time.March, 5, 15, 0, 0, 0, time.UTC)); got != "05-03-2026" {
		t.Errorf("FormatDate() = %q, want 05-03-2026", got)
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("FormatDate(zero) = %q, want empty", got)
	}
}
