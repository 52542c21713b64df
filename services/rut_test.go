package services

import "testing"

func TestNormalizeRUT(t *testing.T) {
	tests := []struct {
		input, expect string
	}{
		{"12.345.678-5", "123456785"},
		{"12345678-5", "123456785"},
		{" 10.000.013-k ", "10000013K"},
		{"0012345678-5", "123456785"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeRUT(tt.input); got != tt.expect {
			t.Errorf("NormalizeRUT(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestValidRUT(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"12.345.678-5", true},
		{"123456785", true},
		{"76.123.456-0", true},
		{"10.000.013-K", true},
		{"10000013k", true},
		{"12.345.678-9", false},
		{"76.123.456-K", false},
		{"1K.345.678-5", false},
		{"5", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidRUT(tt.input); got != tt.valid {
				t.Errorf("ValidRUT(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestFormatRUT(t *testing.T) {
	tests := []struct {
		input, expect string
	}{
		{"123456785", "12.345.678-5"},
		{"12345678-5", "12.345.678-5"},
		{"10000013k", "10.000.013-K"},
		{"9876543-3", "9.876.543-3"},
		{"5", "5"},
	}
	for _, tt := range tests {
		if got := FormatRUT(tt.input); got != tt.expect {
			t.Errorf("FormatRUT(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
