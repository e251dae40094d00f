package ui

import "testing"

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"5551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"15551234567", "+1 (555) 123-4567"},
		{"+1 (555) 123 4567", "+1 (555) 123-4567"},
		{"25551234567", "25551234567"},
		{"12345", "12345"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatPhone(tt.in); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidPhone(t *testing.T) {
	for in, want := range map[string]bool{
		"5551234567":      true,
		"(555) 123-4567":  true,
		"+1 555 123 4567": true,
		"555123456":       false,
		"555123456789":    false,
		"":                false,
	} {
		if got := ValidPhone(in); got != want {
			t.Errorf("ValidPhone(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	for in, want := range map[string]bool{
		"ada@example.com":       true,
		" grace.h+x@corp.io ":   true,
		"no-at-sign.example":    false,
		"user@host":             false,
		"user@host.c":           false,
		"":                      false,
		"spaces in@example.com": false,
	} {
		if got := ValidEmail(in); got != want {
			t.Errorf("ValidEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234.56, "$1,234.56"},
		{1234567.891, "$1,234,567.89"},
		{-42.5, "-$42.50"},
		{999.999, "$1,000.00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	for in, want := range map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"} {
		if got := FormatCount(in); got != want {
			t.Errorf("FormatCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.685, "68.5%"},
		{1, "100.0%"},
		{0, "0.0%"},
		{42.26, "42.3%"},
		{150, "150.0%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDates(t *testing.T) {
	if got := FormatDate("2025-12-19T15:45:00Z"); got != "2025-12-19" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate("2025-12-19"); got != "2025-12-19" {
		t.Errorf("FormatDate plain = %q", got)
	}
	if got := FormatDate("next tuesday"); got != "next tuesday" {
		t.Errorf("FormatDate passthrough = %q", got)
	}
	if got := FormatDateTime("2025-12-19 15:45:00"); got != "Dec 19, 2025 3:45 PM" {
		t.Errorf("FormatDateTime = %q", got)
	}
	if got := FormatDateTime(""); got != "" {
		t.Errorf("FormatDateTime empty = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	for in, want := range map[int]string{0: "0s", 42: "42s", 245: "4m05s", 3725: "1h02m"} {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Standard 7-Week", 10); got != "Standar..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Errorf("truncate tiny = %q", got)
	}
	if got := truncateMiddle("/home/ops/leads/2025/december.csv", 20); got != "/home/...ecember.csv" {
		t.Errorf("truncateMiddle = %q", got)
	}
}
