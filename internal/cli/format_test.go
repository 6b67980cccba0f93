package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"4.8", "$4.80"},
		{"1234.5", "$1,234.50"},
		{"1234567.89", "$1,234,567.89"},
		{"-70", "-$70.00"},
	}
	for _, tt := range tests {
		got := FormatMoney(decimal.RequireFromString(tt.in), "$")
		if got != tt.want {
			t.Fatalf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Fatalf("FormatNumber = %q, want 1,234,567", got)
	}
	if got := FormatNumber(-42); got != "-42" {
		t.Fatalf("FormatNumber = %q, want -42", got)
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays(0); got != "today" {
		t.Fatalf("FormatDays(0) = %q", got)
	}
	if got := FormatDays(1); got != "1 day" {
		t.Fatalf("FormatDays(1) = %q", got)
	}
	if got := FormatDays(21); got != "21 days" {
		t.Fatalf("FormatDays(21) = %q", got)
	}
}

func TestFormatDateZero(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "—" {
		t.Fatalf("FormatDate(zero) = %q, want em dash", got)
	}
}
