package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"0", "0,00"},
		{"1", "1,00"},
		{"1234.5", "1.234,50"},
		{"999.999", "1.000,00"},
		{"1000000", "1.000.000,00"},
		{"123456789.12", "123.456.789,12"},
		{"-1234.5", "-1.234,50"},
		{"-0.5", "-0,50"},
		{"-0.001", "0,00"},
		{"0.125", "0,13"}, // half away from zero
		{"12.344", "12,34"},
	}
	for _, tc := range cases {
		got := FormatCurrency(decimal.RequireFromString(tc.in))
		if got != tc.out {
			t.Fatalf("FormatCurrency(%s) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormatCurrency_FromFloat(t *testing.T) {
	if got := FormatCurrency(decimal.NewFromFloat(1234.5)); got != "1.234,50" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatPercentage(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"0", "0,00%"},
		{"0.5", "50,00%"},
		{"1", "100,00%"},
		{"0.12345", "12,35%"},
		{"-0.25", "-25,00%"},
		{"12.5", "1250,00%"}, // no thousands grouping
	}
	for _, tc := range cases {
		got := FormatPercentage(decimal.RequireFromString(tc.in))
		if got != tc.out {
			t.Fatalf("FormatPercentage(%s) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"1", true},
		{" 1234.56 ", true},
		{"-3.5", true},
		{"", false},
		{"abc", false},
		{"1,5", false},
	}
	for _, tc := range cases {
		_, err := ParseDecimal(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrNotANumber) {
				t.Fatalf("%q expected ErrNotANumber, got %v", tc.in, err)
			}
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(decimal.NewFromInt(1), decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero for zero denominator, got %s", got)
	}
	if got := Ratio(decimal.NewFromInt(100), decimal.NewFromInt(400)); !got.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("expected 0.25, got %s", got)
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1.000"},
		{"12345", "12.345"},
		{"123456", "123.456"},
		{"1234567", "1.234.567"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := groupThousands(tt.input); got != tt.expect {
				t.Errorf("groupThousands(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
