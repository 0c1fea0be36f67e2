package main

import "testing"

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{150, "1.50"},
		{123456, "1,234.56"},
		{100000000, "1,000,000.00"},
		{-4250000, "-42,500.00"},
	}
	for _, tt := range tests {
		if got := formatCents(tt.cents); got != tt.want {
			t.Errorf("formatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"", 0, false},
		{"abc", 0, false},
		{"1500", 150000, true},
		{"1,500.50", 150050, true},
		{"0.5", 50, true},
		{"-20.5", -2050, true},
		{" 42 ", 4200, true},
		{".75", 75, true},
	}
	for _, tt := range tests {
		got, ok := parseMoney(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseMoney(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPadRightTruncates(t *testing.T) {
	if got := padRight("abcdef", 4); got != "abc…" {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
}
