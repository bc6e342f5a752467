package util

import "testing"

func TestIsValidName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Анна", true},
		{"Anna", true},
		{"Анна-Мария", true},
		{"де ла Круа", true},
		{"", false},
		{"Анна1", false},
		{"@user", false},
	}
	for _, tt := range tests {
		if got := IsValidName(tt.in); got != tt.want {
			t.Errorf("IsValidName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidAge(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"15", 15, true},
		{"100", 100, true},
		{" 25 ", 25, true},
		{"14", 0, false},
		{"101", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := IsValidAge(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("IsValidAge(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDateAndTime(t *testing.T) {
	if !IsValidDate("31.12.2026") {
		t.Error("IsValidDate rejects a valid date")
	}
	if IsValidDate("2026-12-31") || IsValidDate("32.01.2026") {
		t.Error("IsValidDate accepts a malformed date")
	}
	if !IsValidTime("09:30") {
		t.Error("IsValidTime rejects a valid time")
	}
	if IsValidTime("24:00") || IsValidTime("9.30") {
		t.Error("IsValidTime accepts a malformed time")
	}
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		in       string
		lat, lon float64
		wantOK   bool
	}{
		{"55.75, 37.61", 55.75, 37.61, true},
		{"-90,-180", -90, -180, true},
		{"90, 180", 90, 180, true},
		{"91, 0", 0, 0, false},
		{"0, 181", 0, 0, false},
		{"-90.5, 0", 0, 0, false},
		{"Москва", 0, 0, false},
		{"55.75", 0, 0, false},
	}
	for _, tt := range tests {
		lat, lon, ok := ParseCoordinates(tt.in)
		if ok != tt.wantOK || lat != tt.lat || lon != tt.lon {
			t.Errorf("ParseCoordinates(%q) = (%v, %v, %v), want (%v, %v, %v)",
				tt.in, lat, lon, ok, tt.lat, tt.lon, tt.wantOK)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8 (900) 111-22-33", "+79001112233"},
		{"79001112233", "+79001112233"},
		{"+79001112233", "+79001112233"},
		{"+44 20 7946 0958", "+442079460958"},
		{"9001112233", "+9001112233"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAgeRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max int
		wantOK   bool
	}{
		{"20-30", 20, 30, true},
		{" 18 - 25 ", 18, 25, true},
		{"30-20", 0, 0, false},
		{"20", 0, 0, false},
		{"0-30", 0, 0, false},
		{"20-200", 0, 0, false},
		{"a-b", 0, 0, false},
	}
	for _, tt := range tests {
		min, max, ok := ParseAgeRange(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseAgeRange(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && (min != tt.min || max != tt.max) {
			t.Errorf("ParseAgeRange(%q) = (%d, %d), want (%d, %d)", tt.in, min, max, tt.min, tt.max)
		}
	}
}

func TestMaskPhone(t *testing.T) {
	if got := MaskPhone("+79001112233"); got != "***2233" {
		t.Errorf("MaskPhone = %q, want ***2233", got)
	}
	if got := MaskPhone("12"); got != "***" {
		t.Errorf("MaskPhone short = %q, want ***", got)
	}
}
