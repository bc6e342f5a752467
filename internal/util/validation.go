package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nameRe   = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ\s-]+$`)
	coordsRe = regexp.MustCompile(`^\s*(-?\d+(\.\d+)?)\s*,\s*(-?\d+(\.\d+)?)\s*$`)
	phoneRe  = regexp.MustCompile(`[^\d+]`)
)

// IsValidName accepts letters (latin or cyrillic), spaces and hyphens.
func IsValidName(text string) bool {
	return text != "" && nameRe.MatchString(text)
}

// Canonical age bounds. One legacy path in the source system accepted 1-119;
// 15-100 is the documented range and the only one enforced here.
const (
	MinAge = 15
	MaxAge = 100
)

func IsValidAge(text string) (int, bool) {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	if age < MinAge || age > MaxAge {
		return 0, false
	}
	return age, true
}

func IsValidDate(text string) bool {
	_, err := time.Parse("02.01.2006", text)
	return err == nil
}

func IsValidTime(text string) bool {
	_, err := time.Parse("15:04", text)
	return err == nil
}

// ParseCoordinates parses a "lat, lon" decimal pair and range-checks it.
func ParseCoordinates(text string) (lat, lon float64, ok bool) {
	m := coordsRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	lat, _ = strconv.ParseFloat(m[1], 64)
	lon, _ = strconv.ParseFloat(m[3], 64)
	if !ValidCoordinates(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// NormalizePhone strips formatting and canonicalizes Russian 8/7 prefixes
// to the +7 international form.
func NormalizePhone(phone string) string {
	if phone == "" {
		return phone
	}
	cleaned := phoneRe.ReplaceAllString(phone, "")
	switch {
	case strings.HasPrefix(cleaned, "8") && len(cleaned) == 11:
		cleaned = "+7" + cleaned[1:]
	case strings.HasPrefix(cleaned, "7") && len(cleaned) == 11:
		cleaned = "+" + cleaned
	case !strings.HasPrefix(cleaned, "+"):
		cleaned = "+" + cleaned
	}
	return cleaned
}

// ParseAgeRange parses "min-max". A malformed or implausible range degrades
// to "no filter" (ok=false) instead of an error.
func ParseAgeRange(s string) (min, max int, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	max, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if !(0 < min && min <= max && max < 150) {
		return 0, 0, false
	}
	return min, max, true
}

// MaskPhone hides all but the last four digits.
func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return "***"
	}
	return "***" + phone[len(phone)-4:]
}
