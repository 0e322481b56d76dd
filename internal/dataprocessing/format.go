package dataprocessing

import (
	"fmt"
	"math"
)

// DefaultHoursPerDay is the working-day length used by FormatDDHHMMSS when the
// caller does not configure one.
const DefaultHoursPerDay = 8.0

// FormatHHMMSS renders decimal hours as HH:MM:SS. Negative input keeps its
// sign as a leading minus on the absolute rendition. Fractional seconds are
// truncated so the seconds field never rounds up to 60.
func FormatHHMMSS(hours float64) string {
	if hours == 0 || math.IsNaN(hours) {
		return "00:00:00"
	}

	negative := hours < 0
	totalSeconds := int64(math.Abs(hours) * 3600)

	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60

	result := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if negative {
		return "-" + result
	}
	return result
}

// FormatDDHHMMSS renders decimal hours as DD:HH:MM:SS where one day is
// hoursPerDay working hours. hoursPerDay must be strictly positive.
func FormatDDHHMMSS(hours, hoursPerDay float64) (string, error) {
	if hoursPerDay <= 0 || math.IsNaN(hoursPerDay) {
		return "", fmt.Errorf("%w: hours per day must be positive, got %v", ErrInvalidConfiguration, hoursPerDay)
	}
	if hours == 0 || math.IsNaN(hours) {
		return "00:00:00:00", nil
	}

	negative := hours < 0
	abs := math.Abs(hours)

	days := int64(abs / hoursPerDay)
	remaining := math.Mod(abs, hoursPerDay)

	totalSeconds := int64(remaining * 3600)
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60

	result := fmt.Sprintf("%02d:%02d:%02d:%02d", days, h, m, s)
	if negative {
		return "-" + result, nil
	}
	return result, nil
}

// mustFormatDDHHMMSS is the internal presentation helper for aggregate rows,
// which always use the default working-day length.
func mustFormatDDHHMMSS(hours float64) string {
	s, err := FormatDDHHMMSS(hours, DefaultHoursPerDay)
	if err != nil {
		// Unreachable with the constant positive day length.
		return "00:00:00:00"
	}
	return s
}
