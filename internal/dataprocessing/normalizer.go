package dataprocessing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CellEncoding tags the detected representation of a raw spreadsheet value.
// Mixed encodings are resolved explicitly here rather than coerced implicitly
// at each access.
type CellEncoding int

const (
	// EncodingAbsent marks a blank cell or a non-value sentinel ("off", "n/a").
	EncodingAbsent CellEncoding = iota
	// EncodingTextClock marks HH:MM[:SS] text, possibly embedded in a longer string.
	EncodingTextClock
	// EncodingSerialFraction marks an Excel fractional-day numeric (1.0 = 24h).
	EncodingSerialFraction
	// EncodingDecimalHours marks a numeric already expressed in decimal hours.
	EncodingDecimalHours
	// EncodingUnknown marks a cell that matches none of the accepted encodings.
	EncodingUnknown
)

var (
	clockPattern = regexp.MustCompile(`(\d{1,3}):(\d{2})(?::(\d{2}))?`)
	isoDate      = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// sentinels are cell values that mean "no value" rather than a parse failure.
var sentinels = map[string]bool{
	"":     true,
	"off":  true,
	"nan":  true,
	"none": true,
	"n/a":  true,
	"na":   true,
	"-":    true,
}

// minYear/maxYear bound plausible work dates. Excel stores negative durations
// as wrapped 1900-era dates, so anything before 2000 is not a real date here.
const (
	minYear = 2000
	maxYear = 2100
)

// ClassifyCell detects the encoding of a raw cell value.
func ClassifyCell(raw string) CellEncoding {
	v := strings.TrimSpace(raw)
	if sentinels[strings.ToLower(v)] {
		return EncodingAbsent
	}
	if clockPattern.MatchString(v) {
		return EncodingTextClock
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return EncodingUnknown
	}
	if f >= 0 && f < 1 {
		return EncodingSerialFraction
	}
	return EncodingDecimalHours
}

// roundToSecond snaps decimal hours to the nearest 1/3600 so every encoding
// of the same instant normalizes to the same value.
func roundToSecond(hours float64) float64 {
	return math.Round(hours*3600) / 3600
}

// ParseTimeOfDay normalizes a raw cell to decimal hours in [0,24).
// The second return is false for an absent cell; malformed values return
// an error wrapping ErrMalformedValue.
func ParseTimeOfDay(raw string) (float64, bool, error) {
	hours, ok, err := ParseDuration(raw)
	if err != nil || !ok {
		return 0, ok, err
	}
	if hours < 0 || hours >= 24 {
		return 0, false, fmt.Errorf("%w: time of day %q out of range [0,24)", ErrMalformedValue, raw)
	}
	return hours, true, nil
}

// ParseDuration normalizes a raw cell to decimal hours without the [0,24)
// bound. Clock text, Excel fractional days and plain decimal hours all land
// on the same scale, rounded to the nearest second.
func ParseDuration(raw string) (float64, bool, error) {
	v := strings.TrimSpace(raw)
	switch ClassifyCell(v) {
	case EncodingAbsent:
		return 0, false, nil
	case EncodingTextClock:
		m := clockPattern.FindStringSubmatch(v)
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		sec := 0
		if m[3] != "" {
			sec, _ = strconv.Atoi(m[3])
		}
		if min > 59 || sec > 59 {
			return 0, false, fmt.Errorf("%w: clock value %q", ErrMalformedValue, raw)
		}
		return roundToSecond(float64(h) + float64(min)/60 + float64(sec)/3600), true, nil
	case EncodingSerialFraction:
		f, _ := strconv.ParseFloat(v, 64)
		return roundToSecond(f * 24), true, nil
	case EncodingDecimalHours:
		f, _ := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		return roundToSecond(f), true, nil
	default:
		return 0, false, fmt.Errorf("%w: %q is not a recognized time encoding", ErrMalformedValue, raw)
	}
}

// dateLayouts are the textual date formats accepted beyond the ISO pattern.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate normalizes a raw cell to a calendar date (UTC midnight).
// Accepts ISO text possibly carrying annotations like "2025-10-01 (Mon)",
// a handful of common textual layouts, and Excel serial numbers. A value
// that cannot be parsed as a plausible date fails with ErrMalformedValue;
// it never defaults to today or the epoch.
func ParseDate(raw string) (time.Time, bool, error) {
	v := strings.TrimSpace(raw)
	if sentinels[strings.ToLower(v)] {
		return time.Time{}, false, nil
	}

	if m := isoDate.FindStringSubmatch(v); m != nil {
		t, err := time.Parse("2006-01-02", m[0])
		if err == nil {
			return validateDate(t, raw)
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return validateDate(t, raw)
		}
	}

	// Serial-number date encoding.
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, convErr := excelize.ExcelDateToTime(serial, false)
		if convErr == nil {
			return validateDate(truncateToDay(t), raw)
		}
	}

	return time.Time{}, false, fmt.Errorf("%w: %q is not a valid calendar date", ErrMalformedValue, raw)
}

func validateDate(t time.Time, raw string) (time.Time, bool, error) {
	if t.Year() < minYear || t.Year() > maxYear {
		return time.Time{}, false, fmt.Errorf("%w: date %q outside plausible range", ErrMalformedValue, raw)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseOvertime normalizes an overtime cell, recovering negative durations
// that Excel wrapped into late-day clock values. A wrapped negative shows up
// as a clock reading above 12 hours; the true value is that reading minus 24.
func ParseOvertime(raw string) (float64, bool, error) {
	v := strings.TrimSpace(raw)

	// An overtime cell rendered as a wrapped 1900-era date carries the
	// shortfall in its time component.
	if m := isoDate.FindStringSubmatch(v); m != nil {
		year, _ := strconv.Atoi(m[1])
		if year < minYear {
			if cm := clockPattern.FindStringSubmatch(v); cm != nil {
				wrapped, ok, err := ParseDuration(cm[0])
				if err != nil || !ok {
					return 0, false, err
				}
				if wrapped == 0 {
					return 0, false, nil
				}
				return roundToSecond(wrapped - 24), true, nil
			}
			return 0, false, nil
		}
	}

	hours, ok, err := ParseDuration(v)
	if err != nil || !ok {
		return 0, ok, err
	}
	if hours > 12 && ClassifyCell(v) == EncodingTextClock {
		return roundToSecond(hours - 24), true, nil
	}
	return hours, true, nil
}
