package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHHMMSS(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  string
	}{
		{name: "zero", hours: 0, want: "00:00:00"},
		{name: "half hour", hours: 0.5, want: "00:30:00"},
		{name: "negative half hour", hours: -0.5, want: "-00:30:00"},
		{name: "whole hours", hours: 8, want: "08:00:00"},
		{name: "with seconds", hours: 1.5 + 15.0/3600, want: "01:30:15"},
		{name: "over a day", hours: 25.25, want: "25:15:00"},
		{name: "fractional seconds truncate", hours: 1.0/3600 + 0.0001, want: "00:00:01"},
		{name: "negative large", hours: -10.75, want: "-10:45:00"},
		{name: "nan treated as zero", hours: math.NaN(), want: "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHHMMSS(tt.hours))
		})
	}
}

func TestFormatDDHHMMSS(t *testing.T) {
	tests := []struct {
		name        string
		hours       float64
		hoursPerDay float64
		want        string
		wantErr     bool
	}{
		{name: "zero", hours: 0, hoursPerDay: 8, want: "00:00:00:00"},
		{name: "under a day", hours: 7.5, hoursPerDay: 8, want: "00:07:30:00"},
		{name: "exactly one day", hours: 8, hoursPerDay: 8, want: "01:00:00:00"},
		{name: "day and a half", hours: 12, hoursPerDay: 8, want: "01:04:00:00"},
		{name: "negative", hours: -9, hoursPerDay: 8, want: "-01:01:00:00"},
		{name: "custom day length", hours: 30, hoursPerDay: 24, want: "01:06:00:00"},
		{name: "zero hours per day", hours: 5, hoursPerDay: 0, wantErr: true},
		{name: "negative hours per day", hours: 5, hoursPerDay: -8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatDDHHMMSS(tt.hours, tt.hoursPerDay)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Formatting then reparsing must land within one second of the input, the
// stated precision of the engine.
func TestFormatHHMMSS_RoundTrip(t *testing.T) {
	inputs := []float64{0, 0.25, 1.0 / 3600, 2.5, 7.999, 8.0001, 11.3333, 23.9997, 36.5}

	for _, h := range inputs {
		formatted := FormatHHMMSS(h)
		parsed, ok, err := ParseDuration(formatted)
		require.NoError(t, err, "input %v formatted as %s", h, formatted)
		require.True(t, ok)
		assert.InDelta(t, h, parsed, 1.0/3600, "round trip of %v via %s", h, formatted)
	}
}
