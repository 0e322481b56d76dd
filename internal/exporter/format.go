package exporter

import (
	"fmt"
	"math"
)

// round2 rounds decimal hours to two places so spreadsheet cells do not carry
// float noise while the formatted duration columns keep second precision.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// formatFloat formats a float64 for CSV output with exactly 2 decimal places,
// so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an integer count for CSV output.
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
