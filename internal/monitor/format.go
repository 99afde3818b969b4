package monitor

import (
	"fmt"
	"math"
)

// FormatMetric formats a metric value with adaptive precision so small
// losses stay readable next to large ones.
func FormatMetric(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs != 0 && abs < 0.001:
		return fmt.Sprintf("%.2e", v)
	case abs < 10:
		return fmt.Sprintf("%.4f", v)
	case abs < 1000:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatProgress formats a completed/total pair as "X/Y runs".
func FormatProgress(completed, total int) string {
	return fmt.Sprintf("%d/%d runs", completed, total)
}

// FormatPatience formats the stall counter against its budget,
// e.g. "3/5 stalled".
func FormatPatience(iterWoImprovement, patience int) string {
	return fmt.Sprintf("%d/%d stalled", iterWoImprovement, patience)
}
