package exporter

import (
	"fmt"
	"strconv"
	"time"

	"creditrisk/internal/evaluation"
)

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatMetric leaves undefined metrics blank.
func formatMetric(m evaluation.Metric) string {
	if !m.Defined {
		return ""
	}
	return formatFloat(m.Value)
}

// formatDuration renders d in seconds with millisecond precision.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
