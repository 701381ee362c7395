package utils

import (
	"fmt"
	"math"
	"time"
)

// Round2 rounds to two decimal places, the precision every derived metric
// in the report uses.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// BytesToGB converts a raw byte count to gigabytes rounded to two decimals.
// Non-positive counts collapse to zero.
func BytesToGB(bytes float64) float64 {
	if bytes <= 0 {
		return 0
	}
	return Round2(bytes / (1 << 30))
}

// Percentage computes part/total*100 rounded to two decimals, guarding
// against a zero total.
func Percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(part / total * 100)
}

// FormatFloat renders a metric value with the fixed two-decimal precision
// the CSV and HTML sinks expect.
func FormatFloat(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// FormatDuration renders an elapsed time as HH:MM:SS, hours uncapped.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatBool renders booleans as True/False, matching how the upstream
// platforms print them in their own tooling.
func FormatBool(value bool) string {
	if value {
		return "True"
	}
	return "False"
}

// FormatTime renders timestamps in the report's single timestamp layout.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
