package logger

import (
	"strings"
	"time"
)

// Status renders an error as the status field value used across the log
// schema.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Took measures elapsed time since start, rounded for log output.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS clamps negative durations to zero and rounds to whole
// milliseconds, keeping duration fields comparable across log lines.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// SummarizeStrings renders at most limit elements as a comma-joined preview
// and reports whether any were cut off.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if limit <= 0 {
		return "", len(values) > 0
	}
	truncated := len(values) > limit
	if truncated {
		values = values[:limit]
	}
	return strings.Join(values, ", "), truncated
}
