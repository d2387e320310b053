// Package duration converts second counts to and from display strings.
package duration

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatHMS formats seconds as HH:MM:SS. Hours are not capped at 24 and grow
// past two digits when needed. Negative input formats as 00:00:00.
func FormatHMS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseHMS parses the output of FormatHMS back into seconds.
func ParseHMS(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q, use HH:MM:SS", value)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q, use HH:MM:SS", value)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("invalid duration %q, minutes and seconds must be below 60", value)
	}
	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

// FormatExpected renders an expected duration in minutes, e.g. "1h30m".
// Zero or negative means no estimate was set.
func FormatExpected(totalMinutes int) string {
	if totalMinutes <= 0 {
		return "Set time"
	}
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	var b strings.Builder
	if hours > 0 {
		fmt.Fprintf(&b, "%dh", hours)
	}
	if minutes > 0 || hours == 0 {
		fmt.Fprintf(&b, "%dm", minutes)
	}
	return b.String()
}

// Human renders seconds as "Xh Ym", dropping zero parts. Sub-minute
// durations show seconds so short sessions are not displayed as zero.
func Human(seconds int) string {
	if seconds <= 0 {
		return "0m"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
