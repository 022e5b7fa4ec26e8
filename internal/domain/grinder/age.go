package grinder

import (
	"fmt"
	"time"
)

// UnknownAge is shown for alarms without a readable timestamp.
const UnknownAge = "Unknown time"

// FormatAge renders how long ago ts happened relative to now, the way the
// operator panel shows alarm times.
func FormatAge(ts, now time.Time) string {
	if ts.IsZero() {
		return UnknownAge
	}

	diff := now.Sub(ts)

	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d min%s ago", minutes, plural(minutes))
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	default:
		return ts.Local().Format(time.DateTime)
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}

	return ""
}
