package browse

import (
	"fmt"
	"math"
	"time"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * 60
)

// FormatAge renders a coarse human-readable age for a listing card:
// "Posted 5 minutes ago", "Posted 1 hour ago", "Posted 3 days ago".
// Buckets switch at exactly 60 and 1440 minutes. Future timestamps are not
// clamped; a negative diff formats as-is.
func FormatAge(createdAt, now time.Time) string {
	minutes := int(math.Floor(now.Sub(createdAt).Minutes()))
	switch {
	case minutes < minutesPerHour:
		return fmt.Sprintf("Posted %d %s ago", minutes, pluralize(minutes, "minute"))
	case minutes < minutesPerDay:
		hours := minutes / minutesPerHour
		return fmt.Sprintf("Posted %d %s ago", hours, pluralize(hours, "hour"))
	default:
		days := minutes / minutesPerDay
		return fmt.Sprintf("Posted %d %s ago", days, pluralize(days, "day"))
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
