package browse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAgeMinutes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Posted 0 minutes ago", FormatAge(now, now))
	assert.Equal(t, "Posted 1 minute ago", FormatAge(now.Add(-time.Minute), now))
	assert.Equal(t, "Posted 5 minutes ago", FormatAge(now.Add(-5*time.Minute), now))
	assert.Equal(t, "Posted 59 minutes ago", FormatAge(now.Add(-59*time.Minute), now))
}

func TestFormatAgeHourBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 59m59s still floors to 59 minutes
	assert.Equal(t, "Posted 59 minutes ago", FormatAge(now.Add(-59*time.Minute-59*time.Second), now))
	assert.Equal(t, "Posted 1 hour ago", FormatAge(now.Add(-60*time.Minute), now))
	assert.Equal(t, "Posted 1 hour ago", FormatAge(now.Add(-119*time.Minute), now))
	assert.Equal(t, "Posted 2 hours ago", FormatAge(now.Add(-120*time.Minute), now))
	assert.Equal(t, "Posted 23 hours ago", FormatAge(now.Add(-1439*time.Minute), now))
}

func TestFormatAgeDayBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Posted 1 day ago", FormatAge(now.Add(-1440*time.Minute), now))
	assert.Equal(t, "Posted 1 day ago", FormatAge(now.Add(-2879*time.Minute), now))
	assert.Equal(t, "Posted 2 days ago", FormatAge(now.Add(-2880*time.Minute), now))
	assert.Equal(t, "Posted 30 days ago", FormatAge(now.Add(-30*1440*time.Minute), now))
}

func TestFormatAgeFractionalMinutesFloor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Posted 0 minutes ago", FormatAge(now.Add(-59*time.Second), now))
	assert.Equal(t, "Posted 1 minute ago", FormatAge(now.Add(-90*time.Second), now))
}

func TestFormatAgeFutureTimestampNotClamped(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Posted -5 minutes ago", FormatAge(now.Add(5*time.Minute), now))
}
