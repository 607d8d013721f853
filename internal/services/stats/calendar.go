package stats

import (
	"fmt"
	"time"

	"github.com/vshulcz/daytally/internal/domain"
)

const dayKeyLayout = "2006-01-02"

// DayKey formats a date as the canonical "YYYY-MM-DD" store key. The format
// sorts lexicographically in chronological order.
func DayKey(d time.Time) string {
	return d.Format(dayKeyLayout)
}

// ParseDayKey parses a store key back into a civil date (UTC midnight).
func ParseDayKey(key string) (time.Time, error) {
	d, err := time.ParseInLocation(dayKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDay, key)
	}
	return d, nil
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d time.Time) time.Time {
	// time.Weekday counts Sunday=0; shift so Monday=0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekLabel renders the ISO 8601 week of d as "YYYY-Www". The year is the
// ISO week-numbering year, which differs from the calendar year around
// year boundaries.
func WeekLabel(d time.Time) string {
	year, week := d.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
