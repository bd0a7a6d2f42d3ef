package rankingdomain

import (
	"fmt"
	"time"
)

// ParseReferenceMonth parses a calendar-month key ("2026-03" or
// "2026-03-01") into the first day of that month at UTC midnight.
func ParseReferenceMonth(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeMonth(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid reference month %q", s)
}

// NormalizeMonth truncates an instant to the first day of its month at UTC
// midnight.
func NormalizeMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the normalized month following the given one.
func NextMonth(month time.Time) time.Time {
	return NormalizeMonth(month.AddDate(0, 1, 0))
}

// MonthEnd returns the last instant of the month, 23:59:59 on its final day
// in the month's location.
func MonthEnd(month time.Time) time.Time {
	firstOfNext := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location()).AddDate(0, 1, 0)
	lastDay := firstOfNext.AddDate(0, 0, -1)
	return time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), 23, 59, 59, 0, month.Location())
}

// FirstBusinessDay returns the first Monday-to-Friday day of the month.
func FirstBusinessDay(month time.Time) time.Time {
	d := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// SecondBusinessDay returns the business day after FirstBusinessDay.
func SecondBusinessDay(month time.Time) time.Time {
	d := FirstBusinessDay(month).AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// At returns the given day at the supplied wall-clock time.
func At(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
