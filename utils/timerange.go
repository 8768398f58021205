package utils

import "time"

const DateKeyLayout = "2006-01-02"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Two intervals that exactly abut do not overlap,
// which allows back-to-back bookings.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// DateKey returns the calendar-day label ("YYYY-MM-DD") of the given instant
// in the reference timezone. It is used purely as a coarse pre-filter for
// day-scoped booking queries.
func DateKey(instant time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return instant.In(loc).Format(DateKeyLayout)
}

// AdjacentDateKeys returns the day keys for the given key and its two
// neighbouring days. Conflict queries fetch all three so that a booking
// spanning local midnight cannot slip past the coarse day filter.
func AdjacentDateKeys(dateKey string) []string {
	day, err := time.Parse(DateKeyLayout, dateKey)
	if err != nil {
		return []string{dateKey}
	}
	return []string{
		day.AddDate(0, 0, -1).Format(DateKeyLayout),
		dateKey,
		day.AddDate(0, 0, 1).Format(DateKeyLayout),
	}
}
