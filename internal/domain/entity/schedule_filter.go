package entity

import "time"

// DateRange is an inclusive calendar range used by range schedule and
// availability queries.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns every calendar date in the range, start and end included.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Weekdays returns the set of weekdays that occur at least once in the range.
func (r DateRange) Weekdays() map[time.Weekday]bool {
	weekdays := make(map[time.Weekday]bool, 7)
	for d := r.Start; !d.After(r.End) && len(weekdays) < 7; d = d.AddDate(0, 0, 1) {
		weekdays[d.Weekday()] = true
	}
	return weekdays
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	return !date.Before(r.Start) && !date.After(r.End)
}

// RemovalRequestFilter narrows admin listings of removal requests.
type RemovalRequestFilter struct {
	Status string // PENDING, APPROVED, REJECTED or empty for all
}
