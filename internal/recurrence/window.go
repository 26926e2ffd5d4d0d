package recurrence

import "time"

// MondayOf returns the Monday starting the ISO week that contains t.
func MondayOf(t time.Time) time.Time {
	day := Midnight(t)
	// In Go, Monday == 1 and Sunday == 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NotificationWindow returns the inclusive two-week range used for pending
// attendance notifications: the Monday of the current week through the Sunday
// of the next week.
func NotificationWindow(today time.Time) (time.Time, time.Time) {
	start := MondayOf(today)
	return start, start.AddDate(0, 0, 13)
}
