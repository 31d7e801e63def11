// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// NightsBetween rounds any partial night up and charges at least one night.
func NightsBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		d = -d
	}
	nights := int((d + 24*time.Hour - 1) / (24 * time.Hour))
	if nights < 1 {
		nights = 1
	}
	return nights
}
