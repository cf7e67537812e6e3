package dateutil

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Today returns today's date in the local timezone
func Today() civil.Date {
	return civil.DateOf(time.Now())
}

// Date builds a civil date from its parts
func Date(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: day}
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth returns the first day of the given month
func FirstOfMonth(year int, month time.Month) civil.Date {
	return civil.Date{Year: year, Month: month, Day: 1}
}

// MonthDates returns every date of the month in ascending order
func MonthDates(year int, month time.Month) []civil.Date {
	n := DaysInMonth(year, month)
	dates := make([]civil.Date, n)
	for i := range dates {
		dates[i] = civil.Date{Year: year, Month: month, Day: i + 1}
	}
	return dates
}

// Weekday returns the day of the week for the date
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(d civil.Date) bool {
	weekday := Weekday(d)
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(d civil.Date) bool {
	weekday := Weekday(d)
	return weekday == time.Saturday || weekday == time.Sunday
}

// StartOfWeek returns the Monday of the week for the given date
func StartOfWeek(d civil.Date) civil.Date {
	weekday := int(Weekday(d))
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return d.AddDays(-(weekday - 1))
}

// AddMonths shifts a (year, month) pair by n months
func AddMonths(year int, month time.Month, n int) (int, time.Month) {
	t := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (civil.Date, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return civil.DateOf(t), nil
		}
	}

	return civil.Date{}, fmt.Errorf("unrecognised date %q", dateStr)
}
