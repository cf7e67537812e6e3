package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/shift-planner/pkg/dateutil"
)

// HolidaySet is the set of non-working days of one month: statutory holidays
// and weekends. Elements are plain day-of-month numbers, so a set only makes
// sense together with its (year, month).
type HolidaySet struct {
	year  int
	month time.Month
	days  map[int]struct{}
}

// NewHolidaySet creates a set scoped to (year, month) containing days
func NewHolidaySet(year int, month time.Month, days ...int) (*HolidaySet, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}

	h := &HolidaySet{
		year:  year,
		month: month,
		days:  make(map[int]struct{}, len(days)),
	}
	for _, day := range days {
		if err := h.Add(day); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Year returns the year the set belongs to
func (h *HolidaySet) Year() int { return h.year }

// Month returns the month the set belongs to
func (h *HolidaySet) Month() time.Month { return h.month }

// DaysInMonth returns the length of the set's month
func (h *HolidaySet) DaysInMonth() int {
	return dateutil.DaysInMonth(h.year, h.month)
}

// Add inserts a day-of-month
func (h *HolidaySet) Add(day int) error {
	if day < 1 || day > h.DaysInMonth() {
		return fmt.Errorf("%w: %d-%02d-%d", ErrInvalidDay, h.year, h.month, day)
	}
	h.days[day] = struct{}{}
	return nil
}

// Contains reports whether day is a non-working day
func (h *HolidaySet) Contains(day int) bool {
	_, ok := h.days[day]
	return ok
}

// Len returns the number of days in the set
func (h *HolidaySet) Len() int {
	return len(h.days)
}

// Days returns the days in ascending order
func (h *HolidaySet) Days() []int {
	days := make([]int, 0, len(h.days))
	for day := range h.days {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// Union adds every day of other; both sets must share the same month
func (h *HolidaySet) Union(other *HolidaySet) error {
	if other.year != h.year || other.month != h.month {
		return fmt.Errorf("cannot merge holidays of %d-%02d into %d-%02d",
			other.year, other.month, h.year, h.month)
	}
	for day := range other.days {
		h.days[day] = struct{}{}
	}
	return nil
}

// WeekendSet returns every Saturday and Sunday of the month
func WeekendSet(year int, month time.Month) (*HolidaySet, error) {
	h, err := NewHolidaySet(year, month)
	if err != nil {
		return nil, err
	}
	for _, d := range dateutil.MonthDates(year, month) {
		if dateutil.IsWeekend(d) {
			h.days[d.Day] = struct{}{}
		}
	}
	return h, nil
}
