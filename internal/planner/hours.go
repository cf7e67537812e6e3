// Package planner accounts worked hours against the monthly target and
// searches for the leave period that fits it.
package planner

import (
	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/shift"
	"github.com/username/shift-planner/pkg/dateutil"
)

// Policy holds the hour credits of the accountant
type Policy struct {
	WorkedShiftHours  int // a worked day or night shift
	LeaveHours        int // leave taken on a non-holiday rest day
	WorkdayLeaveHours int // leave taken on a non-holiday shift day (some rosters credit 4)
	TargetDayHours    int // one regular working day of the target
}

// DefaultPolicy returns the 12 / 8 / 8 / 8 credits
func DefaultPolicy() Policy {
	return Policy{
		WorkedShiftHours:  12,
		LeaveHours:        8,
		WorkdayLeaveHours: 8,
		TargetDayHours:    8,
	}
}

// TargetHours is what a regular employee would work in the month:
// TargetDayHours for every day not in the non-working set
func TargetHours(h *calendar.HolidaySet, p Policy) int {
	return (h.DaysInMonth() - h.Len()) * p.TargetDayHours
}

// DayHours credits a single day:
//   - a shift day not on leave earns WorkedShiftHours, holiday or not
//   - leave on a non-holiday day earns WorkdayLeaveHours or LeaveHours
//   - anything else earns nothing
func DayHours(work, holiday, onLeave bool, p Policy) int {
	switch {
	case work && !onLeave:
		return p.WorkedShiftHours
	case !holiday && onLeave:
		if work {
			return p.WorkdayLeaveHours
		}
		return p.LeaveHours
	default:
		return 0
	}
}

// AccruedHours sums DayHours over the month with iv taken as leave
func AccruedHours(h *calendar.HolidaySet, iv LeaveInterval, c shift.Cycle, o shift.Offset, p Policy) int {
	total := 0
	for _, d := range dateutil.MonthDates(h.Year(), h.Month()) {
		total += DayHours(c.IsWorkDay(d, o), h.Contains(d.Day), iv.Contains(d.Day), p)
	}
	return total
}
