package planner

import (
	"fmt"
	"time"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/shift"
	"github.com/username/shift-planner/pkg/dateutil"
)

// DayState is what a day of the planner currently shows
type DayState int

const (
	StateWorkDay DayState = iota + 1
	StateRestDay
	StateHoliday
	StateLeave
)

func (s DayState) String() string {
	switch s {
	case StateWorkDay:
		return "work"
	case StateRestDay:
		return "rest"
	case StateHoliday:
		return "holiday"
	case StateLeave:
		return "leave"
	default:
		return fmt.Sprintf("DayState(%d)", int(s))
	}
}

// DayKind is the fixed nature of a day: shift day or not, holiday or not
type DayKind struct {
	Work    bool
	Holiday bool
}

// InitialState is the state of a day without leave.
// A holiday that is also a shift day is worked.
func InitialState(k DayKind) DayState {
	switch {
	case k.Work:
		return StateWorkDay
	case k.Holiday:
		return StateHoliday
	default:
		return StateRestDay
	}
}

// Hours returns the credit of a day in state s
func (s DayState) Hours(k DayKind, p Policy) int {
	return DayHours(k.Work, k.Holiday, s == StateLeave, p)
}

// Toggle flips a day in or out of leave and returns the new state together
// with the change in accrued hours
func Toggle(s DayState, k DayKind, p Policy) (DayState, int) {
	next := StateLeave
	if s == StateLeave {
		next = InitialState(k)
	}
	return next, next.Hours(k, p) - s.Hours(k, p)
}

// MonthPlan tracks the per-day states of one month and the running totals
type MonthPlan struct {
	Year        int
	Month       time.Month
	TargetHours int
	TotalHours  int
	LeaveDays   int

	policy Policy
	kinds  []DayKind  // index day-1
	states []DayState // index day-1
}

// NewMonthPlan builds the plan of h's month with no leave taken
func NewMonthPlan(h *calendar.HolidaySet, c shift.Cycle, o shift.Offset, p Policy) *MonthPlan {
	n := h.DaysInMonth()
	mp := &MonthPlan{
		Year:        h.Year(),
		Month:       h.Month(),
		TargetHours: TargetHours(h, p),
		policy:      p,
		kinds:       make([]DayKind, n),
		states:      make([]DayState, n),
	}

	for day := 1; day <= n; day++ {
		d := dateutil.Date(h.Year(), h.Month(), day)
		k := DayKind{Work: c.IsWorkDay(d, o), Holiday: h.Contains(day)}
		mp.kinds[day-1] = k
		mp.states[day-1] = InitialState(k)
		mp.TotalHours += mp.states[day-1].Hours(k, p)
	}

	return mp
}

// Days returns the number of days in the plan
func (mp *MonthPlan) Days() int {
	return len(mp.states)
}

// State returns the state of day
func (mp *MonthPlan) State(day int) DayState {
	return mp.states[day-1]
}

// Kind returns the fixed nature of day
func (mp *MonthPlan) Kind(day int) DayKind {
	return mp.kinds[day-1]
}

// Toggle flips day in or out of leave and returns the hour delta
func (mp *MonthPlan) Toggle(day int) (int, error) {
	if day < 1 || day > len(mp.states) {
		return 0, fmt.Errorf("%w: %d-%02d-%d", calendar.ErrInvalidDay, mp.Year, mp.Month, day)
	}

	prev := mp.states[day-1]
	next, delta := Toggle(prev, mp.kinds[day-1], mp.policy)
	mp.states[day-1] = next
	mp.TotalHours += delta

	switch {
	case next == StateLeave:
		mp.LeaveDays++
	case prev == StateLeave:
		mp.LeaveDays--
	}

	return delta, nil
}

// Remaining returns how many hours are still missing to reach the target
func (mp *MonthPlan) Remaining() int {
	return mp.TargetHours - mp.TotalHours
}
