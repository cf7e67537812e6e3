package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/shift"
	"github.com/username/shift-planner/pkg/dateutil"
)

// LeaveInterval is an inclusive range of days of one month
type LeaveInterval struct {
	Start int
	End   int
}

// NoInterval is returned when no candidate reaches the target
var NoInterval = LeaveInterval{Start: -1, End: -1}

// Contains reports whether day falls inside the interval
func (iv LeaveInterval) Contains(day int) bool {
	return !iv.IsNone() && day >= iv.Start && day <= iv.End
}

// Len returns the number of days in the interval
func (iv LeaveInterval) Len() int {
	if iv.IsNone() {
		return 0
	}
	return iv.End - iv.Start + 1
}

// IsNone reports whether iv is the NoInterval sentinel
func (iv LeaveInterval) IsNone() bool {
	return iv == NoInterval
}

func (iv LeaveInterval) String() string {
	if iv.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d-%d", iv.Start, iv.End)
}

// Score ranks candidate intervals. Overlap counts the holidays that are shift
// days and stay outside the interval; Length breaks ties.
//
// Note: this rewards leaving worked holidays uncovered, which is probably the
// reverse of what a worker wants. Kept as is so results stay comparable.
type Score struct {
	Overlap int
	Length  int
}

// Better reports whether s is strictly greater than other, comparing Overlap
// first and Length second
func (s Score) Better(other Score) bool {
	if s.Overlap != other.Overlap {
		return s.Overlap > other.Overlap
	}
	return s.Length > other.Length
}

// Result is the outcome of one month's search
type Result struct {
	Year        int
	Month       time.Month
	TargetHours int
	Best        Score
	Interval    LeaveInterval
	Candidates  int // intervals evaluated
	Matches     int // intervals accruing exactly TargetHours
}

// Found reports whether some interval reached the target
func (r Result) Found() bool {
	return !r.Interval.IsNone()
}

// Optimize searches the month for the leave interval whose accrued hours equal
// TargetHours, preferring the highest Score
func Optimize(h *calendar.HolidaySet, c shift.Cycle, o shift.Offset, p Policy) Result {
	return OptimizeWithTarget(h, TargetHours(h, p), c, o, p)
}

// OptimizeWithTarget is Optimize against a caller-supplied target.
//
// Candidates are visited start ascending, then end ascending, and only a
// strictly better score replaces the current pick, so the first interval with
// the maximal score wins. Single-day intervals are never considered.
func OptimizeWithTarget(h *calendar.HolidaySet, target int, c shift.Cycle, o shift.Offset, p Policy) Result {
	n := h.DaysInMonth()

	// index 0 unused so that work[day] lines up with day-of-month
	work := make([]bool, n+1)
	for _, d := range dateutil.MonthDates(h.Year(), h.Month()) {
		work[d.Day] = c.IsWorkDay(d, o)
	}

	res := Result{
		Year:        h.Year(),
		Month:       h.Month(),
		TargetHours: target,
		Best:        Score{Overlap: math.MinInt, Length: math.MinInt},
		Interval:    NoInterval,
	}

	for start := 1; start <= n-1; start++ {
		for end := start + 1; end <= n; end++ {
			res.Candidates++
			iv := LeaveInterval{Start: start, End: end}

			accrued := 0
			overlap := 0
			for day := 1; day <= n; day++ {
				holiday := h.Contains(day)
				onLeave := iv.Contains(day)
				accrued += DayHours(work[day], holiday, onLeave, p)
				if holiday && work[day] && !onLeave {
					overlap++
				}
			}
			if accrued != target {
				continue
			}
			res.Matches++

			score := Score{Overlap: overlap, Length: iv.Len()}
			if score.Better(res.Best) {
				res.Best = score
				res.Interval = iv
			}
		}
	}

	return res
}
