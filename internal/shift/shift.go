// Package shift classifies calendar days into the phases of the rotating
// day / night / rest / rest roster.
package shift

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

// CycleLength is the number of days in one roster rotation
const CycleLength = 4

// Reference dates the roster is anchored to. Each feature historically used its
// own anchor, so they are kept apart rather than merged into one.
var (
	// CalendarEpoch anchors the monthly calendar view.
	CalendarEpoch = civil.Date{Year: 2017, Month: 1, Day: 1}

	// FinderEpoch anchors the nearest-shift-day finder.
	FinderEpoch = civil.Date{Year: 2024, Month: 1, Day: 1}

	// PlannerEpoch anchors the yearly leave optimizer and the month planner.
	// It is a whole number of rotations away from CalendarEpoch so that the
	// planner and the calendar show the same roster for a group.
	PlannerEpoch = civil.Date{Year: 1998, Month: 1, Day: 1}
)

// ErrInvalidOffset is returned for offsets outside 1..4
var ErrInvalidOffset = errors.New("shift offset must be between 1 and 4")

// Offset identifies one of the four rotating worker groups (the "tura")
type Offset int

// Validate checks that the offset names one of the four groups
func (o Offset) Validate() error {
	if o < 1 || o > CycleLength {
		return fmt.Errorf("%w: got %d", ErrInvalidOffset, int(o))
	}
	return nil
}

// Normalize folds even offsets via 6-o (2<->4); odd offsets pass through.
// Callers apply it once when reading the user's group, never inside Classify.
func (o Offset) Normalize() Offset {
	if o%2 == 0 {
		return 6 - o
	}
	return o
}

// Kind is the roster phase of a day
type Kind int

const (
	Rest1 Kind = iota
	Rest2
	DayShift
	NightShift
)

// IsWork reports whether the phase is a day or night shift
func (k Kind) IsWork() bool {
	return k == DayShift || k == NightShift
}

func (k Kind) String() string {
	switch k {
	case Rest1:
		return "rest-1"
	case Rest2:
		return "rest-2"
	case DayShift:
		return "day"
	case NightShift:
		return "night"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// LocalName returns the Romanian label used when announcing a shift
func (k Kind) LocalName() string {
	switch k {
	case DayShift:
		return "de zi"
	case NightShift:
		return "de noapte"
	default:
		return "liber"
	}
}

// Cycle is the roster anchored at a fixed epoch
type Cycle struct {
	Epoch civil.Date
}

// NewCycle creates a cycle anchored at epoch
func NewCycle(epoch civil.Date) Cycle {
	return Cycle{Epoch: epoch}
}

// Phase returns (days since epoch + offset) mod 4, always in 0..3
func (c Cycle) Phase(d civil.Date, o Offset) int {
	days := d.DaysSince(c.Epoch)
	return ((days+int(o))%CycleLength + CycleLength) % CycleLength
}

// Classify returns the roster phase of d for the group o
func (c Cycle) Classify(d civil.Date, o Offset) Kind {
	return Kind(c.Phase(d, o))
}

// IsWorkDay reports whether d is a day or night shift for o
func (c Cycle) IsWorkDay(d civil.Date, o Offset) bool {
	return c.Classify(d, o).IsWork()
}

// Classify is the free-function form of Cycle.Classify
func Classify(d, epoch civil.Date, o Offset) Kind {
	return Cycle{Epoch: epoch}.Classify(d, o)
}
