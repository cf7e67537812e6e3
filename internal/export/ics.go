// Package export renders rosters to spreadsheet and calendar formats.
package export

import (
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/username/shift-planner/internal/shift"
)

// ICSProductID identifies the generator in exported calendars
const ICSProductID = "-//shift-planner//RO"

// LeaveChecker reports whether a date is a leave day
type LeaveChecker interface {
	Contains(d civil.Date) bool
}

// ShiftEvent is one worked shift
type ShiftEvent struct {
	Date civil.Date
	Kind shift.Kind
}

// ShiftDates expands the dates of kind between from and to (inclusive) as a
// daily rule with a four day interval
func ShiftDates(c shift.Cycle, o shift.Offset, kind shift.Kind, from, to civil.Date) ([]civil.Date, error) {
	if to.Before(from) {
		return nil, nil
	}

	// first occurrence inside the window
	start := from
	for c.Classify(start, o) != kind {
		start = start.AddDays(1)
	}
	if start.After(to) {
		return nil, nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: shift.CycleLength,
		Dtstart:  start.In(time.UTC),
		Until:    to.In(time.UTC),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence: %w", err)
	}

	occurrences := r.All()
	dates := make([]civil.Date, 0, len(occurrences))
	for _, t := range occurrences {
		dates = append(dates, civil.DateOf(t))
	}
	return dates, nil
}

// ShiftEvents returns every day and night shift between from and to in date
// order, leaving out leave days when leave is not nil
func ShiftEvents(c shift.Cycle, o shift.Offset, from, to civil.Date, leave LeaveChecker) ([]ShiftEvent, error) {
	days, err := ShiftDates(c, o, shift.DayShift, from, to)
	if err != nil {
		return nil, err
	}
	nights, err := ShiftDates(c, o, shift.NightShift, from, to)
	if err != nil {
		return nil, err
	}

	// merge the two ascending lists
	events := make([]ShiftEvent, 0, len(days)+len(nights))
	i, j := 0, 0
	for i < len(days) || j < len(nights) {
		var ev ShiftEvent
		if j >= len(nights) || (i < len(days) && days[i].Before(nights[j])) {
			ev = ShiftEvent{Date: days[i], Kind: shift.DayShift}
			i++
		} else {
			ev = ShiftEvent{Date: nights[j], Kind: shift.NightShift}
			j++
		}
		if leave != nil && leave.Contains(ev.Date) {
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

// WriteICS writes events as all-day iCalendar events
func WriteICS(w io.Writer, calName string, o shift.Offset, events []ShiftEvent) error {
	cal := ics.NewCalendar()
	cal.SetProductId(ICSProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(calName)

	stamp := time.Now().UTC()
	for _, ev := range events {
		start := ev.Date.In(time.UTC)

		event := cal.AddEvent(fmt.Sprintf("%s-tura%d-%s@shift-planner", start.Format("20060102"), int(o), ev.Kind))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetSummary("Tura " + ev.Kind.LocalName())
		event.SetDescription(fmt.Sprintf("Tura %d %s, %s", int(o), ev.Kind.LocalName(), shift.DayName(ev.Date)))
		event.SetTimeTransparency(ics.TransparencyOpaque)
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}
