package shift

import (
	"time"

	"cloud.google.com/go/civil"
)

// SearchRadius bounds how far NearestWorkDay looks on either side of the anchor
const SearchRadius = 10

var dayNamesRo = [...]string{
	time.Sunday:    "duminică",
	time.Monday:    "luni",
	time.Tuesday:   "marți",
	time.Wednesday: "miercuri",
	time.Thursday:  "joi",
	time.Friday:    "vineri",
	time.Saturday:  "sâmbătă",
}

var monthNamesRo = [...]string{
	"ianuarie", "februarie", "martie", "aprilie", "mai", "iunie",
	"iulie", "august", "septembrie", "octombrie", "noiembrie", "decembrie",
}

// DayName returns the Romanian weekday name of d
func DayName(d civil.Date) string {
	return dayNamesRo[d.In(time.UTC).Weekday()]
}

// MonthName returns the Romanian name of m
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNamesRo[m-1]
}

// Nearest is the closest worked day to an anchor date
type Nearest struct {
	Date    civil.Date
	Offset  int // days from the anchor, negative = before
	Kind    Kind
	DayName string
}

// NearestWorkDay scans anchor-10 .. anchor+10 in ascending order and returns the
// day or night shift with the smallest distance to the anchor. On equal distance
// the earlier date wins because only a strictly smaller distance replaces the
// current pick. ok is false when no shift falls inside the window.
func NearestWorkDay(anchor civil.Date, c Cycle, o Offset) (n Nearest, ok bool) {
	minDistance := SearchRadius + 1

	for offset := -SearchRadius; offset <= SearchRadius; offset++ {
		d := anchor.AddDays(offset)
		kind := c.Classify(d, o)
		if !kind.IsWork() {
			continue
		}

		dist := offset
		if dist < 0 {
			dist = -dist
		}
		if dist < minDistance {
			minDistance = dist
			n = Nearest{
				Date:    d,
				Offset:  offset,
				Kind:    kind,
				DayName: DayName(d),
			}
			ok = true
		}
	}

	return n, ok
}
