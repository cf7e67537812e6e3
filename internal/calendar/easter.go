package calendar

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// OrthodoxEaster returns Orthodox Easter Sunday of year as a Gregorian date.
// The congruence yields the Julian calendar date; 13 days convert it.
func OrthodoxEaster(year int) civil.Date {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := ((d + e + 114) % 31) + 1

	julian := civil.Date{Year: year, Month: time.Month(month), Day: day}
	return julian.AddDays(13)
}

// Feast is a holiday the nearest-shift lookup knows by name
type Feast int

const (
	FeastEaster Feast = iota + 1
	FeastChristmas
	FeastNewYear
)

// ParseFeast accepts English or Romanian feast names
func ParseFeast(s string) (Feast, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easter", "paste", "paște":
		return FeastEaster, nil
	case "christmas", "craciun", "crăciun":
		return FeastChristmas, nil
	case "newyear", "new-year", "revelion":
		return FeastNewYear, nil
	default:
		return 0, fmt.Errorf("unknown feast %q", s)
	}
}

// Name returns the Romanian name of the feast
func (f Feast) Name() string {
	switch f {
	case FeastEaster:
		return "Paște"
	case FeastChristmas:
		return "Crăciun"
	case FeastNewYear:
		return "Revelion"
	default:
		return ""
	}
}

// Date returns the feast's date in year
func (f Feast) Date(year int) civil.Date {
	switch f {
	case FeastEaster:
		return OrthodoxEaster(year)
	case FeastChristmas:
		return civil.Date{Year: year, Month: 12, Day: 25}
	default:
		return civil.Date{Year: year, Month: 1, Day: 1}
	}
}

// NextFeast returns the first occurrence of f strictly after today, looking at
// most ten years ahead. If none qualifies the occurrence ten years out is returned.
func NextFeast(f Feast, today civil.Date) civil.Date {
	var d civil.Date
	for year := today.Year; year <= today.Year+10; year++ {
		d = f.Date(year)
		if d.After(today) {
			break
		}
	}
	return d
}
