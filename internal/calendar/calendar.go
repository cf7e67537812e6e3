package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Input validation errors
var (
	ErrInvalidYear  = errors.New("year must be positive")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidDay   = errors.New("day outside month")
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	default:
		return fmt.Sprintf("DayType(%d)", int(t))
	}
}

// Holiday is a single statutory public holiday
type Holiday struct {
	Date      civil.Date
	Name      string
	LocalName string
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date         civil.Date
	Type         DayType
	WorkingHours int
	IsWorkday    bool
	Note         string
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year         int
	Month        time.Month
	WorkingHours int // target hours for a regular 8h working day
	WorkDays     int
	Weekends     int
	Holidays     int
	Days         []DayInfo
	NonWorking   *HolidaySet
}

// Calendar is a source of statutory holidays.
// Providers answer for a whole year because that is what the remote API serves.
type Calendar interface {
	// PublicHolidays returns the statutory holidays of the given year
	PublicHolidays(ctx context.Context, year int) ([]Holiday, error)
}

// ValidateMonth fails fast on a (year, month) pair the core cannot work with
func ValidateMonth(year int, month time.Month) error {
	if year < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, int(month))
	}
	return nil
}
