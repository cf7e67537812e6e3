package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/username/shift-planner/pkg/dateutil"
)

// Resolver turns a provider's yearly holiday list into the per-month
// non-working day set used by the planner
type Resolver struct {
	calendar Calendar
	logger   *zap.Logger
}

// NewResolver creates a Resolver over cal
func NewResolver(cal Calendar, logger *zap.Logger) *Resolver {
	return &Resolver{
		calendar: cal,
		logger:   logger,
	}
}

// Holidays returns the provider's holidays falling inside (year, month)
func (r *Resolver) Holidays(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}

	all, err := r.calendar.PublicHolidays(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays for %d: %w", year, err)
	}

	holidays := make([]Holiday, 0, 4)
	for _, h := range all {
		if h.Date.Year == year && h.Date.Month == month {
			holidays = append(holidays, h)
		}
	}
	return holidays, nil
}

// Resolve returns every statutory holiday and weekend day of the month
func (r *Resolver) Resolve(ctx context.Context, year int, month time.Month) (*HolidaySet, error) {
	holidays, err := r.Holidays(ctx, year, month)
	if err != nil {
		return nil, err
	}

	set, err := nonWorkingSet(year, month, holidays)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Resolved non-working days",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", len(holidays)),
		zap.Int("non_working", set.Len()))

	return set, nil
}

// nonWorkingSet unions the weekends of the month with the holiday days
func nonWorkingSet(year int, month time.Month, holidays []Holiday) (*HolidaySet, error) {
	days := make([]int, 0, len(holidays))
	for _, h := range holidays {
		days = append(days, h.Date.Day)
	}
	holidaySet, err := NewHolidaySet(year, month, days...)
	if err != nil {
		return nil, err
	}

	set, err := WeekendSet(year, month)
	if err != nil {
		return nil, err
	}
	if err := set.Union(holidaySet); err != nil {
		return nil, err
	}
	return set, nil
}

// MonthInfo returns the per-day breakdown of a month. Working days are
// credited dayHours each.
func (r *Resolver) MonthInfo(ctx context.Context, year int, month time.Month, dayHours int) (*MonthInfo, error) {
	holidays, err := r.Holidays(ctx, year, month)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(holidays))
	for _, h := range holidays {
		names[h.Date.Day] = h.LocalName
	}

	nonWorking, err := nonWorkingSet(year, month, holidays)
	if err != nil {
		return nil, err
	}

	dates := dateutil.MonthDates(year, month)
	info := &MonthInfo{
		Year:       year,
		Month:      month,
		Days:       make([]DayInfo, 0, len(dates)),
		NonWorking: nonWorking,
	}

	for _, date := range dates {
		day := DayInfo{Date: date}

		name, holiday := names[date.Day]
		switch {
		case holiday:
			day.Type = DayTypeHoliday
			day.Note = name
			info.Holidays++
		case dateutil.IsWeekday(date):
			day.Type = DayTypeWorkday
			day.IsWorkday = true
			day.WorkingHours = dayHours
			info.WorkDays++
		default:
			day.Type = DayTypeWeekend
			info.Weekends++
		}

		info.WorkingHours += day.WorkingHours
		info.Days = append(info.Days, day)
	}

	return info, nil
}
