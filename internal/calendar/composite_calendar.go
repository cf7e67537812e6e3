package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeCalendar implements Calendar with fallback strategy
// Primary: NagerCalendar (API)
// Fallback: StaticCalendar (built-in table + optional file)
type CompositeCalendar struct {
	primary  Calendar
	fallback Calendar
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback Calendar, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// PublicHolidays asks the primary provider and falls back on any error
func (cc *CompositeCalendar) PublicHolidays(ctx context.Context, year int) ([]Holiday, error) {
	holidays, err := cc.primary.PublicHolidays(ctx, year)
	if err == nil {
		return holidays, nil
	}

	cc.logger.Warn("Primary calendar failed, falling back to static table",
		zap.Int("year", year),
		zap.Error(err))

	return cc.fallback.PublicHolidays(ctx, year)
}

// LoadFallback loads the fallback calendar (if StaticCalendar)
func (cc *CompositeCalendar) LoadFallback() error {
	if sc, ok := cc.fallback.(*StaticCalendar); ok {
		if err := sc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
