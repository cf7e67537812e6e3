package planner

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/shift"
)

// LeaveStore is where chosen leave days live between runs
type LeaveStore interface {
	Contains(d civil.Date) bool
	Toggle(d civil.Date) (bool, error)
	CountMonth(year int, month time.Month) int
	Total() int
}

// Cycles holds the roster anchors of each feature
type Cycles struct {
	Calendar shift.Cycle
	Finder   shift.Cycle
	Planner  shift.Cycle
}

// DefaultCycles anchors each feature at its historical epoch
func DefaultCycles() Cycles {
	return Cycles{
		Calendar: shift.NewCycle(shift.CalendarEpoch),
		Finder:   shift.NewCycle(shift.FinderEpoch),
		Planner:  shift.NewCycle(shift.PlannerEpoch),
	}
}

// ViewDay is one cell of the month calendar
type ViewDay struct {
	Date        civil.Date
	Kind        shift.Kind
	Leave       bool
	Weekend     bool
	Holiday     bool
	HolidayName string
}

// MonthView is the month calendar of one shift group
type MonthView struct {
	Year         int
	Month        time.Month
	Offset       shift.Offset
	Days         []ViewDay
	LeaveInMonth int
	LeaveTotal   int
}

// Manager ties the holiday resolver, the roster and the leave store together
type Manager struct {
	resolver *calendar.Resolver
	cycles   Cycles
	offset   shift.Offset
	policy   Policy
	store    LeaveStore
	logger   *zap.Logger
}

// NewManager creates a new planner manager. store may be nil when leave days
// are not tracked.
func NewManager(
	resolver *calendar.Resolver,
	cycles Cycles,
	offset shift.Offset,
	policy Policy,
	store LeaveStore,
	logger *zap.Logger,
) (*Manager, error) {
	if err := offset.Validate(); err != nil {
		return nil, err
	}

	return &Manager{
		resolver: resolver,
		cycles:   cycles,
		offset:   offset,
		policy:   policy,
		store:    store,
		logger:   logger,
	}, nil
}

// Offset returns the shift group the manager works for
func (m *Manager) Offset() shift.Offset {
	return m.offset
}

// Policy returns the hour credits in use
func (m *Manager) Policy() Policy {
	return m.policy
}

// Cycles returns the roster anchors in use
func (m *Manager) Cycles() Cycles {
	return m.cycles
}

// OptimizeMonth finds the best leave interval of (year, month)
func (m *Manager) OptimizeMonth(ctx context.Context, year int, month time.Month) (Result, error) {
	holidays, err := m.resolver.Resolve(ctx, year, month)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve holidays: %w", err)
	}

	res := Optimize(holidays, m.cycles.Planner, m.offset, m.policy)

	m.logger.Info("Month optimized",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Ints("non_working", holidays.Days()),
		zap.Int("target_hours", res.TargetHours),
		zap.Int("matches", res.Matches),
		zap.Stringer("interval", res.Interval))

	return res, nil
}

// OptimizeYear runs OptimizeMonth for January through December
func (m *Manager) OptimizeYear(ctx context.Context, year int) ([]Result, error) {
	results := make([]Result, 0, 12)
	for month := time.January; month <= time.December; month++ {
		res, err := m.OptimizeMonth(ctx, year, month)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Plan returns the month plan with the stored leave days applied
func (m *Manager) Plan(ctx context.Context, year int, month time.Month) (*MonthPlan, error) {
	holidays, err := m.resolver.Resolve(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve holidays: %w", err)
	}

	plan := NewMonthPlan(holidays, m.cycles.Planner, m.offset, m.policy)
	if m.store == nil {
		return plan, nil
	}

	for day := 1; day <= plan.Days(); day++ {
		if m.store.Contains(civil.Date{Year: year, Month: month, Day: day}) {
			if _, err := plan.Toggle(day); err != nil {
				return nil, err
			}
		}
	}

	return plan, nil
}

// ToggleLeave flips d in the leave store and returns the updated plan of d's
// month together with the hour delta
func (m *Manager) ToggleLeave(ctx context.Context, d civil.Date) (*MonthPlan, int, error) {
	if m.store == nil {
		return nil, 0, fmt.Errorf("no leave store configured")
	}
	if !d.IsValid() {
		return nil, 0, fmt.Errorf("%w: %v", calendar.ErrInvalidDay, d)
	}

	plan, err := m.Plan(ctx, d.Year, d.Month)
	if err != nil {
		return nil, 0, err
	}

	delta, err := plan.Toggle(d.Day)
	if err != nil {
		return nil, 0, err
	}

	leave, err := m.store.Toggle(d)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to save leave day: %w", err)
	}

	m.logger.Info("Leave toggled",
		zap.String("date", d.String()),
		zap.Bool("leave", leave),
		zap.Int("delta_hours", delta),
		zap.Int("total_hours", plan.TotalHours),
		zap.Int("target_hours", plan.TargetHours))

	return plan, delta, nil
}

// MonthView classifies every day of the month for the calendar display
func (m *Manager) MonthView(ctx context.Context, year int, month time.Month) (*MonthView, error) {
	info, err := m.resolver.MonthInfo(ctx, year, month, m.policy.TargetDayHours)
	if err != nil {
		return nil, fmt.Errorf("failed to get month info: %w", err)
	}

	view := &MonthView{
		Year:   year,
		Month:  month,
		Offset: m.offset,
		Days:   make([]ViewDay, 0, len(info.Days)),
	}

	for _, di := range info.Days {
		vd := ViewDay{
			Date:    di.Date,
			Kind:    m.cycles.Calendar.Classify(di.Date, m.offset),
			Weekend: di.Type == calendar.DayTypeWeekend,
			Holiday: di.Type == calendar.DayTypeHoliday,
		}
		if vd.Holiday {
			vd.HolidayName = di.Note
		}
		if m.store != nil {
			vd.Leave = m.store.Contains(di.Date)
		}
		view.Days = append(view.Days, vd)
	}

	if m.store != nil {
		view.LeaveInMonth = m.store.CountMonth(year, month)
		view.LeaveTotal = m.store.Total()
	}

	return view, nil
}

// Nearest returns the shift closest to anchor
func (m *Manager) Nearest(anchor civil.Date) (shift.Nearest, bool) {
	return shift.NearestWorkDay(anchor, m.cycles.Finder, m.offset)
}
