package planner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/leavestore"
	"github.com/username/shift-planner/internal/shift"
)

func newTestManager(t *testing.T, offset shift.Offset) (*Manager, *leavestore.Store) {
	t.Helper()

	logger := zap.NewNop()
	static := calendar.NewStaticCalendar(calendar.RomanianHolidays, "", logger)
	resolver := calendar.NewResolver(static, logger)

	store := leavestore.NewStore(filepath.Join(t.TempDir(), "state.json"), logger)
	require.NoError(t, store.Load())

	m, err := NewManager(resolver, DefaultCycles(), offset, DefaultPolicy(), store, logger)
	require.NoError(t, err)
	return m, store
}

func TestNewManager_InvalidOffset(t *testing.T) {
	resolver := calendar.NewResolver(calendar.NewStaticCalendar(nil, "", zap.NewNop()), zap.NewNop())

	_, err := NewManager(resolver, DefaultCycles(), 5, DefaultPolicy(), nil, zap.NewNop())
	assert.ErrorIs(t, err, shift.ErrInvalidOffset)
}

func TestManager_OptimizeYear(t *testing.T) {
	m, _ := newTestManager(t, 3)
	ctx := context.Background()

	results, err := m.OptimizeYear(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, results, 12)

	for i, res := range results {
		assert.Equal(t, time.Month(i+1), res.Month)
		assert.Equal(t, 2026, res.Year)

		single, err := m.OptimizeMonth(ctx, 2026, res.Month)
		require.NoError(t, err)
		assert.Equal(t, single, res)
	}
}

func TestManager_OptimizeMonthInvalid(t *testing.T) {
	m, _ := newTestManager(t, 1)

	_, err := m.OptimizeMonth(context.Background(), 2024, 13)
	assert.ErrorIs(t, err, calendar.ErrInvalidMonth)
}

func TestManager_ToggleLeave(t *testing.T) {
	m, store := newTestManager(t, 2)
	ctx := context.Background()
	d := civil.Date{Year: 2024, Month: time.May, Day: 2}

	before, err := m.Plan(ctx, 2024, time.May)
	require.NoError(t, err)

	plan, delta, err := m.ToggleLeave(ctx, d)
	require.NoError(t, err)
	assert.True(t, store.Contains(d))

	k := before.Kind(2)
	p := m.Policy()
	assert.Equal(t, DayHours(k.Work, k.Holiday, true, p)-DayHours(k.Work, k.Holiday, false, p), delta)
	assert.Equal(t, before.TotalHours+delta, plan.TotalHours)
	assert.Equal(t, 1, plan.LeaveDays)

	reloaded, err := m.Plan(ctx, 2024, time.May)
	require.NoError(t, err)
	assert.Equal(t, plan.TotalHours, reloaded.TotalHours)
	assert.Equal(t, StateLeave, reloaded.State(2))

	_, deltaBack, err := m.ToggleLeave(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, -delta, deltaBack)
	assert.False(t, store.Contains(d))
}

func TestManager_MonthView(t *testing.T) {
	m, _ := newTestManager(t, 1)
	ctx := context.Background()

	_, _, err := m.ToggleLeave(ctx, civil.Date{Year: 2024, Month: time.May, Day: 20})
	require.NoError(t, err)
	_, _, err = m.ToggleLeave(ctx, civil.Date{Year: 2024, Month: time.June, Day: 3})
	require.NoError(t, err)

	view, err := m.MonthView(ctx, 2024, time.May)
	require.NoError(t, err)
	require.Len(t, view.Days, 31)

	assert.Equal(t, 1, view.LeaveInMonth)
	assert.Equal(t, 2, view.LeaveTotal)
	assert.True(t, view.Days[19].Leave)
	assert.True(t, view.Days[3].Weekend)
	assert.True(t, view.Days[4].Holiday)
	assert.Equal(t, calendar.EasterSunday.Name, view.Days[4].HolidayName)

	cycle := m.Cycles().Calendar
	for _, vd := range view.Days {
		assert.Equal(t, cycle.Classify(vd.Date, 1), vd.Kind)
	}
}

func TestManager_Nearest(t *testing.T) {
	m, _ := newTestManager(t, 2)

	n, ok := m.Nearest(shift.FinderEpoch)
	require.True(t, ok)
	assert.Equal(t, shift.FinderEpoch, n.Date)
	assert.Equal(t, shift.DayShift, n.Kind)
	assert.Zero(t, n.Offset)
}

func TestManager_PlanAgreesWithMonthView(t *testing.T) {
	ctx := context.Background()

	for o := shift.Offset(1); o <= 4; o++ {
		m, _ := newTestManager(t, o)

		for _, month := range []time.Month{time.January, time.May, time.December} {
			view, err := m.MonthView(ctx, 2026, month)
			require.NoError(t, err)
			plan, err := m.Plan(ctx, 2026, month)
			require.NoError(t, err)
			require.Equal(t, len(view.Days), plan.Days())

			for i, vd := range view.Days {
				assert.Equal(t, vd.Kind.IsWork(), plan.Kind(i+1).Work, "offset %d %s", o, vd.Date)
			}

			res, err := m.OptimizeMonth(ctx, 2026, month)
			require.NoError(t, err)
			if res.Found() {
				assert.Equal(t, res.TargetHours, AccruedHours(mustResolve(t, m, 2026, month), res.Interval, m.Cycles().Calendar, o, m.Policy()))
			}
		}
	}
}

func mustResolve(t *testing.T, m *Manager, year int, month time.Month) *calendar.HolidaySet {
	t.Helper()
	h, err := m.resolver.Resolve(context.Background(), year, month)
	require.NoError(t, err)
	return h
}
