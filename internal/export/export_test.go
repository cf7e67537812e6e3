package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/shift"
)

type leaveSet map[civil.Date]bool

func (l leaveSet) Contains(d civil.Date) bool { return l[d] }

func jan(day int) civil.Date {
	return civil.Date{Year: 2024, Month: time.January, Day: day}
}

var finder = shift.NewCycle(shift.FinderEpoch)

func TestShiftDates(t *testing.T) {
	days, err := ShiftDates(finder, 2, shift.DayShift, jan(1), jan(31))
	require.NoError(t, err)
	assert.Equal(t, []civil.Date{jan(1), jan(5), jan(9), jan(13), jan(17), jan(21), jan(25), jan(29)}, days)

	nights, err := ShiftDates(finder, 2, shift.NightShift, jan(1), jan(31))
	require.NoError(t, err)
	assert.Len(t, nights, 8)
	assert.Equal(t, jan(2), nights[0])
	assert.Equal(t, jan(30), nights[7])

	for _, d := range append(days, nights...) {
		assert.True(t, finder.IsWorkDay(d, 2), "%v", d)
	}
}

func TestShiftDates_EmptyWindow(t *testing.T) {
	dates, err := ShiftDates(finder, 2, shift.DayShift, jan(10), jan(9))
	require.NoError(t, err)
	assert.Empty(t, dates)

	// Jan 2..4 holds no day shift for group 2
	dates, err = ShiftDates(finder, 2, shift.DayShift, jan(2), jan(4))
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestShiftEvents_SkipsLeave(t *testing.T) {
	leave := leaveSet{jan(5): true, jan(6): true, jan(7): true}

	events, err := ShiftEvents(finder, 2, jan(1), jan(31), leave)
	require.NoError(t, err)
	assert.Len(t, events, 14)

	for i, ev := range events {
		assert.False(t, leave.Contains(ev.Date))
		assert.Equal(t, finder.Classify(ev.Date, 2), ev.Kind)
		if i > 0 {
			assert.True(t, events[i-1].Date.Before(ev.Date))
		}
	}
}

func TestWriteICS(t *testing.T) {
	events, err := ShiftEvents(finder, 2, jan(1), jan(8), nil)
	require.NoError(t, err)
	require.Len(t, events, 4)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, "Tura 2", 2, events))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 4, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240101")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240102")
	assert.Contains(t, out, "SUMMARY:Tura de zi")
	assert.Contains(t, out, "SUMMARY:Tura de noapte")
	assert.Contains(t, out, "X-WR-CALNAME:Tura 2")
	assert.NotContains(t, out, "DTSTART;VALUE=DATE:20240103")
	assert.Contains(t, out, "PRODID:"+ICSProductID)
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "UID:20240102-tura2-"+shift.NightShift.String()+"@shift-planner")

	parsed, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	parsedEvents := parsed.Events()
	require.Len(t, parsedEvents, 4)

	start, err := parsedEvents[1].GetAllDayStartAt()
	require.NoError(t, err)
	assert.Equal(t, jan(2), civil.DateOf(start))
}

func TestCellLabel(t *testing.T) {
	assert.Equal(t, LabelDay, CellLabel(shift.DayShift, false))
	assert.Equal(t, LabelNight, CellLabel(shift.NightShift, false))
	assert.Equal(t, "", CellLabel(shift.Rest1, false))
	assert.Equal(t, LabelLeave, CellLabel(shift.Rest2, true))
	assert.Equal(t, LabelLeave, CellLabel(shift.DayShift, true))
}

func TestRoster_Write(t *testing.T) {
	logger := zap.NewNop()
	resolver := calendar.NewResolver(calendar.NewStaticCalendar(calendar.RomanianHolidays, "", logger), logger)

	var months []*calendar.MonthInfo
	for _, m := range []time.Month{time.January, time.May} {
		info, err := resolver.MonthInfo(context.Background(), 2024, m, 8)
		require.NoError(t, err)
		months = append(months, info)
	}

	groups := []Group{{"tura 1", 1}, {"tura 2", 2}, {"tura 3", 3}, {"tura 4", 4}}
	roster := NewRoster(2024, months, finder, groups, logger).WithLeave(leaveSet{jan(2): true}, 2)

	var buf bytes.Buffer
	require.NoError(t, roster.Write(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"ianuarie 2024", "mai 2024"}, f.GetSheetList())

	cells := map[string]string{
		"A1": "Program ture ianuarie 2024",
		"D3": "tura 2",
		"G3": "Sărbătoare",
		"A4": "1",
		"B4": "luni",
		"D4": LabelDay,   // group 2 starts on a day shift
		"E4": LabelNight, // group 3 one phase later
		"D5": LabelLeave,
		"G4": "Anul Nou",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("ianuarie 2024", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	easter, err := f.GetCellValue("mai 2024", "G8")
	require.NoError(t, err)
	assert.Equal(t, calendar.EasterSunday.Name, easter)
}

func TestRoster_WriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewRoster(2024, nil, finder, nil, zap.NewNop()).Write(&buf))
}
