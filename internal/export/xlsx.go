package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/shift"
)

// Cell labels of the roster
const (
	LabelDay   = "Z"
	LabelNight = "N"
	LabelLeave = "CO"
)

// Group is one roster column
type Group struct {
	Name   string
	Offset shift.Offset
}

// Roster is a year of shifts for several groups, one sheet per month
type Roster struct {
	Year   int
	Months []*calendar.MonthInfo
	Cycle  shift.Cycle
	Groups []Group

	// Leave marks leave days of the group with LeaveOffset
	Leave       LeaveChecker
	LeaveOffset shift.Offset

	logger *zap.Logger
}

// NewRoster creates a roster over the given months
func NewRoster(year int, months []*calendar.MonthInfo, c shift.Cycle, groups []Group, logger *zap.Logger) *Roster {
	return &Roster{
		Year:   year,
		Months: months,
		Cycle:  c,
		Groups: groups,
		logger: logger,
	}
}

// WithLeave marks leave days of one group
func (r *Roster) WithLeave(leave LeaveChecker, o shift.Offset) *Roster {
	r.Leave = leave
	r.LeaveOffset = o
	return r
}

// SheetName returns the sheet title of a month
func SheetName(info *calendar.MonthInfo) string {
	return fmt.Sprintf("%s %d", shift.MonthName(info.Month), info.Year)
}

// CellLabel returns what the roster shows for kind, taking leave into account
func CellLabel(kind shift.Kind, onLeave bool) string {
	switch {
	case onLeave:
		return LabelLeave
	case kind == shift.DayShift:
		return LabelDay
	case kind == shift.NightShift:
		return LabelNight
	default:
		return ""
	}
}

type rosterStyles struct {
	title  int
	header int
	normal int
	offDay int
	day    int
	night  int
	leave  int
}

func newRosterStyles(f *excelize.File) (*rosterStyles, error) {
	border := []excelize.Border{
		{Type: "top", Color: "#D0D0D0", Style: 1},
		{Type: "bottom", Color: "#D0D0D0", Style: 1},
		{Type: "left", Color: "#D0D0D0", Style: 1},
		{Type: "right", Color: "#D0D0D0", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	s := &rosterStyles{}
	defs := map[*int]*excelize.Style{
		&s.title:  {Font: &excelize.Font{Bold: true, Size: 14}},
		&s.header: {Font: &excelize.Font{Bold: true}, Fill: fill("#E0EBF5"), Border: border, Alignment: center},
		&s.normal: {Border: border, Alignment: center},
		&s.offDay: {Font: &excelize.Font{Color: "#FF0000"}, Border: border, Alignment: center},
		&s.day:    {Font: &excelize.Font{Bold: true}, Fill: fill("#FFF2CC"), Border: border, Alignment: center},
		&s.night:  {Font: &excelize.Font{Bold: true, Color: "#FFFFFF"}, Fill: fill("#44546A"), Border: border, Alignment: center},
		&s.leave:  {Font: &excelize.Font{Bold: true}, Fill: fill("#C6EFCE"), Border: border, Alignment: center},
	}

	for dst, style := range defs {
		id, err := f.NewStyle(style)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		*dst = id
	}
	return s, nil
}

func (s *rosterStyles) forLabel(label string) int {
	switch label {
	case LabelDay:
		return s.day
	case LabelNight:
		return s.night
	case LabelLeave:
		return s.leave
	default:
		return s.normal
	}
}

// Write renders the roster as an XLSX workbook
func (r *Roster) Write(w io.Writer) error {
	if len(r.Months) == 0 {
		return fmt.Errorf("roster has no months")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil && r.logger != nil {
			r.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	styles, err := newRosterStyles(f)
	if err != nil {
		return err
	}

	for i, info := range r.Months {
		sheet := SheetName(info)
		index, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := r.writeMonth(f, sheet, info, styles); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet, err)
		}
	}

	// default sheet of a new workbook
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if r.logger != nil {
		r.logger.Info("Roster exported",
			zap.Int("year", r.Year),
			zap.Int("months", len(r.Months)),
			zap.Int("groups", len(r.Groups)))
	}
	return nil
}

func (r *Roster) writeMonth(f *excelize.File, sheet string, info *calendar.MonthInfo, styles *rosterStyles) error {
	lastCol, err := excelize.ColumnNumberToName(len(r.Groups) + 3)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Program ture %s", SheetName(info))
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return err
	}

	headers := []string{"Data", "Ziua"}
	for _, g := range r.Groups {
		headers = append(headers, g.Name)
	}
	headers = append(headers, "Sărbătoare")
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A3", lastCol+"3", styles.header); err != nil {
		return err
	}

	for i, di := range info.Days {
		row := i + 4

		dateStyle := styles.normal
		if !di.IsWorkday {
			dateStyle = styles.offDay
		}

		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), di.Date.Day); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), shift.DayName(di.Date)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), dateStyle); err != nil {
			return err
		}

		for g, group := range r.Groups {
			cell, err := excelize.CoordinatesToCellName(g+3, row)
			if err != nil {
				return err
			}
			onLeave := r.Leave != nil && group.Offset == r.LeaveOffset && r.Leave.Contains(di.Date)
			label := CellLabel(r.Cycle.Classify(di.Date, group.Offset), onLeave)
			if err := f.SetCellValue(sheet, cell, label); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles.forLabel(label)); err != nil {
				return err
			}
		}

		noteCell := fmt.Sprintf("%s%d", lastCol, row)
		if err := f.SetCellValue(sheet, noteCell, di.Note); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 6); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 12); err != nil {
		return err
	}
	return f.SetColWidth(sheet, lastCol, lastCol, 30)
}
