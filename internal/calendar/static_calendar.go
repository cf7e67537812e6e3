package calendar

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	cal "github.com/rickar/cal/v2"
	"go.uber.org/zap"
)

// Romanian statutory holidays with a fixed date
var (
	NewYear = &cal.Holiday{
		Name:  "Anul Nou",
		Type:  cal.ObservancePublic,
		Month: time.January,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}
	NewYearSecondDay = &cal.Holiday{
		Name:  "A doua zi de Anul Nou",
		Type:  cal.ObservancePublic,
		Month: time.January,
		Day:   2,
		Func:  cal.CalcDayOfMonth,
	}
	Epiphany = &cal.Holiday{
		Name:      "Boboteaza",
		Type:      cal.ObservancePublic,
		Month:     time.January,
		Day:       6,
		StartYear: 2024,
		Func:      cal.CalcDayOfMonth,
	}
	SaintJohn = &cal.Holiday{
		Name:      "Sfântul Ioan Botezătorul",
		Type:      cal.ObservancePublic,
		Month:     time.January,
		Day:       7,
		StartYear: 2024,
		Func:      cal.CalcDayOfMonth,
	}
	UnificationDay = &cal.Holiday{
		Name:  "Ziua Unirii Principatelor Române",
		Type:  cal.ObservancePublic,
		Month: time.January,
		Day:   24,
		Func:  cal.CalcDayOfMonth,
	}
	LabourDay = &cal.Holiday{
		Name:  "Ziua Muncii",
		Type:  cal.ObservancePublic,
		Month: time.May,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}
	ChildrensDay = &cal.Holiday{
		Name:  "Ziua Copilului",
		Type:  cal.ObservancePublic,
		Month: time.June,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}
	Assumption = &cal.Holiday{
		Name:  "Adormirea Maicii Domnului",
		Type:  cal.ObservancePublic,
		Month: time.August,
		Day:   15,
		Func:  cal.CalcDayOfMonth,
	}
	SaintAndrew = &cal.Holiday{
		Name:  "Sfântul Andrei",
		Type:  cal.ObservancePublic,
		Month: time.November,
		Day:   30,
		Func:  cal.CalcDayOfMonth,
	}
	NationalDay = &cal.Holiday{
		Name:  "Ziua Națională",
		Type:  cal.ObservancePublic,
		Month: time.December,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}
	Christmas = &cal.Holiday{
		Name:  "Crăciunul",
		Type:  cal.ObservancePublic,
		Month: time.December,
		Day:   25,
		Func:  cal.CalcDayOfMonth,
	}
	ChristmasSecondDay = &cal.Holiday{
		Name:  "A doua zi de Crăciun",
		Type:  cal.ObservancePublic,
		Month: time.December,
		Day:   26,
		Func:  cal.CalcDayOfMonth,
	}
)

// Holidays moving with Orthodox Easter
var (
	EasterSunday = &cal.Holiday{
		Name: "Paștele",
		Type: cal.ObservancePublic,
		Func: calcOrthodoxEasterOffset,
	}
	EasterMonday = &cal.Holiday{
		Name:   "A doua zi de Paște",
		Type:   cal.ObservancePublic,
		Offset: 1,
		Func:   calcOrthodoxEasterOffset,
	}
)

// RomanianHolidays is the static fallback table
var RomanianHolidays = []*cal.Holiday{
	NewYear,
	NewYearSecondDay,
	Epiphany,
	SaintJohn,
	UnificationDay,
	EasterSunday,
	EasterMonday,
	LabourDay,
	ChildrensDay,
	Assumption,
	SaintAndrew,
	NationalDay,
	Christmas,
	ChristmasSecondDay,
}

func calcOrthodoxEasterOffset(h *cal.Holiday, year int) time.Time {
	return OrthodoxEaster(year).AddDays(h.Offset).In(time.UTC)
}

// StaticCalendar implements Calendar from a built-in holiday table, optionally
// extended with a local file of extra dates
type StaticCalendar struct {
	holidays []*cal.Holiday
	filePath string
	extra    map[int][]Holiday // year → holidays read from file
	logger   *zap.Logger
}

// NewStaticCalendar creates a StaticCalendar over the given table.
// filePath may be empty.
func NewStaticCalendar(holidays []*cal.Holiday, filePath string, logger *zap.Logger) *StaticCalendar {
	return &StaticCalendar{
		holidays: holidays,
		filePath: filePath,
		extra:    make(map[int][]Holiday),
		logger:   logger,
	}
}

// Load reads extra holidays from the configured file.
// Format: YYYY-MM-DD name
func (sc *StaticCalendar) Load() error {
	if sc.filePath == "" {
		return nil
	}

	file, err := os.Open(sc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		date, err := civil.ParseDate(parts[0])
		if err != nil {
			sc.logger.Warn("Failed to parse date", zap.String("line", line), zap.Error(err))
			continue
		}

		name := ""
		if len(parts) == 2 {
			name = strings.TrimSpace(parts[1])
		}

		sc.extra[date.Year] = append(sc.extra[date.Year], Holiday{
			Date:      date,
			Name:      name,
			LocalName: name,
		})
		count++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	sc.logger.Info("Holiday file loaded",
		zap.String("file", sc.filePath),
		zap.Int("holidays", count))

	return nil
}

// PublicHolidays returns the table's holidays for year plus any file extras,
// sorted by date with duplicates removed
func (sc *StaticCalendar) PublicHolidays(_ context.Context, year int) ([]Holiday, error) {
	seen := make(map[civil.Date]bool)
	holidays := []Holiday{}

	for _, h := range sc.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue // outside the holiday's StartYear/EndYear
		}
		date := civil.DateOf(actual)
		if date.Year != year || seen[date] {
			continue
		}
		seen[date] = true
		holidays = append(holidays, Holiday{
			Date:      date,
			Name:      h.Name,
			LocalName: h.Name,
		})
	}

	for _, h := range sc.extra[year] {
		if seen[h.Date] {
			continue
		}
		seen[h.Date] = true
		holidays = append(holidays, h)
	}

	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})

	return holidays, nil
}
