package calendar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

func TestStaticCalendar_PublicHolidays(t *testing.T) {
	sc := NewStaticCalendar(RomanianHolidays, "", zap.NewNop())

	tests := []struct {
		year      int
		wantCount int
	}{
		{2023, 12}, // before Boboteaza and Sf. Ioan became public
		{2024, 14},
		{2025, 14},
	}

	for _, tt := range tests {
		holidays, err := sc.PublicHolidays(context.Background(), tt.year)
		if err != nil {
			t.Fatalf("PublicHolidays(%d) error = %v", tt.year, err)
		}
		if len(holidays) != tt.wantCount {
			t.Errorf("PublicHolidays(%d) count = %d, want %d", tt.year, len(holidays), tt.wantCount)
		}
		for i := 1; i < len(holidays); i++ {
			if !holidays[i-1].Date.Before(holidays[i].Date) {
				t.Errorf("PublicHolidays(%d) not sorted at %d", tt.year, i)
			}
		}
	}
}

func TestStaticCalendar_EasterMondayInMay(t *testing.T) {
	sc := NewStaticCalendar(RomanianHolidays, "", zap.NewNop())

	holidays, err := sc.PublicHolidays(context.Background(), 2024)
	if err != nil {
		t.Fatalf("PublicHolidays() error = %v", err)
	}

	want := map[civil.Date]string{
		{Year: 2024, Month: time.May, Day: 5}: EasterSunday.Name,
		{Year: 2024, Month: time.May, Day: 6}: EasterMonday.Name,
	}
	for _, h := range holidays {
		if name, ok := want[h.Date]; ok {
			if h.Name != name {
				t.Errorf("%v name = %q, want %q", h.Date, h.Name, name)
			}
			delete(want, h.Date)
		}
	}
	if len(want) != 0 {
		t.Errorf("missing holidays: %v", want)
	}
}

func TestStaticCalendar_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	content := "# extra days\n2024-03-08 Ziua Femeii\n\nnot-a-date ignored\n2024-01-01 Anul Nou\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sc := NewStaticCalendar(RomanianHolidays, path, zap.NewNop())
	if err := sc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	holidays, err := sc.PublicHolidays(context.Background(), 2024)
	if err != nil {
		t.Fatalf("PublicHolidays() error = %v", err)
	}
	// Jan 1 duplicates the table and is not counted twice
	if len(holidays) != 15 {
		t.Errorf("count = %d, want 15", len(holidays))
	}

	found := false
	for _, h := range holidays {
		if h.Date == (civil.Date{Year: 2024, Month: time.March, Day: 8}) {
			found = h.Name == "Ziua Femeii"
		}
	}
	if !found {
		t.Error("extra holiday 2024-03-08 not returned")
	}
}

func TestStaticCalendar_LoadMissingFile(t *testing.T) {
	sc := NewStaticCalendar(RomanianHolidays, filepath.Join(t.TempDir(), "nope.txt"), zap.NewNop())
	if err := sc.Load(); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

type failingCalendar struct{}

func (failingCalendar) PublicHolidays(context.Context, int) ([]Holiday, error) {
	return nil, errors.New("network down")
}

func TestCompositeCalendar_FallsBack(t *testing.T) {
	static := NewStaticCalendar(RomanianHolidays, "", zap.NewNop())
	cc := NewCompositeCalendar(failingCalendar{}, static, zap.NewNop())

	holidays, err := cc.PublicHolidays(context.Background(), 2024)
	if err != nil {
		t.Fatalf("PublicHolidays() error = %v", err)
	}
	if len(holidays) != 14 {
		t.Errorf("fallback count = %d, want 14", len(holidays))
	}

	if err := cc.LoadFallback(); err != nil {
		t.Errorf("LoadFallback() error = %v", err)
	}
}

func TestCompositeCalendar_PrimaryWins(t *testing.T) {
	primary := NewStaticCalendar(nil, "", zap.NewNop())
	fallback := NewStaticCalendar(RomanianHolidays, "", zap.NewNop())
	cc := NewCompositeCalendar(primary, fallback, zap.NewNop())

	holidays, err := cc.PublicHolidays(context.Background(), 2024)
	if err != nil {
		t.Fatalf("PublicHolidays() error = %v", err)
	}
	if len(holidays) != 0 {
		t.Errorf("count = %d, want 0 from primary", len(holidays))
	}
}
