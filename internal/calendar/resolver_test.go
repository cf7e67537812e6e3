package calendar

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

func newStaticResolver() *Resolver {
	return NewResolver(NewStaticCalendar(RomanianHolidays, "", zap.NewNop()), zap.NewNop())
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  []int
	}{
		{
			name:  "May 2024 with Labour Day and Easter",
			year:  2024,
			month: time.May,
			want:  []int{1, 4, 5, 6, 11, 12, 18, 19, 25, 26},
		},
		{
			name:  "February 2024 weekends only",
			year:  2024,
			month: time.February,
			want:  []int{3, 4, 10, 11, 17, 18, 24, 25},
		},
		{
			name:  "December 2024",
			year:  2024,
			month: time.December,
			want:  []int{1, 7, 8, 14, 15, 21, 22, 25, 26, 28, 29},
		},
	}

	r := newStaticResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := r.Resolve(context.Background(), tt.year, tt.month)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := set.Days(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
			if set.Year() != tt.year || set.Month() != tt.month {
				t.Errorf("set scoped to %d-%d", set.Year(), set.Month())
			}
		})
	}
}

func TestResolver_InvalidInput(t *testing.T) {
	r := newStaticResolver()

	if _, err := r.Resolve(context.Background(), 2024, 13); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("Resolve(month 13) error = %v, want ErrInvalidMonth", err)
	}
	if _, err := r.Resolve(context.Background(), 2024, 0); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("Resolve(month 0) error = %v, want ErrInvalidMonth", err)
	}
	if _, err := r.Resolve(context.Background(), 0, time.May); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("Resolve(year 0) error = %v, want ErrInvalidYear", err)
	}
}

func TestResolver_RemoteFailureFallsBack(t *testing.T) {
	srv := newNagerServer(t, http.StatusInternalServerError, "", nil)
	remote := NewNagerCalendar(srv.URL, "RO", time.Second, time.Hour, zap.NewNop())
	static := NewStaticCalendar(RomanianHolidays, "", zap.NewNop())
	r := NewResolver(NewCompositeCalendar(remote, static, zap.NewNop()), zap.NewNop())

	set, err := r.Resolve(context.Background(), 2024, time.May)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !set.Contains(6) {
		t.Error("Easter Monday missing after fallback")
	}
}

func TestResolver_RemoteHolidays(t *testing.T) {
	srv := newNagerServer(t, http.StatusOK, nager2024, nil)
	remote := NewNagerCalendar(srv.URL, "RO", time.Second, time.Hour, zap.NewNop())
	r := NewResolver(remote, zap.NewNop())

	set, err := r.Resolve(context.Background(), 2024, time.May)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// Good Friday comes from the API only
	for _, day := range []int{1, 3, 5, 6} {
		if !set.Contains(day) {
			t.Errorf("May %d missing", day)
		}
	}
}

func TestResolver_MonthInfo(t *testing.T) {
	r := newStaticResolver()

	info, err := r.MonthInfo(context.Background(), 2024, time.May, 8)
	if err != nil {
		t.Fatalf("MonthInfo() error = %v", err)
	}

	if len(info.Days) != 31 {
		t.Fatalf("Days = %d, want 31", len(info.Days))
	}
	if info.Holidays != 3 {
		t.Errorf("Holidays = %d, want 3", info.Holidays)
	}
	if info.Weekends != 7 {
		t.Errorf("Weekends = %d, want 7", info.Weekends)
	}
	if info.WorkDays != 21 {
		t.Errorf("WorkDays = %d, want 21", info.WorkDays)
	}
	if info.WorkingHours != 168 {
		t.Errorf("WorkingHours = %d, want 168", info.WorkingHours)
	}
	if info.NonWorking.Len() != 10 {
		t.Errorf("NonWorking = %d, want 10", info.NonWorking.Len())
	}

	easter := info.Days[4]
	if easter.Type != DayTypeHoliday || easter.Note != EasterSunday.Name {
		t.Errorf("May 5 = %+v, want holiday %q", easter, EasterSunday.Name)
	}
}

func TestNonWorkingSet(t *testing.T) {
	holidays := []Holiday{
		{Date: civil.Date{Year: 2024, Month: time.June, Day: 1}},  // Saturday
		{Date: civil.Date{Year: 2024, Month: time.June, Day: 24}}, // Monday
	}

	set, err := nonWorkingSet(2024, time.June, holidays)
	if err != nil {
		t.Fatalf("nonWorkingSet() error = %v", err)
	}
	want := []int{1, 2, 8, 9, 15, 16, 22, 23, 24, 29, 30}
	if got := set.Days(); !reflect.DeepEqual(got, want) {
		t.Errorf("nonWorkingSet() = %v, want %v", got, want)
	}

	bad := []Holiday{{Date: civil.Date{Year: 2024, Month: time.June, Day: 31}}}
	if _, err := nonWorkingSet(2024, time.June, bad); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("nonWorkingSet() error = %v, want ErrInvalidDay", err)
	}
}
