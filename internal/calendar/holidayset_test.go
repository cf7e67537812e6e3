package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestNewHolidaySet(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		days    []int
		wantErr error
	}{
		{"valid", 2024, time.February, []int{1, 29}, nil},
		{"non leap february", 2023, time.February, []int{29}, ErrInvalidDay},
		{"day zero", 2024, time.March, []int{0}, ErrInvalidDay},
		{"day 32", 2024, time.March, []int{32}, ErrInvalidDay},
		{"month 0", 2024, 0, nil, ErrInvalidMonth},
		{"month 13", 2024, 13, nil, ErrInvalidMonth},
		{"negative year", -1, time.March, nil, ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHolidaySet(tt.year, tt.month, tt.days...)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("NewHolidaySet() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("NewHolidaySet() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHolidaySet_Union(t *testing.T) {
	a, _ := NewHolidaySet(2024, time.May, 1, 6)
	b, _ := NewHolidaySet(2024, time.May, 6, 25)

	if err := a.Union(b); err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	if a.Len() != 3 || !a.Contains(25) {
		t.Errorf("Union() = %v, want [1 6 25]", a.Days())
	}

	other, _ := NewHolidaySet(2024, time.June, 1)
	if err := a.Union(other); err == nil {
		t.Error("Union() across months expected error")
	}
}

func TestWeekendSet(t *testing.T) {
	// September 2024 starts on a Sunday
	set, err := WeekendSet(2024, time.September)
	if err != nil {
		t.Fatalf("WeekendSet() error = %v", err)
	}
	if set.Len() != 9 {
		t.Errorf("Len() = %d, want 9", set.Len())
	}
	if !set.Contains(1) || !set.Contains(29) || set.Contains(2) {
		t.Errorf("WeekendSet() = %v", set.Days())
	}
}
