// Package leavestore persists the user's leave days and selections in a JSON file.
package leavestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/username/shift-planner/internal/shift"
	"github.com/username/shift-planner/pkg/dateutil"
)

// ErrInvalidKey is returned for leave keys not shaped like "2024-5-17"
var ErrInvalidKey = errors.New("invalid leave key")

// State is the on-disk layout of the store
type State struct {
	Offset        int      `json:"offset"`
	User          string   `json:"user,omitempty"`
	SelectedYear  int      `json:"selected_year"`
	SelectedMonth int      `json:"selected_month"` // 1-based
	LeaveDays     []string `json:"leave_days"`     // "{year}-{month}-{day}", month 1-based
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// Store keeps leave days in insertion order and indexes them by date
type Store struct {
	stateFile string
	state     *State
	index     map[civil.Date]struct{}
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewStore creates a store backed by stateFile
func NewStore(stateFile string, logger *zap.Logger) *Store {
	return &Store{
		stateFile: stateFile,
		state:     &State{LeaveDays: []string{}},
		index:     make(map[civil.Date]struct{}),
		logger:    logger,
	}
}

// Key renders d as a leave key
func Key(d civil.Date) string {
	return fmt.Sprintf("%d-%d-%d", d.Year, int(d.Month), d.Day)
}

// ParseKey parses a leave key back into a date
func ParseKey(key string) (civil.Date, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		nums[i] = n
	}

	d := civil.Date{Year: nums[0], Month: time.Month(nums[1]), Day: nums[2]}
	if !d.IsValid() || d.Year < 1 {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return d, nil
}

// Load loads the state from file. A missing file yields an empty store.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			// created on first save
			s.state = &State{LeaveDays: []string{}}
			s.index = make(map[civil.Date]struct{})
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	index := make(map[civil.Date]struct{}, len(state.LeaveDays))
	for _, key := range state.LeaveDays {
		d, err := ParseKey(key)
		if err != nil {
			return fmt.Errorf("failed to load leave days: %w", err)
		}
		index[d] = struct{}{}
	}
	if state.LeaveDays == nil {
		state.LeaveDays = []string{}
	}

	s.state = &state
	s.index = index
	s.logger.Info("Leave state loaded",
		zap.String("file", s.stateFile),
		zap.Int("leave_days", len(state.LeaveDays)))

	return nil
}

// Save writes the state to file
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	s.state.UpdatedAt = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	s.logger.Debug("Leave state saved",
		zap.String("file", s.stateFile),
		zap.Int("leave_days", len(s.state.LeaveDays)))

	return nil
}

// Toggle adds d as a leave day, or removes it if already present, and saves.
// It reports whether d is a leave day afterwards.
func (s *Store) Toggle(d civil.Date) (bool, error) {
	if !d.IsValid() {
		return false, fmt.Errorf("%w: %v", ErrInvalidKey, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(d)
	_, present := s.index[d]
	if present {
		delete(s.index, d)
		for i, k := range s.state.LeaveDays {
			if k == key {
				s.state.LeaveDays = append(s.state.LeaveDays[:i], s.state.LeaveDays[i+1:]...)
				break
			}
		}
	} else {
		s.index[d] = struct{}{}
		s.state.LeaveDays = append(s.state.LeaveDays, key)
	}

	s.logger.Info("Leave day toggled",
		zap.String("date", d.String()),
		zap.Bool("leave", !present))

	return !present, s.saveLocked()
}

// Contains reports whether d is a leave day
func (s *Store) Contains(d civil.Date) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[d]
	return ok
}

// CountMonth returns the number of leave days in (year, month)
func (s *Store) CountMonth(year int, month time.Month) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for d := range s.index {
		if d.Year == year && d.Month == month {
			n++
		}
	}
	return n
}

// Total returns the number of leave days across all months
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

// LeaveDays returns the leave days in insertion order
func (s *Store) LeaveDays() []civil.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make([]civil.Date, 0, len(s.state.LeaveDays))
	for _, key := range s.state.LeaveDays {
		if d, err := ParseKey(key); err == nil {
			days = append(days, d)
		}
	}
	return days
}

// NextMonthWithLeave walks forward from the month after (year, month) and
// returns the first month holding a leave day. Past December of thisYear+2
// the walk wraps to January of thisYear-1. ok is false when the walk gets
// back to (year, month) without finding one.
func (s *Store) NextMonthWithLeave(year int, month time.Month, thisYear int) (int, time.Month, bool) {
	if s.Total() == 0 {
		return year, month, false
	}

	span := year - thisYear
	if span < 0 {
		span = -span
	}
	maxSteps := 12 * (span + 4)

	y, m := year, month
	for i := 0; i < maxSteps; i++ {
		y, m = dateutil.AddMonths(y, m, 1)
		if y > thisYear+2 {
			y, m = thisYear-1, time.January
		}
		if y == year && m == month {
			return year, month, false
		}
		if s.CountMonth(y, m) > 0 {
			return y, m, true
		}
	}
	return year, month, false
}

// Offset returns the stored shift group, 0 when unset
func (s *Store) Offset() shift.Offset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return shift.Offset(s.state.Offset)
}

// User returns the stored user name
func (s *Store) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// SetIdentity records the user and shift group and saves
func (s *Store) SetIdentity(user string, o shift.Offset) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = user
	s.state.Offset = int(o)
	return s.saveLocked()
}

// Selection returns the last viewed month, zero values when unset
func (s *Store) Selection() (int, time.Month) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedYear, time.Month(s.state.SelectedMonth)
}

// SetSelection records the last viewed month and saves
func (s *Store) SetSelection(year int, month time.Month) error {
	if year < 1 || month < time.January || month > time.December {
		return fmt.Errorf("invalid selection %d-%d", year, int(month))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedYear = year
	s.state.SelectedMonth = int(month)
	return s.saveLocked()
}
