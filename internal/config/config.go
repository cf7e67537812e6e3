package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/planner"
	"github.com/username/shift-planner/internal/shift"
)

// EnvPrefix prefixes environment overrides, e.g. SHIFT_PLANNER_SHIFT_OFFSET
const EnvPrefix = "SHIFT_PLANNER"

// DefaultOffset is the group used when nothing else names one
const DefaultOffset = 2

// ErrEpochPhase is returned when two roster anchors are not a whole number
// of rotations apart
var ErrEpochPhase = errors.New("roster epochs disagree")

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Shift    ShiftConfig    `mapstructure:"shift"`
	Hours    HoursConfig    `mapstructure:"hours"`
	State    StateConfig    `mapstructure:"state"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents holiday provider configuration
type CalendarConfig struct {
	Type         string `mapstructure:"type" validate:"oneof=nager static"` // "nager" falls back to the static table
	APIURL       string `mapstructure:"api_url" validate:"omitempty,url"`
	Country      string `mapstructure:"country" validate:"required,len=2"`
	CacheTTL     string `mapstructure:"cache_ttl"`
	Timeout      string `mapstructure:"timeout"`
	FallbackFile string `mapstructure:"fallback_file"`
}

// ShiftConfig represents the roster configuration
type ShiftConfig struct {
	Offset          int            `mapstructure:"offset" validate:"gte=0,lte=4"` // 0 = not set
	NormalizeOffset bool           `mapstructure:"normalize_offset"`
	Users           map[string]int `mapstructure:"users" validate:"dive,gte=1,lte=4"`
	CalendarEpoch   string         `mapstructure:"calendar_epoch" validate:"required"`
	FinderEpoch     string         `mapstructure:"finder_epoch" validate:"required"`
	PlannerEpoch    string         `mapstructure:"planner_epoch" validate:"required"`
}

// HoursConfig represents the hour credits
type HoursConfig struct {
	WorkedShift  int `mapstructure:"worked_shift" validate:"gt=0"`
	Leave        int `mapstructure:"leave" validate:"gte=0"`
	WorkdayLeave int `mapstructure:"workday_leave" validate:"oneof=4 8"`
	TargetDay    int `mapstructure:"target_day" validate:"gt=0"`
}

// StateConfig represents state storage configuration
type StateConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.type", "nager")
	v.SetDefault("calendar.api_url", calendar.DefaultNagerURL)
	v.SetDefault("calendar.country", calendar.DefaultCountryCode)
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("calendar.timeout", "10s")
	v.SetDefault("calendar.fallback_file", "")

	v.SetDefault("shift.offset", 0)
	v.SetDefault("shift.normalize_offset", true)
	v.SetDefault("shift.users", map[string]int{})
	v.SetDefault("shift.calendar_epoch", shift.CalendarEpoch.String())
	v.SetDefault("shift.finder_epoch", shift.FinderEpoch.String())
	v.SetDefault("shift.planner_epoch", shift.PlannerEpoch.String())

	p := planner.DefaultPolicy()
	v.SetDefault("hours.worked_shift", p.WorkedShiftHours)
	v.SetDefault("hours.leave", p.LeaveHours)
	v.SetDefault("hours.workday_leave", p.WorkdayLeaveHours)
	v.SetDefault("hours.target_day", p.TargetDayHours)

	v.SetDefault("state.file", "shift-planner-state.json")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. Without an explicit path a missing
// config file is not an error and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.shift-planner")
		v.AddConfigPath("/etc/shift-planner")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

var validate = validator.New()

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := c.Shift.Epochs(); err != nil {
		return err
	}
	durations := map[string]string{
		"calendar.cache_ttl": c.Calendar.CacheTTL,
		"calendar.timeout":   c.Calendar.Timeout,
	}
	for key, value := range durations {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetTimeout returns the HTTP timeout of the holiday API
func (c *CalendarConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// Epochs parses the roster anchors into cycles
func (c *ShiftConfig) Epochs() (planner.Cycles, error) {
	parse := func(key, value string) (shift.Cycle, error) {
		d, err := civil.ParseDate(value)
		if err != nil {
			return shift.Cycle{}, fmt.Errorf("shift.%s: %w", key, err)
		}
		return shift.NewCycle(d), nil
	}

	var cycles planner.Cycles
	var err error
	if cycles.Calendar, err = parse("calendar_epoch", c.CalendarEpoch); err != nil {
		return planner.Cycles{}, err
	}
	if cycles.Finder, err = parse("finder_epoch", c.FinderEpoch); err != nil {
		return planner.Cycles{}, err
	}
	if cycles.Planner, err = parse("planner_epoch", c.PlannerEpoch); err != nil {
		return planner.Cycles{}, err
	}

	// every feature must show the same roster for a group
	anchors := map[string]shift.Cycle{"finder_epoch": cycles.Finder, "planner_epoch": cycles.Planner}
	for key, cycle := range anchors {
		if cycles.Calendar.Epoch.DaysSince(cycle.Epoch)%shift.CycleLength != 0 {
			return planner.Cycles{}, fmt.Errorf("%w: shift.%s %s is out of phase with calendar_epoch %s",
				ErrEpochPhase, key, cycle.Epoch, cycles.Calendar.Epoch)
		}
	}
	return cycles, nil
}

// ResolveOffset picks the shift group: an explicit offset first, then the
// user's mapped group, then the configured offset, then DefaultOffset.
// The result is normalized when NormalizeOffset is set.
func (c *ShiftConfig) ResolveOffset(offset int, user string) (shift.Offset, error) {
	var o shift.Offset
	switch {
	case offset != 0:
		o = shift.Offset(offset)
	case user != "":
		mapped, ok := c.Users[strings.ToLower(user)]
		if !ok {
			return 0, fmt.Errorf("unknown user %q", user)
		}
		o = shift.Offset(mapped)
	case c.Offset != 0:
		o = shift.Offset(c.Offset)
	default:
		o = DefaultOffset
	}

	if err := o.Validate(); err != nil {
		return 0, err
	}
	if c.NormalizeOffset {
		o = o.Normalize()
	}
	return o, nil
}

// Policy returns the hour credits
func (c *HoursConfig) Policy() planner.Policy {
	return planner.Policy{
		WorkedShiftHours:  c.WorkedShift,
		LeaveHours:        c.Leave,
		WorkdayLeaveHours: c.WorkdayLeave,
		TargetDayHours:    c.TargetDay,
	}
}

// ExpandEnvVars expands environment variables in config paths
func (c *Config) ExpandEnvVars() {
	c.Calendar.FallbackFile = os.ExpandEnv(c.Calendar.FallbackFile)
	c.State.File = os.ExpandEnv(c.State.File)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
