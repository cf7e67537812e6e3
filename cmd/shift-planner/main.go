package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/shift-planner/internal/calendar"
	"github.com/username/shift-planner/internal/config"
	"github.com/username/shift-planner/internal/leavestore"
	"github.com/username/shift-planner/internal/planner"
	"github.com/username/shift-planner/internal/shift"
)

var (
	configPath string
	offsetFlag int
	userFlag   string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shift-planner",
		Short: "Rotating shift roster and leave planner",
		Long:  "Plan leave days on a four-group 12h rotating roster against the Romanian public holiday calendar",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				initLogger("info")
				return fmt.Errorf("failed to load config: %w", err)
			}

			if cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().IntVarP(&offsetFlag, "offset", "t", 0, "Shift group (tura) 1..4")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User name mapped to a shift group")

	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(optimizeCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(nearestCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is everything a command needs
type app struct {
	resolver *calendar.Resolver
	store    *leavestore.Store
	manager  *planner.Manager
}

func initializeApp(cfg *config.Config) (*app, error) {
	var cal calendar.Calendar

	static := calendar.NewStaticCalendar(calendar.RomanianHolidays, cfg.Calendar.FallbackFile, logger)

	switch cfg.Calendar.Type {
	case "static":
		logger.Debug("Using static holiday table")
		if err := static.Load(); err != nil {
			logger.Warn("Failed to load holiday file, using built-in table only", zap.Error(err))
		}
		cal = static

	case "nager":
		logger.Debug("Using Nager.Date API", zap.String("url", cfg.Calendar.APIURL))
		primary := calendar.NewNagerCalendar(
			cfg.Calendar.APIURL,
			cfg.Calendar.Country,
			cfg.Calendar.GetTimeout(),
			cfg.Calendar.GetCacheTTL(),
			logger,
		)
		compositeCal := calendar.NewCompositeCalendar(primary, static, logger)

		if err := compositeCal.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback calendar, continuing with built-in table",
				zap.Error(err))
		}

		cal = compositeCal

	default:
		return nil, fmt.Errorf("unknown calendar type: %s", cfg.Calendar.Type)
	}

	store := leavestore.NewStore(cfg.State.File, logger)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load leave days: %w", err)
	}

	offset, err := resolveIdentity(cfg, store)
	if err != nil {
		return nil, err
	}

	cycles, err := cfg.Shift.Epochs()
	if err != nil {
		return nil, err
	}

	resolver := calendar.NewResolver(cal, logger)
	manager, err := planner.NewManager(resolver, cycles, offset, cfg.Hours.Policy(), store, logger)
	if err != nil {
		return nil, err
	}

	return &app{resolver: resolver, store: store, manager: manager}, nil
}

// resolveIdentity picks the shift group: flags first, then what the store
// remembers, then the config. Flags given on the command line are remembered.
func resolveIdentity(cfg *config.Config, store *leavestore.Store) (shift.Offset, error) {
	offset, user := offsetFlag, userFlag
	if offset == 0 && user == "" {
		offset, user = int(store.Offset()), store.User()
	}

	resolved, err := cfg.Shift.ResolveOffset(offset, user)
	if err != nil {
		return 0, err
	}

	if offsetFlag != 0 || userFlag != "" {
		raw := offsetFlag
		if raw == 0 {
			raw = cfg.Shift.Users[strings.ToLower(userFlag)]
		}
		if err := store.SetIdentity(userFlag, shift.Offset(raw)); err != nil {
			logger.Warn("Failed to remember shift group", zap.Error(err))
		}
	}

	logger.Debug("Shift group resolved",
		zap.Int("offset", int(resolved)),
		zap.String("user", user))

	return resolved, nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// keep stdout for the command output
	config.OutputPaths = []string{"stderr"}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core)
}
