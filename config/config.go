package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Policy    PolicyConfig
	Holidays  HolidayConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// DatabaseConfig selects the store. Driver is "sqlite" or "memory".
type DatabaseConfig struct {
	Driver string
	Path   string
}

// PolicyConfig points at an optional JSON policy document. BlackoutYears
// are added to whatever the document declares.
type PolicyConfig struct {
	File          string
	BlackoutYears []int
}

type HolidayConfig struct {
	SeedDefaults bool
	Preset       string
}

// SchedulerConfig drives the background holiday seeding and alert sweep.
type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Database = DatabaseConfig{
		Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		Path:   getEnv("DB_PATH", "./leave.db"),
	}

	blackout, err := getEnvInts("LEAVE_BLACKOUT_YEARS")
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_BLACKOUT_YEARS: %w", err)
	}
	config.Policy = PolicyConfig{
		File:          getEnv("LEAVE_POLICY_FILE", ""),
		BlackoutYears: blackout,
	}

	seed, err := strconv.ParseBool(getEnv("SEED_DEFAULT_HOLIDAYS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEFAULT_HOLIDAYS: %w", err)
	}
	config.Holidays = HolidayConfig{
		SeedDefaults: seed,
		Preset:       getEnv("HOLIDAY_PRESET", "ma"),
	}

	schedEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}
	schedInterval, err := time.ParseDuration(getEnv("SCHEDULER_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL: %w", err)
	}
	config.Scheduler = SchedulerConfig{
		Enabled:  schedEnabled,
		Interval: schedInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT %d out of range", c.App.Port)
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case "memory":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or memory, got %q", c.Database.Driver)
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.App.LogLevel)
	}
	return level, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvInts(key string) ([]int, error) {
	var result []int
	for _, part := range getEnvSlice(key, nil) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}
