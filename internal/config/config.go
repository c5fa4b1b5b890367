package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the store-wide settings read from the environment.
type Config struct {
	DBPath   string
	Env      string
	Timezone string
	RTDE     RTDEConfig
	Log      LogConfig
}

// RTDEConfig holds restock-session settings.
type RTDEConfig struct {
	SessionWindow time.Duration
	SweepSchedule string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads environment variables (optionally from envFile) into a Config
// and validates it. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		_ = godotenv.Load()
	}

	window, err := time.ParseDuration(getenvWithDefault("RTDE_SESSION_WINDOW", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RTDE_SESSION_WINDOW: %w", err)
	}

	cfg := &Config{
		DBPath:   getenvWithDefault("STOREOPS_DB_PATH", "~/.storeops/storeops.db"),
		Env:      getenvWithDefault("STOREOPS_ENV", EnvProduction),
		Timezone: getenvWithDefault("STORE_TIMEZONE", "America/Los_Angeles"),
		RTDE: RTDEConfig{
			SessionWindow: window,
			SweepSchedule: getenvWithDefault("RTDE_SWEEP_SCHEDULE", "*/15 * * * *"),
		},
		Log: LogConfig{
			Level:  getenvWithDefault("LOG_LEVEL", "info"),
			Format: getenvWithDefault("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the settings are usable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.DBPath == "" {
		return errors.New("STOREOPS_DB_PATH must not be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid STORE_TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.RTDE.SessionWindow <= 0 {
		return errors.New("RTDE_SESSION_WINDOW must be positive")
	}
	if _, err := cron.ParseStandard(c.RTDE.SweepSchedule); err != nil {
		return fmt.Errorf("invalid RTDE_SWEEP_SCHEDULE %q: %w", c.RTDE.SweepSchedule, err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// IsDevelopment reports whether destructive developer commands are allowed.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Location returns the store timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StoreToday returns the calendar date of now in the store timezone, as YYYY-MM-DD.
func (c *Config) StoreToday(now time.Time) string {
	return now.In(c.Location()).Format(time.DateOnly)
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
