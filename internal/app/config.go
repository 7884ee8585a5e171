package app

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/klabast/wb-services/svoz-odpadu/internal/schedule"
)

// Constants
const (
	DefaultDataFile = "waste.json"
	DefaultPort     = 8080

	// Error messages
	ErrInvalidFormat        = "Invalid format"
	ErrInternalServer       = "Internal server error"
	ErrFailedToGenerateJSON = "Failed to generate JSON"
	ErrKeyNotFound          = "No schedule found for this address"
	ErrReloadFailed         = "Failed to reload ruleset"

	// ICS constants
	ICSProductID = "-//Vratimov//Svoz odpadu//CS"
	ICSTimezone  = "Europe/Prague"
	ICSUIDDomain = "svoz-odpadu.vratimov.cz"

	envPrefix = "SVOZ"
)

// Config holds the service settings.
type Config struct {
	Port             int
	DataFile         string
	DatesPerStream   int
	SubscribeDates   int
	ExceptionWeekday string
	RedisAddr        string
	CacheTTL         time.Duration
	AuthFile         string

	// Admin is read from AuthFile by LoadAdminCredentials, never from the
	// config file. Nil leaves the admin routes open.
	Admin *AdminCredentials
}

// Global variables
var (
	Settings = DefaultConfig()

	// Now is the clock used to evaluate queries
	Now = time.Now

	// Embedded files (set by main)
	StaticFiles fs.FS
	IndexHTML   []byte
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Port:             DefaultPort,
		DataFile:         DefaultDataFile,
		DatesPerStream:   3,
		SubscribeDates:   12,
		ExceptionWeekday: schedule.Ctvrtek,
		CacheTTL:         time.Hour,
	}
}

// LoadConfig loads settings with precedence environment > config file > defaults.
// Environment variables use the SVOZ_ prefix, e.g. SVOZ_SERVER_PORT.
func LoadConfig(configPath string) (*Config, error) {
	def := DefaultConfig()
	v := viper.New()

	v.SetDefault("server.port", def.Port)
	v.SetDefault("data.file", def.DataFile)
	v.SetDefault("schedule.dates_per_stream", def.DatesPerStream)
	v.SetDefault("schedule.subscribe_dates", def.SubscribeDates)
	v.SetDefault("schedule.exception_weekday", def.ExceptionWeekday)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", def.CacheTTL.String())
	v.SetDefault("auth.file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             v.GetInt("server.port"),
		DataFile:         v.GetString("data.file"),
		DatesPerStream:   v.GetInt("schedule.dates_per_stream"),
		SubscribeDates:   v.GetInt("schedule.subscribe_dates"),
		ExceptionWeekday: schedule.NormalizeWeekday(v.GetString("schedule.exception_weekday")),
		RedisAddr:        v.GetString("cache.redis_addr"),
		CacheTTL:         v.GetDuration("cache.ttl"),
		AuthFile:         v.GetString("auth.file"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Policy returns the resolver fallbacks derived from the settings.
func (c *Config) Policy() schedule.Policy {
	return schedule.DefaultPolicy().
		WithDatesPerStream(c.DatesPerStream).
		WithExceptionWeekday(c.ExceptionWeekday)
}

func validateConfig(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.DataFile == "" {
		return fmt.Errorf("data.file must be set")
	}
	if cfg.DatesPerStream <= 0 {
		return fmt.Errorf("dates_per_stream must be positive, got %d", cfg.DatesPerStream)
	}
	if cfg.SubscribeDates <= 0 {
		return fmt.Errorf("subscribe_dates must be positive, got %d", cfg.SubscribeDates)
	}
	if _, ok := schedule.WeekdayOffset(cfg.ExceptionWeekday); !ok {
		return fmt.Errorf("exception_weekday must be a weekday name, got %q", cfg.ExceptionWeekday)
	}
	if cfg.RedisAddr != "" && cfg.CacheTTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", cfg.CacheTTL)
	}
	return nil
}

// validateNoSecretsInConfig keeps the admin password hash out of config files.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("auth.hash") || v.InConfig("auth.password") {
		return fmt.Errorf("credentials not allowed in config files (use hash-password to create an auth file)")
	}
	return nil
}
