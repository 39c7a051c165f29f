// Package config reads service and CLI settings from the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Environment variable names.
const (
	EnvListenAddr          = "VSME_LISTEN_ADDR"
	EnvLogLevel            = "VSME_LOG_LEVEL"
	EnvLogFormat           = "VSME_LOG_FORMAT"
	EnvFactorsFile         = "VSME_FACTORS_FILE"
	EnvVehicleFactorsFile  = "VSME_VEHICLE_FACTORS_FILE"
	EnvShutdownTimeout     = "VSME_SHUTDOWN_TIMEOUT"
	defaultListenAddr      = ":8080"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
)

// Log output formats.
const (
	LogFormatAuto    = "auto"
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config holds runtime settings. FactorsFile and VehicleFactorsFile are
// optional overrides of the embedded reference datasets.
type Config struct {
	ListenAddr         string
	LogLevel           string
	LogFormat          string
	FactorsFile        string
	VehicleFactorsFile string
	ShutdownTimeout    time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ListenAddr:      defaultListenAddr,
		LogLevel:        defaultLogLevel,
		LogFormat:       LogFormatAuto,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// Load overlays environment variables on Default. Invalid values are logged
// and replaced by their defaults.
func Load(lookupEnv func(string) (string, bool), logger zerolog.Logger) Config {
	cfg := Default()

	if v, ok := lookupEnv(EnvListenAddr); ok && strings.TrimSpace(v) != "" {
		cfg.ListenAddr = strings.TrimSpace(v)
	}

	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(v)); err != nil {
			logger.Warn().Str("value", v).Msg("invalid " + EnvLogLevel + ", using default")
		} else {
			cfg.LogLevel = strings.ToLower(v)
		}
	}

	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		switch f := strings.ToLower(v); f {
		case LogFormatAuto, LogFormatJSON, LogFormatConsole:
			cfg.LogFormat = f
		default:
			logger.Warn().Str("value", v).Msg("invalid " + EnvLogFormat + ", using default")
		}
	}

	if v, ok := lookupEnv(EnvFactorsFile); ok {
		cfg.FactorsFile = strings.TrimSpace(v)
	}
	if v, ok := lookupEnv(EnvVehicleFactorsFile); ok {
		cfg.VehicleFactorsFile = strings.TrimSpace(v)
	}

	if v, ok := lookupEnv(EnvShutdownTimeout); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ShutdownTimeout = d
		} else {
			logger.Warn().Str("value", v).Msg("invalid " + EnvShutdownTimeout + ", using default")
		}
	}

	logger.Debug().
		Str("listen_addr", cfg.ListenAddr).
		Str("log_level", cfg.LogLevel).
		Str("log_format", cfg.LogFormat).
		Str("factors_file", cfg.FactorsFile).
		Str("vehicle_factors_file", cfg.VehicleFactorsFile).
		Dur("shutdown_timeout", cfg.ShutdownTimeout).
		Msg("configuration loaded")

	return cfg
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// NewLogger builds the logger described by c, writing to w. The auto format
// picks the console writer when w is a terminal and JSON otherwise.
func (c Config) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	format := c.LogFormat
	if format == LogFormatAuto || format == "" {
		format = LogFormatJSON
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = LogFormatConsole
		}
	}

	out := w
	if format == LogFormatConsole {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
