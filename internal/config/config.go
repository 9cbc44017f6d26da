// Package config loads the environment configuration shared by the
// trajsim binaries: the log level and the TRAJSIM_* integrator
// overrides. Per-run parameters stay on each binary's flags.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
)

// NewLogger builds the JSON logger every binary starts with. The level
// comes from TRAJSIM_LOG_LEVEL (debug, info, warn or error); anything
// else means info.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: LogLevel()}))
}

// LogLevel resolves TRAJSIM_LOG_LEVEL to a slog level.
func LogLevel() slog.Level {
	switch strings.ToLower(os.Getenv("TRAJSIM_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LoadSimConfig reads the TRAJSIM_RTOL, TRAJSIM_ATOL and
// TRAJSIM_MAX_STEPS overrides on top of the defaults. Invalid values
// are logged and skipped, never applied half-parsed.
func LoadSimConfig(logger *slog.Logger) flight.SimConfig {
	cfg := flight.DefaultSimConfig()

	if v := os.Getenv("TRAJSIM_RTOL"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			logger.Warn("invalid TRAJSIM_RTOL value, using default", "value", v, "default", cfg.RTol)
		} else {
			cfg.RTol = f
		}
	}

	if v := os.Getenv("TRAJSIM_ATOL"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			logger.Warn("invalid TRAJSIM_ATOL value, using default", "value", v, "default", cfg.ATol)
		} else {
			cfg.ATol = f
		}
	}

	if v := os.Getenv("TRAJSIM_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid TRAJSIM_MAX_STEPS value, using default", "value", v, "default", cfg.MaxSteps)
		} else {
			cfg.MaxSteps = n
		}
	}

	logger.Info("integrator config",
		"rtol", cfg.RTol,
		"atol", cfg.ATol,
		"max_steps", cfg.MaxSteps,
	)

	return cfg
}
