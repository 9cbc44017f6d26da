package config

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("TRAJSIM_LOG_LEVEL", tt.value)
			if got := LogLevel(); got != tt.want {
				t.Errorf("LogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	t.Setenv("TRAJSIM_LOG_LEVEL", "warn")
	logger := NewLogger()
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled under TRAJSIM_LOG_LEVEL=warn")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn disabled under TRAJSIM_LOG_LEVEL=warn")
	}
}

func TestLoadSimConfigDefaults(t *testing.T) {
	t.Setenv("TRAJSIM_RTOL", "")
	t.Setenv("TRAJSIM_ATOL", "")
	t.Setenv("TRAJSIM_MAX_STEPS", "")

	var buf bytes.Buffer
	cfg := LoadSimConfig(slog.New(slog.NewJSONHandler(&buf, nil)))
	if cfg != flight.DefaultSimConfig() {
		t.Errorf("LoadSimConfig with no env = %+v, want defaults %+v", cfg, flight.DefaultSimConfig())
	}
}

func TestLoadSimConfigOverrides(t *testing.T) {
	t.Setenv("TRAJSIM_RTOL", "1e-8")
	t.Setenv("TRAJSIM_ATOL", "1e-11")
	t.Setenv("TRAJSIM_MAX_STEPS", "500")

	var buf bytes.Buffer
	cfg := LoadSimConfig(slog.New(slog.NewJSONHandler(&buf, nil)))
	if cfg.RTol != 1e-8 {
		t.Errorf("RTol = %v, want 1e-8", cfg.RTol)
	}
	if cfg.ATol != 1e-11 {
		t.Errorf("ATol = %v, want 1e-11", cfg.ATol)
	}
	if cfg.MaxSteps != 500 {
		t.Errorf("MaxSteps = %d, want 500", cfg.MaxSteps)
	}
}

// Bad values warn and fall back, one variable at a time: a broken RTOL
// must not block a good MAX_STEPS.
func TestLoadSimConfigInvalidValues(t *testing.T) {
	t.Setenv("TRAJSIM_RTOL", "not-a-number")
	t.Setenv("TRAJSIM_ATOL", "-1e-9")
	t.Setenv("TRAJSIM_MAX_STEPS", "250")

	var buf bytes.Buffer
	cfg := LoadSimConfig(slog.New(slog.NewJSONHandler(&buf, nil)))

	def := flight.DefaultSimConfig()
	if cfg.RTol != def.RTol {
		t.Errorf("RTol = %v, want default %v on a bad value", cfg.RTol, def.RTol)
	}
	if cfg.ATol != def.ATol {
		t.Errorf("ATol = %v, want default %v on a negative value", cfg.ATol, def.ATol)
	}
	if cfg.MaxSteps != 250 {
		t.Errorf("MaxSteps = %d, want 250", cfg.MaxSteps)
	}

	out := buf.String()
	if !strings.Contains(out, "TRAJSIM_RTOL") || !strings.Contains(out, "TRAJSIM_ATOL") {
		t.Errorf("expected warnings for both bad variables, got: %s", out)
	}
}
