package flight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/metrics"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/solver"
)

// Simulator runs ball flights for a fixed ball under fixed integrator
// settings. It holds no per-run state and is safe for concurrent use.
type Simulator struct {
	ball   Ball
	config SimConfig
	logger *slog.Logger
}

// NewSimulator validates the ball once and returns a simulator. Zero
// config fields fall back to DefaultSimConfig values.
func NewSimulator(ball Ball, config SimConfig, logger *slog.Logger) (*Simulator, error) {
	if err := ball.Validate(); err != nil {
		return nil, err
	}
	def := DefaultSimConfig()
	if config.RTol <= 0 {
		config.RTol = def.RTol
	}
	if config.ATol <= 0 {
		config.ATol = def.ATol
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = def.MaxSteps
	}
	return &Simulator{ball: ball, config: config, logger: logger}, nil
}

// Ball returns the simulated ball parameters.
func (s *Simulator) Ball() Ball { return s.ball }

// Simulate integrates one launch across the full window and resamples the
// flight onto the uniform output grid. The first sample is the initial
// state exactly as given; the flight is never truncated at the carpet.
func (s *Simulator) Simulate(ctx context.Context, launch Launch) (*Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := launch.Validate(); err != nil {
		metrics.RecordSimulation(0, 0, metrics.OutcomeInvalidInput)
		return nil, err
	}

	start := time.Now()
	init := launch.InitialState()

	f := func(_ float64, y solver.Vec) solver.Vec {
		d := s.ball.Rates(State{X: y[0], Y: y[1], VX: y[2], VY: y[3]})
		return solver.Vec{d.X, d.Y, d.VX, d.VY}
	}

	cfg := solver.DefaultConfig()
	cfg.RTol = s.config.RTol
	cfg.ATol = s.config.ATol
	cfg.MaxSteps = s.config.MaxSteps

	sol, err := solver.Integrate(f, 0, Horizon, solver.Vec{init.X, init.Y, init.VX, init.VY}, cfg)
	if err != nil {
		metrics.RecordSimulation(time.Since(start), 0, metrics.OutcomeDivergence)
		s.logger.Warn("simulation diverged",
			"x0", launch.X0,
			"y0", launch.Y0,
			"speed", launch.Speed,
			"angle_deg", launch.AngleDeg,
			"error", err,
		)
		return nil, fmt.Errorf("integrate launch: %w", err)
	}

	samples := make([]Sample, SampleCount)
	samples[0] = Sample{T: 0, State: init}
	for i := 1; i < SampleCount; i++ {
		t := Horizon * float64(i) / float64(SampleCount-1)
		y := sol.At(t)
		samples[i] = Sample{T: t, State: State{X: y[0], Y: y[1], VX: y[2], VY: y[3]}}
	}

	duration := time.Since(start)
	metrics.RecordSimulation(duration, sol.Steps(), metrics.OutcomeOK)
	s.logger.Debug("simulation complete",
		"steps", sol.Steps(),
		"evals", sol.Evals(),
		"duration_us", duration.Microseconds(),
	)

	return &Trajectory{Samples: samples, Steps: sol.Steps()}, nil
}
