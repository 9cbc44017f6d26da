package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/config"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/explore"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
)

func main() {
	defaultBall := flight.DefaultBall()

	x0 := flag.Float64("x0", -4, "starting launch x in metres")
	y0 := flag.Float64("y0", 0.6, "starting launch height in metres")
	speed := flag.Float64("speed", 11, "starting launch speed in m/s")
	angle := flag.Float64("angle", 38, "starting launch angle in degrees")
	mass := flag.Float64("mass", defaultBall.Mass, "ball mass in kg")
	alpha := flag.Float64("alpha", defaultBall.Alpha, "drag parameter alpha in kg/m")
	gravity := flag.Float64("gravity", defaultBall.Gravity, "gravitational acceleration in m/s²")
	flag.Parse()

	logger := config.NewLogger()
	simCfg := config.LoadSimConfig(logger)

	// The explorer owns the terminal once it starts; keep the simulator
	// quiet so log lines cannot tear the screen.
	simLogger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	sim, err := flight.NewSimulator(flight.Ball{Mass: *mass, Alpha: *alpha, Gravity: *gravity}, simCfg, simLogger)
	if err != nil {
		logger.Error("invalid ball parameters", "error", err)
		os.Exit(1)
	}

	ex, err := explore.New(sim, flight.Launch{X0: *x0, Y0: *y0, Speed: *speed, AngleDeg: *angle})
	if err != nil {
		logger.Error("explorer init failed", "error", err)
		os.Exit(1)
	}

	// Run restores the terminal before returning, so plain stderr is safe
	// again here.
	if err := ex.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "explorer error: %v\n", err)
		os.Exit(1)
	}
}
