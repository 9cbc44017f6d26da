package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/config"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/metrics"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/render"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/scoring"
)

// report is the machine-readable shape of one run, emitted with -json.
type report struct {
	Launch flight.Launch      `json:"launch"`
	Ball   flight.Ball        `json:"ball"`
	Apex   flight.Sample      `json:"apex"`
	Shot   scoring.ShotResult `json:"shot"`
	Strike *flight.Sample     `json:"ground_strike,omitempty"`
	Steps  int                `json:"steps"`
}

func main() {
	defaultBall := flight.DefaultBall()

	x0 := flag.Float64("x0", -4, "launch x, metres from the port wall (negative is downfield)")
	y0 := flag.Float64("y0", 0.6, "launch height in metres")
	speed := flag.Float64("speed", 11, "launch speed in m/s")
	angle := flag.Float64("angle", 38, "launch angle above horizontal in degrees")
	mass := flag.Float64("mass", defaultBall.Mass, "ball mass in kg")
	alpha := flag.Float64("alpha", defaultBall.Alpha, "drag parameter alpha in kg/m")
	gravity := flag.Float64("gravity", defaultBall.Gravity, "gravitational acceleration in m/s²")
	jsonOut := flag.Bool("json", false, "emit the report as JSON instead of text")
	plotPath := flag.String("plot", "", "save a field plot to this path (.png, .svg or .pdf)")
	csvPath := flag.String("csv", "", "dump the sampled flight to this CSV path")
	flag.Parse()

	logger := config.NewLogger()
	simCfg := config.LoadSimConfig(logger)

	ball := flight.Ball{Mass: *mass, Alpha: *alpha, Gravity: *gravity}
	sim, err := flight.NewSimulator(ball, simCfg, logger)
	if err != nil {
		logger.Error("invalid ball parameters", "error", err)
		os.Exit(1)
	}

	launch := flight.Launch{X0: *x0, Y0: *y0, Speed: *speed, AngleDeg: *angle}
	tr, err := sim.Simulate(context.Background(), launch)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	shot := scoring.Score(tr)
	metrics.RecordShot(shot.Outer.Scored, shot.Inner.Scored)

	if *csvPath != "" {
		if err := writeCSV(*csvPath, tr); err != nil {
			logger.Error("CSV dump failed", "path", *csvPath, "error", err)
			os.Exit(1)
		}
		logger.Info("flight samples written", "path", *csvPath, "samples", len(tr.Samples))
	}

	if *plotPath != "" {
		if err := render.WriteFlight(launch, tr, shot, *plotPath); err != nil {
			logger.Error("plot failed", "path", *plotPath, "error", err)
			os.Exit(1)
		}
		logger.Info("field plot written", "path", *plotPath)
	}

	rep := report{
		Launch: launch,
		Ball:   ball,
		Apex:   tr.Apex(),
		Shot:   shot,
		Steps:  tr.Steps,
	}
	if strike, ok := tr.GroundStrike(); ok {
		rep.Strike = &strike
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			logger.Error("encode report", "error", err)
			os.Exit(1)
		}
		return
	}
	printReport(rep)
}

func printReport(rep report) {
	fmt.Printf("launch      (%.2f, %.2f) m, %.2f m/s at %.1f deg\n",
		rep.Launch.X0, rep.Launch.Y0, rep.Launch.Speed, rep.Launch.AngleDeg)
	fmt.Printf("ball        mass %.4f kg, alpha %.6f kg/m\n", rep.Ball.Mass, rep.Ball.Alpha)
	fmt.Printf("apex        y=%.3f m at x=%.3f m (t=%.3f s)\n", rep.Apex.Y, rep.Apex.X, rep.Apex.T)
	printPort(rep.Shot.Outer)
	printPort(rep.Shot.Inner)
	if rep.Strike != nil {
		fmt.Printf("carpet      x=%.3f m at t=%.3f s\n", rep.Strike.X, rep.Strike.T)
	} else {
		fmt.Printf("carpet      airborne for the whole window\n")
	}
	fmt.Printf("integrator  %d accepted steps, %d samples\n", rep.Steps, flight.SampleCount)
}

func printPort(res scoring.PortResult) {
	name := res.Port.Name + " port"
	switch {
	case res.Scored:
		fmt.Printf("%-11s SCORED y=%.3f m at t=%.3f s\n", name, res.At.Y, res.At.T)
	case res.Reached:
		fmt.Printf("%-11s miss, crossed the plane at y=%.3f m (t=%.3f s)\n", name, res.At.Y, res.At.T)
	default:
		fmt.Printf("%-11s never reached\n", name)
	}
}

func writeCSV(path string, tr *flight.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Write([]string{"t (s)", "x (m)", "y (m)", "vx (m/s)", "vy (m/s)"})
	for _, s := range tr.Samples {
		err := w.Write([]string{
			fmt.Sprintf("%.6f", s.T),
			fmt.Sprintf("%.6f", s.X),
			fmt.Sprintf("%.6f", s.Y),
			fmt.Sprintf("%.6f", s.VX),
			fmt.Sprintf("%.6f", s.VY),
		})
		if err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
