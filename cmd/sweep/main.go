package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/config"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/metrics"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/render"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/scoring"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/sweep"
)

func main() {
	defaultBall := flight.DefaultBall()

	x0 := flag.Float64("x0", -4, "base launch x in metres")
	y0 := flag.Float64("y0", 0.6, "base launch height in metres")
	speed := flag.Float64("speed", 11, "base launch speed in m/s")
	angle := flag.Float64("angle", 38, "base launch angle in degrees")
	mass := flag.Float64("mass", defaultBall.Mass, "ball mass in kg")
	alpha := flag.Float64("alpha", defaultBall.Alpha, "drag parameter alpha in kg/m")
	gravity := flag.Float64("gravity", defaultBall.Gravity, "gravitational acceleration in m/s²")
	param := flag.String("param", "angle", "parameter to sweep: x0, y0, speed or angle")
	minV := flag.Float64("min", 20, "first swept value")
	maxV := flag.Float64("max", 80, "last swept value")
	steps := flag.Int("steps", 61, "number of swept values")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel simulation workers")
	jsonOut := flag.Bool("json", false, "emit outcomes and summary as JSON")
	plotPath := flag.String("plot", "", "write a field plot of the best run to this path (.png or .svg)")
	flag.Parse()

	logger := config.NewLogger()
	simCfg := config.LoadSimConfig(logger)

	p, err := sweep.ParseParam(*param)
	if err != nil {
		logger.Error("bad -param flag", "error", err)
		os.Exit(1)
	}

	sim, err := flight.NewSimulator(flight.Ball{Mass: *mass, Alpha: *alpha, Gravity: *gravity}, simCfg, logger)
	if err != nil {
		logger.Error("invalid ball parameters", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := sweep.NewRunner(sim, *workers, logger)
	req := sweep.Request{
		Base: flight.Launch{X0: *x0, Y0: *y0, Speed: *speed, AngleDeg: *angle},
		Axis: sweep.Axis{Param: p, Min: *minV, Max: *maxV, Steps: *steps},
	}

	outcomes, sum, err := runner.Run(ctx, req)
	if err != nil {
		logger.Error("sweep aborted", "error", err)
		os.Exit(1)
	}

	if *jsonOut {
		out := struct {
			Request  sweep.Request   `json:"request"`
			Summary  sweep.Summary   `json:"summary"`
			Outcomes []sweep.Outcome `json:"outcomes"`
		}{req, sum, outcomes}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logger.Error("encode sweep output", "error", err)
			os.Exit(1)
		}
	} else {
		printTable(req, outcomes, sum)
	}

	if *plotPath != "" {
		plotBest(ctx, logger, sim, outcomes, *plotPath)
	}

	metrics.Snapshot(logger)
}

// plotBest re-runs the highest-ranked outcome and renders it. Outcomes only
// carry the apex and port results, not the full sample grid, so the launch
// is simulated once more for the plot.
func plotBest(ctx context.Context, logger *slog.Logger, sim *flight.Simulator, outcomes []sweep.Outcome, path string) {
	best := bestOutcome(outcomes)
	if best == nil {
		logger.Warn("no run reached the target wall, skipping plot", "path", path)
		return
	}

	tr, err := sim.Simulate(ctx, best.Launch)
	if err != nil {
		logger.Error("re-run best shot for plot", "error", err)
		os.Exit(1)
	}
	if err := render.WriteFlight(best.Launch, tr, best.Shot, path); err != nil {
		logger.Error("write plot", "error", err, "path", path)
		os.Exit(1)
	}
	logger.Info("plot written", "path", path, "value", best.Value)
}

// bestOutcome ranks successful runs: an inner score beats an outer score
// beats a plain wall hit, ties broken by distance from the outer port
// center height.
func bestOutcome(outcomes []sweep.Outcome) *sweep.Outcome {
	var best *sweep.Outcome
	bestRank := -1
	bestDist := math.Inf(1)
	for i := range outcomes {
		o := &outcomes[i]
		if o.Err != "" || !o.Shot.Outer.Reached {
			continue
		}
		rank := 0
		if o.Shot.Outer.Scored {
			rank = 1
		}
		if o.Shot.Inner.Scored {
			rank = 2
		}
		dist := math.Abs(o.Shot.Outer.At.Y - scoring.OuterPort.CenterY)
		if rank > bestRank || (rank == bestRank && dist < bestDist) {
			best, bestRank, bestDist = o, rank, dist
		}
	}
	return best
}

func printTable(req sweep.Request, outcomes []sweep.Outcome, sum sweep.Summary) {
	fmt.Printf("%10s  %8s  %8s  %-6s  %-6s\n", req.Axis.Param, "apex y", "wall y", "outer", "inner")
	for _, o := range outcomes {
		if o.Err != "" {
			fmt.Printf("%10.3f  error: %s\n", o.Value, o.Err)
			continue
		}
		wallY := "-"
		if o.Shot.Outer.Reached {
			wallY = fmt.Sprintf("%.3f", o.Shot.Outer.At.Y)
		}
		fmt.Printf("%10.3f  %8.3f  %8s  %-6s  %-6s\n",
			o.Value, o.Apex.Y, wallY, portMark(o.Shot.Outer.Scored, o.Shot.Outer.Reached), portMark(o.Shot.Inner.Scored, o.Shot.Inner.Reached))
	}

	fmt.Printf("\n%d runs, %d failed\n", sum.Runs, sum.Failed)
	if sum.OuterScored > 0 {
		fmt.Printf("outer scored %d times, %s in [%.3f, %.3f]\n", sum.OuterScored, req.Axis.Param, sum.OuterMin, sum.OuterMax)
	} else {
		fmt.Println("outer never scored")
	}
	if sum.InnerScored > 0 {
		fmt.Printf("inner scored %d times, %s in [%.3f, %.3f]\n", sum.InnerScored, req.Axis.Param, sum.InnerMin, sum.InnerMax)
	} else {
		fmt.Println("inner never scored")
	}
}

func portMark(scored, reached bool) string {
	switch {
	case scored:
		return "SCORED"
	case reached:
		return "miss"
	default:
		return "-"
	}
}
