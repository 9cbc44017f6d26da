// Diag exercises the simulator end to end without touching a terminal or
// writing files: closed-form vacuum flight, grid contract, drag behavior
// and port scoring, each against known numbers.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/scoring"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	failures := 0
	check := func(name string, err error) {
		if err != nil {
			fmt.Printf("FAIL %-22s %v\n", name, err)
			failures++
			return
		}
		fmt.Printf("ok   %s\n", name)
	}

	check("vacuum closed form", checkVacuum(logger))
	check("sample grid", checkGrid(logger))
	check("drag decays vx", checkDrag(logger))
	check("alpha doubling", checkAlphaDoubling(logger))
	check("port scoring", checkScoring(logger))
	check("divergence guard", checkDivergence(logger))

	if failures > 0 {
		fmt.Printf("\n%d of 6 checks failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nall checks passed")
}

func simulate(logger *slog.Logger, ball flight.Ball, launch flight.Launch) (*flight.Trajectory, error) {
	sim, err := flight.NewSimulator(ball, flight.DefaultSimConfig(), logger)
	if err != nil {
		return nil, err
	}
	return sim.Simulate(context.Background(), launch)
}

// With alpha zero the flight is a textbook parabola. Compared at the
// sample times themselves: At() interpolates linearly between samples
// and carries a ~5e-6 floor in y at off-grid times, which would swamp
// this tolerance.
func checkVacuum(logger *slog.Logger) error {
	launch := flight.Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: 45}
	tr, err := simulate(logger, flight.Ball{Mass: flight.BallMass, Alpha: 0}, launch)
	if err != nil {
		return err
	}

	init := launch.InitialState()
	for _, s := range tr.Samples {
		wantX := launch.X0 + init.VX*s.T
		wantY := launch.Y0 + init.VY*s.T - 0.5*flight.Gravity*s.T*s.T
		if math.Abs(s.X-wantX) > 1e-9 || math.Abs(s.Y-wantY) > 1e-9 {
			return fmt.Errorf("sample at t=%.4f off the parabola: (%.9f, %.9f), want (%.9f, %.9f)",
				s.T, s.X, s.Y, wantX, wantY)
		}
	}
	fmt.Printf("     %d samples on the parabola within 1e-9\n", len(tr.Samples))
	return nil
}

func checkGrid(logger *slog.Logger) error {
	launch := flight.Launch{X0: -4, Y0: 0.6, Speed: 11, AngleDeg: 38}
	tr, err := simulate(logger, flight.DefaultBall(), launch)
	if err != nil {
		return err
	}

	if len(tr.Samples) != flight.SampleCount {
		return fmt.Errorf("%d samples, want %d", len(tr.Samples), flight.SampleCount)
	}
	if tr.Samples[0].T != 0 || tr.Samples[len(tr.Samples)-1].T != flight.Horizon {
		return fmt.Errorf("grid spans [%v, %v], want [0, %v]",
			tr.Samples[0].T, tr.Samples[len(tr.Samples)-1].T, flight.Horizon)
	}
	if tr.Samples[0].State != launch.InitialState() {
		return fmt.Errorf("first sample is not the initial state")
	}

	dt := flight.Horizon / float64(flight.SampleCount-1)
	for i := 1; i < len(tr.Samples); i++ {
		if math.Abs(tr.Samples[i].T-tr.Samples[i-1].T-dt) > 1e-12 {
			return fmt.Errorf("non-uniform spacing at sample %d", i)
		}
	}
	return nil
}

// Drag only ever removes horizontal speed.
func checkDrag(logger *slog.Logger) error {
	tr, err := simulate(logger, flight.DefaultBall(), flight.Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: 45})
	if err != nil {
		return err
	}

	for i := 1; i < len(tr.Samples); i++ {
		if math.Abs(tr.Samples[i].VX) > math.Abs(tr.Samples[i-1].VX)+1e-9 {
			return fmt.Errorf("|vx| grew at sample %d", i)
		}
	}
	return nil
}

// Doubling alpha must lower the apex and shorten the carpet strike.
func checkAlphaDoubling(logger *slog.Logger) error {
	launch := flight.Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: 45}

	light, err := simulate(logger, flight.Ball{Mass: flight.BallMass, Alpha: 0.0186}, launch)
	if err != nil {
		return err
	}
	heavy, err := simulate(logger, flight.Ball{Mass: flight.BallMass, Alpha: 0.0372}, launch)
	if err != nil {
		return err
	}

	if heavy.Apex().Y >= light.Apex().Y {
		return fmt.Errorf("apex did not drop: %.4f -> %.4f", light.Apex().Y, heavy.Apex().Y)
	}

	ls, lok := light.GroundStrike()
	hs, hok := heavy.GroundStrike()
	if !lok || !hok {
		return fmt.Errorf("flight never struck the carpet")
	}
	fmt.Printf("     strike x: alpha=0.0186 -> %.4f m, alpha=0.0372 -> %.4f m\n", ls.X, hs.X)
	if hs.X >= ls.X {
		return fmt.Errorf("strike did not shorten")
	}
	return nil
}

func checkScoring(logger *slog.Logger) error {
	// A shot that threads both ports.
	tr, err := simulate(logger, flight.DefaultBall(), flight.Launch{X0: -4, Y0: 0.6, Speed: 11, AngleDeg: 38})
	if err != nil {
		return err
	}
	shot := scoring.Score(tr)
	fmt.Printf("     inner shot: outer y=%.4f, inner y=%.4f\n", shot.Outer.At.Y, shot.Inner.At.Y)
	if !shot.Outer.Scored || !shot.Inner.Scored {
		return fmt.Errorf("expected both ports scored, got outer=%v inner=%v", shot.Outer.Scored, shot.Inner.Scored)
	}
	if math.Abs(shot.Outer.At.Y-2.4794) > 5e-3 {
		return fmt.Errorf("outer crossing y=%.4f, want about 2.4794", shot.Outer.At.Y)
	}

	// A heavy-drag lob that reaches the wall under the opening.
	tr, err = simulate(logger, flight.Ball{Mass: flight.BallMass, Alpha: 0.0186}, flight.Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: 45})
	if err != nil {
		return err
	}
	shot = scoring.Score(tr)
	fmt.Printf("     low shot:   wall y=%.4f\n", shot.Outer.At.Y)
	if !shot.Outer.Reached || shot.Outer.Scored || shot.Inner.Scored {
		return fmt.Errorf("expected a clean miss, got %+v", shot)
	}
	return nil
}

func checkDivergence(logger *slog.Logger) error {
	_, err := simulate(logger, flight.Ball{Mass: flight.BallMass, Alpha: 1e9}, flight.Launch{X0: -4, Y0: 0.6, Speed: 11, AngleDeg: 38})
	if err == nil {
		return fmt.Errorf("absurd drag integrated without complaint")
	}
	if !errors.Is(err, flight.ErrDivergence) {
		return fmt.Errorf("wrong error class: %v", err)
	}
	fmt.Printf("     rejected as: %v\n", err)
	return nil
}
