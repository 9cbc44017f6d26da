package solver

import (
	"errors"
	"math"
	"testing"
)

// TestIntegrateExponentialDecay checks the integrator against y' = -y,
// whose exact solution is e^-t.
func TestIntegrateExponentialDecay(t *testing.T) {
	f := func(_ float64, y Vec) Vec {
		return Vec{-y[0], 0, 0, 0}
	}

	sol, err := Integrate(f, 0, 2, Vec{1, 0, 0, 0}, DefaultConfig())
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}

	for _, tt := range []float64{0.1, 0.5, 1.0, 1.7, 2.0} {
		got := sol.At(tt)[0]
		want := math.Exp(-tt)
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("y(%.1f) = %.9f, want %.9f (err %.2e)", tt, got, want, math.Abs(got-want))
		}
	}

	if sol.Steps() == 0 {
		t.Error("expected at least one accepted step")
	}
	if sol.Evals() < sol.Steps()*6 {
		t.Errorf("evals = %d, expected >= 6 per accepted step (%d steps)", sol.Evals(), sol.Steps())
	}
}

// TestIntegrateHarmonicOscillator checks a coupled system x' = v, v' = -x
// over a full period.
func TestIntegrateHarmonicOscillator(t *testing.T) {
	f := func(_ float64, y Vec) Vec {
		return Vec{y[2], 0, -y[0], 0}
	}

	sol, err := Integrate(f, 0, 2*math.Pi, Vec{1, 0, 0, 0}, DefaultConfig())
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}

	tests := []struct {
		t     float64
		wantX float64
		wantV float64
	}{
		{math.Pi / 2, 0, -1},
		{math.Pi, -1, 0},
		{3 * math.Pi / 2, 0, 1},
		{2 * math.Pi, 1, 0},
	}
	for _, tt := range tests {
		y := sol.At(tt.t)
		if math.Abs(y[0]-tt.wantX) > 1e-5 {
			t.Errorf("x(%.4f) = %.8f, want %.8f", tt.t, y[0], tt.wantX)
		}
		if math.Abs(y[2]-tt.wantV) > 1e-5 {
			t.Errorf("v(%.4f) = %.8f, want %.8f", tt.t, y[2], tt.wantV)
		}
	}
}

// TestIntegrateQuadratic verifies that a polynomial right-hand side is
// reproduced exactly, including by the dense evaluator.
func TestIntegrateQuadratic(t *testing.T) {
	f := func(tt float64, _ Vec) Vec {
		return Vec{2 * tt, 0, 0, 0}
	}

	sol, err := Integrate(f, 0, 2, Vec{}, DefaultConfig())
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}

	for _, tt := range []float64{0, 0.37, 1.0, 1.99, 2.0} {
		got := sol.At(tt)[0]
		want := tt * tt
		if math.Abs(got-want) > 1e-10 {
			t.Errorf("y(%.2f) = %.12f, want %.12f", tt, got, want)
		}
	}
}

// TestSolutionAtEndpoints verifies exact endpoint behavior and clamping
// outside the integrated range.
func TestSolutionAtEndpoints(t *testing.T) {
	f := func(_ float64, y Vec) Vec {
		return Vec{-y[0], 0, 0, 0}
	}
	y0 := Vec{0.5, 1.25, -3, 4}

	sol, err := Integrate(f, 0, 1, y0, DefaultConfig())
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}

	if got := sol.At(0); got != y0 {
		t.Errorf("At(0) = %v, want initial state %v unchanged", got, y0)
	}
	end := sol.At(1)
	if got := sol.At(5); got != end {
		t.Errorf("At(5) = %v, want clamp to final state %v", got, end)
	}
	if got := sol.At(-1); got != y0 {
		t.Errorf("At(-1) = %v, want clamp to initial state %v", got, y0)
	}
	if sol.Start() != 0 || sol.End() != 1 {
		t.Errorf("span = [%v, %v], want [0, 1]", sol.Start(), sol.End())
	}
}

// TestIntegrateStepBudget verifies the divergence guard on the attempt budget.
func TestIntegrateStepBudget(t *testing.T) {
	f := func(_ float64, y Vec) Vec {
		return Vec{y[2], 0, -y[0], 0}
	}

	cfg := DefaultConfig()
	cfg.MaxSteps = 3
	cfg.MaxStep = 1e-3 // force far more than 3 steps over the window

	_, err := Integrate(f, 0, 10, Vec{1, 0, 0, 0}, cfg)
	if !errors.Is(err, ErrDivergence) {
		t.Fatalf("expected ErrDivergence on exhausted budget, got %v", err)
	}
}

// TestIntegrateNaNDerivative verifies detection of a derivative that stops
// being finite mid-flight.
func TestIntegrateNaNDerivative(t *testing.T) {
	f := func(tt float64, _ Vec) Vec {
		if tt > 0.5 {
			return Vec{math.NaN(), 0, 0, 0}
		}
		return Vec{1, 0, 0, 0}
	}

	_, err := Integrate(f, 0, 2, Vec{}, DefaultConfig())
	if !errors.Is(err, ErrDivergence) {
		t.Fatalf("expected ErrDivergence on NaN derivative, got %v", err)
	}
}

// TestIntegrateRejectsBadWindow verifies input checks that are not
// divergence: a reversed time window and a non-finite initial state.
func TestIntegrateRejectsBadWindow(t *testing.T) {
	f := func(_ float64, _ Vec) Vec { return Vec{} }

	if _, err := Integrate(f, 1, 1, Vec{}, DefaultConfig()); err == nil {
		t.Error("expected error for empty time window")
	}
	if _, err := Integrate(f, 0, -1, Vec{}, DefaultConfig()); err == nil {
		t.Error("expected error for reversed time window")
	}
	if _, err := Integrate(f, 0, 1, Vec{math.Inf(1), 0, 0, 0}, DefaultConfig()); err == nil {
		t.Error("expected error for non-finite initial state")
	}
}
