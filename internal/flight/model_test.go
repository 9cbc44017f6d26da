package flight

import (
	"errors"
	"math"
	"testing"
)

// TestDefaultBallAlpha pins the derived drag parameter to the closed form
// ½·ρ·π·r²·Cd for the POWER CELL constants.
func TestDefaultBallAlpha(t *testing.T) {
	want := 0.5 * AirDensity * math.Pi * BallRadius * BallRadius * DragCoefficient

	ball := DefaultBall()
	if math.Abs(ball.Alpha-want) > 1e-12 {
		t.Errorf("DefaultBall alpha = %.10f, want %.10f", ball.Alpha, want)
	}
	// Magnitude sanity: about 7.6e-3 kg/m for the 7 in foam ball.
	if ball.Alpha < 0.0075 || ball.Alpha > 0.0077 {
		t.Errorf("DefaultBall alpha = %.6f kg/m, outside expected range", ball.Alpha)
	}
	if ball.Mass != BallMass {
		t.Errorf("DefaultBall mass = %v, want %v", ball.Mass, BallMass)
	}
	if ball.Gravity != Gravity {
		t.Errorf("DefaultBall gravity = %v, want %v", ball.Gravity, Gravity)
	}
}

func TestBallValidate(t *testing.T) {
	tests := []struct {
		name    string
		ball    Ball
		wantErr bool
	}{
		{"default", DefaultBall(), false},
		{"zero drag", Ball{Mass: 0.142, Alpha: 0}, false},
		{"zero mass", Ball{Mass: 0, Alpha: 0.01}, true},
		{"negative mass", Ball{Mass: -1, Alpha: 0.01}, true},
		{"negative alpha", Ball{Mass: 0.142, Alpha: -0.001}, true},
		{"nan mass", Ball{Mass: math.NaN(), Alpha: 0.01}, true},
		{"inf alpha", Ball{Mass: 0.142, Alpha: math.Inf(1)}, true},
		{"moon gravity", Ball{Mass: 0.142, Alpha: 0.01, Gravity: 1.62}, false},
		{"negative gravity", Ball{Mass: 0.142, Alpha: 0.01, Gravity: -9.805}, true},
		{"nan gravity", Ball{Mass: 0.142, Alpha: 0.01, Gravity: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ball.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("Validate() = %v, want ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestLaunchValidate(t *testing.T) {
	tests := []struct {
		name    string
		launch  Launch
		wantErr bool
	}{
		{"typical shot", Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: 45}, false},
		{"zero speed", Launch{X0: -5, Y0: 0.5, Speed: 0, AngleDeg: 45}, false},
		{"flat shot", Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: 0}, false},
		{"backward shot", Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: 180}, false},
		{"negative speed", Launch{X0: -5, Y0: 0.5, Speed: -1, AngleDeg: 45}, true},
		{"angle above range", Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: 200}, true},
		{"angle below range", Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: -5}, true},
		{"nan x0", Launch{X0: math.NaN(), Y0: 0.5, Speed: 10, AngleDeg: 45}, true},
		{"inf y0", Launch{X0: -5, Y0: math.Inf(1), Speed: 10, AngleDeg: 45}, true},
		{"nan angle", Launch{X0: -5, Y0: 0.5, Speed: 10, AngleDeg: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.launch.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("Validate() = %v, want ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestInitialState(t *testing.T) {
	tests := []struct {
		name   string
		launch Launch
		want   State
	}{
		{
			"horizontal",
			Launch{X0: -3, Y0: 0.8, Speed: 6, AngleDeg: 0},
			State{X: -3, Y: 0.8, VX: 6, VY: 0},
		},
		{
			"straight up",
			Launch{X0: -3, Y0: 0.8, Speed: 6, AngleDeg: 90},
			State{X: -3, Y: 0.8, VX: 0, VY: 6},
		},
		{
			"45 degrees",
			Launch{X0: 0, Y0: 0, Speed: 10, AngleDeg: 45},
			State{X: 0, Y: 0, VX: 10 / math.Sqrt2, VY: 10 / math.Sqrt2},
		},
		{
			"backward",
			Launch{X0: 1, Y0: 1, Speed: 4, AngleDeg: 180},
			State{X: 1, Y: 1, VX: -4, VY: 0},
		},
	}

	const tol = 1e-12
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.launch.InitialState()
			if got.X != tt.want.X || got.Y != tt.want.Y {
				t.Errorf("position = (%v, %v), want (%v, %v)", got.X, got.Y, tt.want.X, tt.want.Y)
			}
			if math.Abs(got.VX-tt.want.VX) > tol || math.Abs(got.VY-tt.want.VY) > tol {
				t.Errorf("velocity = (%v, %v), want (%v, %v)", got.VX, got.VY, tt.want.VX, tt.want.VY)
			}
		})
	}
}

// TestRatesVacuum verifies the derivative with drag switched off: pure
// gravity, velocities pass through as position rates.
func TestRatesVacuum(t *testing.T) {
	ball := Ball{Mass: BallMass, Alpha: 0}
	s := State{X: 1, Y: 2, VX: 3, VY: -4}

	d := ball.Rates(s)
	if d.X != s.VX || d.Y != s.VY {
		t.Errorf("position rates = (%v, %v), want (%v, %v)", d.X, d.Y, s.VX, s.VY)
	}
	if d.VX != 0 {
		t.Errorf("dvx/dt = %v, want 0 in vacuum", d.VX)
	}
	if d.VY != -Gravity {
		t.Errorf("dvy/dt = %v, want %v in vacuum", d.VY, -Gravity)
	}
}

// TestRatesDrag verifies the quadratic drag terms against the closed form
// q = (alpha/mass)·|v| on a 3-4-5 velocity triangle.
func TestRatesDrag(t *testing.T) {
	ball := Ball{Mass: 0.142, Alpha: 0.0186}
	s := State{VX: 3, VY: 4} // |v| = 5
	q := ball.Alpha / ball.Mass * 5

	d := ball.Rates(s)
	if math.Abs(d.VX-(-q*3)) > 1e-15 {
		t.Errorf("dvx/dt = %v, want %v", d.VX, -q*3)
	}
	if math.Abs(d.VY-(-Gravity-q*4)) > 1e-15 {
		t.Errorf("dvy/dt = %v, want %v", d.VY, -Gravity-q*4)
	}

	// On the way down drag opposes the fall: dvy/dt must sit above -g.
	down := ball.Rates(State{VX: 3, VY: -4})
	if down.VY <= -Gravity {
		t.Errorf("descending dvy/dt = %v, want > %v", down.VY, -Gravity)
	}
}

// TestRatesGravityOverride verifies the overridable field: an explicit
// value replaces the package default, a zero field keeps it.
func TestRatesGravityOverride(t *testing.T) {
	moon := Ball{Mass: BallMass, Alpha: 0, Gravity: 1.62}
	if d := moon.Rates(State{}); d.VY != -1.62 {
		t.Errorf("dvy/dt = %v under 1.62 m/s² override, want -1.62", d.VY)
	}

	unset := Ball{Mass: BallMass, Alpha: 0}
	if d := unset.Rates(State{}); d.VY != -Gravity {
		t.Errorf("dvy/dt = %v with gravity unset, want default %v", d.VY, -Gravity)
	}
}
