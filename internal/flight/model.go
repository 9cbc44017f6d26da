package flight

import (
	"fmt"
	"math"
)

// Field and ball constants. The POWER CELL is a 7 in foam ball; alpha lumps
// the drag model terms ½·ρ·A·Cd so the acceleration stays a single multiply
// per axis.
const (
	Gravity = 9.805 // m/s²

	AirDensity      = 1.225  // kg/m³
	BallRadius      = 0.0889 // m
	BallMass        = 0.142  // kg
	DragCoefficient = 0.5    // smooth sphere
)

// Ball holds the projectile parameters. Every field is overridable for
// other game pieces or venues; DefaultBall covers the POWER CELL. A
// zero Gravity means the package default of 9.805 m/s².
type Ball struct {
	Mass    float64 `json:"mass"`              // kg
	Alpha   float64 `json:"alpha"`             // kg/m, ½·ρ·A·Cd
	Gravity float64 `json:"gravity,omitempty"` // m/s², zero means Gravity
}

// DefaultBall returns the POWER CELL parameters with alpha derived from
// the drag constants above.
func DefaultBall() Ball {
	return Ball{
		Mass:    BallMass,
		Alpha:   DragAlpha(BallRadius, DragCoefficient, AirDensity),
		Gravity: Gravity,
	}
}

// DragAlpha computes the lumped drag parameter ½·ρ·A·Cd for a sphere of
// the given radius.
func DragAlpha(radius, dragCoeff, airDensity float64) float64 {
	area := math.Pi * radius * radius
	return 0.5 * airDensity * area * dragCoeff
}

// Validate checks the ball parameters against the physical domain.
func (b Ball) Validate() error {
	if !isFinite(b.Mass) || b.Mass <= 0 {
		return fmt.Errorf("%w: mass %v kg must be positive", ErrInvalidInput, b.Mass)
	}
	if !isFinite(b.Alpha) || b.Alpha < 0 {
		return fmt.Errorf("%w: drag alpha %v kg/m must be non-negative", ErrInvalidInput, b.Alpha)
	}
	if !isFinite(b.Gravity) || b.Gravity < 0 {
		return fmt.Errorf("%w: gravity %v m/s² must be non-negative", ErrInvalidInput, b.Gravity)
	}
	return nil
}

func (b Ball) gravity() float64 {
	if b.Gravity == 0 {
		return Gravity
	}
	return b.Gravity
}

// Rates returns the state derivative under gravity and quadratic drag:
//
//	dx/dt = vx    dvx/dt = -q·vx
//	dy/dt = vy    dvy/dt = -g - q·vy
//
// with q = (alpha/mass)·|v|. The derivative components are carried in the
// matching State slots. The system is autonomous, so no time argument.
func (b Ball) Rates(s State) State {
	q := b.Alpha / b.Mass * math.Hypot(s.VX, s.VY)
	return State{
		X:  s.VX,
		Y:  s.VY,
		VX: -q * s.VX,
		VY: -b.gravity() - q*s.VY,
	}
}
