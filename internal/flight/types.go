package flight

import (
	"errors"
	"fmt"
	"math"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/solver"
)

// Simulation window and output density. Every trajectory covers exactly
// [0, Horizon] seconds resampled onto SampleCount uniform points.
const (
	Horizon     = 2.0 // s
	SampleCount = 1000
)

var (
	// ErrInvalidInput is reported for launch or ball parameters outside the
	// physical domain. Nothing is clamped; the simulation does not run.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivergence is reported when the integrator cannot finish the
	// window. Alias of the solver sentinel so callers match one package.
	ErrDivergence = solver.ErrDivergence
)

// Launch holds the four shot parameters. The port target plane is x=0,
// so shots are normally taken from X0 < 0.
type Launch struct {
	X0       float64 `json:"x0"`        // m
	Y0       float64 `json:"y0"`        // m above carpet
	Speed    float64 `json:"speed"`     // m/s
	AngleDeg float64 `json:"angle_deg"` // degrees above horizontal
}

// Validate checks the launch parameters against the model's domain.
func (l Launch) Validate() error {
	if !isFinite(l.X0) || !isFinite(l.Y0) {
		return fmt.Errorf("%w: launch position (%v, %v) must be finite", ErrInvalidInput, l.X0, l.Y0)
	}
	if !isFinite(l.Speed) || l.Speed < 0 {
		return fmt.Errorf("%w: speed %v m/s must be non-negative", ErrInvalidInput, l.Speed)
	}
	if !isFinite(l.AngleDeg) || l.AngleDeg < 0 || l.AngleDeg > 180 {
		return fmt.Errorf("%w: angle %v deg must be within [0, 180]", ErrInvalidInput, l.AngleDeg)
	}
	return nil
}

// InitialState resolves the launch into position and velocity components.
func (l Launch) InitialState() State {
	sin, cos := math.Sincos(l.AngleDeg * math.Pi / 180)
	return State{X: l.X0, Y: l.Y0, VX: l.Speed * cos, VY: l.Speed * sin}
}

// State is the ball's planar position and velocity.
type State struct {
	X  float64 `json:"x"`  // m
	Y  float64 `json:"y"`  // m
	VX float64 `json:"vx"` // m/s
	VY float64 `json:"vy"` // m/s
}

// Sample is one trajectory point on the uniform output grid.
type Sample struct {
	T float64 `json:"t"` // s since launch
	State
}

// Trajectory is a simulated flight: SampleCount samples at uniform spacing,
// the first being the untouched initial state.
type Trajectory struct {
	Samples []Sample `json:"samples"`
	Steps   int      `json:"-"` // accepted integrator steps
}

// Apex returns the highest sample of the flight.
func (tr *Trajectory) Apex() Sample {
	apex := tr.Samples[0]
	for _, s := range tr.Samples[1:] {
		if s.Y > apex.Y {
			apex = s
		}
	}
	return apex
}

// At returns the state at time t, interpolated linearly between samples.
// Times outside the window clamp to the first or last sample.
func (tr *Trajectory) At(t float64) State {
	ss := tr.Samples
	last := len(ss) - 1
	if t <= ss[0].T {
		return ss[0].State
	}
	if t >= ss[last].T {
		return ss[last].State
	}

	dt := (ss[last].T - ss[0].T) / float64(last)
	i := int((t - ss[0].T) / dt)
	if i >= last {
		i = last - 1
	}
	a, b := ss[i], ss[i+1]
	u := (t - a.T) / (b.T - a.T)
	return State{
		X:  a.X + u*(b.X-a.X),
		Y:  a.Y + u*(b.Y-a.Y),
		VX: a.VX + u*(b.VX-a.VX),
		VY: a.VY + u*(b.VY-a.VY),
	}
}

// GroundStrike returns the first descent through the carpet (y=0),
// interpolated between the bracketing samples. The flight itself is not
// truncated there; the full window is always simulated.
func (tr *Trajectory) GroundStrike() (Sample, bool) {
	ss := tr.Samples
	for i := 0; i+1 < len(ss); i++ {
		if ss[i].Y >= 0 && ss[i+1].Y < 0 {
			u := ss[i].Y / (ss[i].Y - ss[i+1].Y)
			return Sample{
				T: ss[i].T + u*(ss[i+1].T-ss[i].T),
				State: State{
					X:  ss[i].X + u*(ss[i+1].X-ss[i].X),
					Y:  0,
					VX: ss[i].VX + u*(ss[i+1].VX-ss[i].VX),
					VY: ss[i].VY + u*(ss[i+1].VY-ss[i].VY),
				},
			}, true
		}
	}
	return Sample{}, false
}

// SimConfig holds integrator settings. Zero values fall back to defaults.
type SimConfig struct {
	RTol     float64 // relative tolerance (default 1e-6)
	ATol     float64 // absolute tolerance (default 1e-9)
	MaxSteps int     // step attempt budget (default 10000)
}

// DefaultSimConfig returns the tolerances the model is validated against.
func DefaultSimConfig() SimConfig {
	return SimConfig{RTol: 1e-6, ATol: 1e-9, MaxSteps: 10000}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
