package solver

import (
	"errors"
	"fmt"
	"math"
)

// Vec is the integration state: [x, y, vx, vy].
type Vec [4]float64

// Func computes the state derivative at time t.
type Func func(t float64, y Vec) Vec

// Config controls adaptive step selection and the failure guards.
// Zero values fall back to the DefaultConfig fields.
type Config struct {
	InitStep float64 // first attempted step size (s)
	MinStep  float64 // floor; needing a smaller step is reported as divergence
	MaxStep  float64 // ceiling on accepted step size (s)
	ATol     float64 // absolute tolerance per component
	RTol     float64 // relative tolerance per component
	MaxSteps int     // budget on step attempts, accepted or rejected
}

// DefaultConfig returns the step-control settings used for ball flight:
// tolerances sized so the resampled output is accurate well below a
// millimeter over a 2 s horizon.
func DefaultConfig() Config {
	return Config{
		InitStep: 1e-3,
		MinStep:  1e-12,
		MaxStep:  0.1,
		ATol:     1e-9,
		RTol:     1e-6,
		MaxSteps: 10000,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitStep <= 0 {
		c.InitStep = d.InitStep
	}
	if c.MinStep <= 0 {
		c.MinStep = d.MinStep
	}
	if c.MaxStep <= 0 {
		c.MaxStep = d.MaxStep
	}
	if c.ATol <= 0 {
		c.ATol = d.ATol
	}
	if c.RTol <= 0 {
		c.RTol = d.RTol
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = d.MaxSteps
	}
	return c
}

// ErrDivergence is returned when the integrator cannot continue: the state
// went NaN/Inf, the step budget ran out, or error control pushed the step
// below MinStep.
var ErrDivergence = errors.New("numerical divergence")

// Dormand-Prince 5(4) coefficients. Stage 7 is evaluated at the accepted
// endpoint, so every knot carries its own derivative for dense output.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	dpB = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	dpE = [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	}
)

// knot is an accepted integration point with its derivative.
type knot struct {
	t  float64
	y  Vec
	dy Vec
}

// Solution holds the accepted steps of one integration. Values between
// knots come from cubic Hermite interpolation (At).
type Solution struct {
	knots []knot
	steps int // accepted steps
	evals int // derivative evaluations
}

// Steps returns the number of accepted integration steps.
func (s *Solution) Steps() int { return s.steps }

// Evals returns the number of derivative evaluations.
func (s *Solution) Evals() int { return s.evals }

// Start returns the first knot time.
func (s *Solution) Start() float64 { return s.knots[0].t }

// End returns the last knot time.
func (s *Solution) End() float64 { return s.knots[len(s.knots)-1].t }

// At evaluates the solution at time t using cubic Hermite interpolation
// between the bracketing knots. Times outside the integrated range clamp
// to the endpoints; the initial time returns the initial state exactly.
func (s *Solution) At(t float64) Vec {
	ks := s.knots
	if t <= ks[0].t {
		return ks[0].y
	}
	if t >= ks[len(ks)-1].t {
		return ks[len(ks)-1].y
	}

	// Binary search for the interval with ks[lo].t <= t < ks[lo+1].t.
	lo, hi := 0, len(ks)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if ks[mid].t <= t {
			lo = mid
		} else {
			hi = mid
		}
	}

	a, b := ks[lo], ks[lo+1]
	h := b.t - a.t
	u := (t - a.t) / h
	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	var out Vec
	for i := 0; i < 4; i++ {
		out[i] = h00*a.y[i] + h10*h*a.dy[i] + h01*b.y[i] + h11*h*b.dy[i]
	}
	return out
}

// Integrate advances y0 from t0 to t1 under f with adaptive Dormand-Prince
// steps. The returned Solution spans exactly [t0, t1] on success.
func Integrate(f Func, t0, t1 float64, y0 Vec, cfg Config) (*Solution, error) {
	if t1 <= t0 {
		return nil, fmt.Errorf("rk45: end time %g not after start %g", t1, t0)
	}
	if !finiteVec(y0) {
		return nil, fmt.Errorf("rk45: initial state is not finite: %v", y0)
	}
	cfg = cfg.withDefaults()

	const (
		safety = 0.9
		minFac = 0.2
		maxFac = 10.0
		order  = 5.0
	)

	sol := &Solution{knots: make([]knot, 0, 64)}

	t := t0
	y := y0
	dy := f(t, y)
	sol.evals++
	if !finiteVec(dy) {
		return nil, fmt.Errorf("rk45: derivative not finite at t=%.6f: %w", t, ErrDivergence)
	}
	sol.knots = append(sol.knots, knot{t: t, y: y, dy: dy})

	h := math.Min(cfg.InitStep, cfg.MaxStep)
	attempts := 0

	for t < t1 {
		if h > t1-t {
			h = t1 - t
		}
		if t+h == t {
			return nil, fmt.Errorf("rk45: step underflow at t=%.6f: %w", t, ErrDivergence)
		}

		attempts++
		if attempts > cfg.MaxSteps {
			return nil, fmt.Errorf("rk45: step budget %d exhausted at t=%.6f: %w", cfg.MaxSteps, t, ErrDivergence)
		}

		var k [7]Vec
		k[0] = dy
		for i := 1; i < 7; i++ {
			var yi Vec
			for j := 0; j < i; j++ {
				if dpA[i][j] == 0 {
					continue
				}
				for n := 0; n < 4; n++ {
					yi[n] += h * dpA[i][j] * k[j][n]
				}
			}
			for n := 0; n < 4; n++ {
				yi[n] += y[n]
			}
			k[i] = f(t+dpC[i]*h, yi)
			sol.evals++
		}

		var ynew, yerr Vec
		for i := 0; i < 7; i++ {
			for n := 0; n < 4; n++ {
				ynew[n] += h * dpB[i] * k[i][n]
				yerr[n] += h * dpE[i] * k[i][n]
			}
		}
		for n := 0; n < 4; n++ {
			ynew[n] += y[n]
		}

		if !finiteVec(ynew) {
			return nil, fmt.Errorf("rk45: state not finite at t=%.6f: %w", t+h, ErrDivergence)
		}

		var sum float64
		for n := 0; n < 4; n++ {
			scale := cfg.ATol + cfg.RTol*math.Max(math.Abs(y[n]), math.Abs(ynew[n]))
			e := yerr[n] / scale
			sum += e * e
		}
		errNorm := math.Sqrt(sum / 4)

		if errNorm <= 1 {
			t += h
			y = ynew
			dy = k[6] // stage 7 equals f(t+h, ynew)
			sol.steps++
			sol.knots = append(sol.knots, knot{t: t, y: y, dy: dy})

			if errNorm == 0 {
				h = math.Min(h*maxFac, cfg.MaxStep)
			} else {
				factor := safety * math.Pow(errNorm, -1.0/order)
				factor = math.Max(minFac, math.Min(maxFac, factor))
				h = math.Min(h*factor, cfg.MaxStep)
			}
			continue
		}

		factor := math.Max(minFac, safety*math.Pow(errNorm, -1.0/order))
		h *= factor
		if h < cfg.MinStep {
			return nil, fmt.Errorf("rk45: step %.3g below floor %.3g at t=%.6f: %w", h, cfg.MinStep, t, ErrDivergence)
		}
	}

	return sol, nil
}

func finiteVec(v Vec) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
