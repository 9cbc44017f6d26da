package scoring

import (
	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
)

// Port is one POWER PORT opening: a vertical window in a wall at a fixed x
// plane, in the field frame (x=0 at the outer wall, y above the carpet).
// Depth is the wall thickness; it is drawn by the renderers but plays no
// part in scoring, which compares the ball's center line against the
// opening span at the plane.
type Port struct {
	Name    string  `json:"name"`
	PlaneX  float64 `json:"plane_x"`  // m
	Depth   float64 `json:"depth"`    // m
	CenterY float64 `json:"center_y"` // m
	Height  float64 `json:"height"`   // m
}

// 2020 field dimensions: the outer opening is 0.76 m tall centered 2.50 m
// above the carpet; the inner port is 0.33 m tall at the same center,
// recessed 0.74 m behind the outer wall.
var (
	OuterPort = Port{Name: "outer", PlaneX: 0, Depth: 0.05, CenterY: 2.50, Height: 0.76}
	InnerPort = Port{Name: "inner", PlaneX: 0.74, Depth: 0.05, CenterY: 2.50, Height: 0.33}
)

// YMin returns the bottom edge of the opening.
func (p Port) YMin() float64 { return p.CenterY - p.Height/2 }

// YMax returns the top edge of the opening.
func (p Port) YMax() float64 { return p.CenterY + p.Height/2 }

// Contains reports whether a height at the plane lies inside the opening,
// edges included.
func (p Port) Contains(y float64) bool {
	return y >= p.YMin() && y <= p.YMax()
}

// Crossing is the point where the flight path pierces a vertical plane,
// interpolated between the bracketing samples.
type Crossing struct {
	T float64 `json:"t"` // s since launch
	Y float64 `json:"y"` // m above carpet
}

// PlaneCrossing finds the first left-to-right pass through x = planeX:
// the first sample pair with x_i < planeX <= x_i+1. A flight that starts
// on or beyond the plane never crosses it.
func PlaneCrossing(tr *flight.Trajectory, planeX float64) (Crossing, bool) {
	ss := tr.Samples
	for i := 0; i+1 < len(ss); i++ {
		if ss[i].X < planeX && planeX <= ss[i+1].X {
			u := (planeX - ss[i].X) / (ss[i+1].X - ss[i].X)
			return Crossing{
				T: ss[i].T + u*(ss[i+1].T-ss[i].T),
				Y: ss[i].Y + u*(ss[i+1].Y-ss[i].Y),
			}, true
		}
	}
	return Crossing{}, false
}

// PortResult is the evaluation of one port in isolation.
type PortResult struct {
	Port    Port     `json:"port"`
	Reached bool     `json:"reached"` // the path crossed the port plane
	At      Crossing `json:"at"`      // valid when Reached
	Scored  bool     `json:"scored"`
}

// Evaluate checks a single port with no outer/inner gating.
func Evaluate(tr *flight.Trajectory, port Port) PortResult {
	c, ok := PlaneCrossing(tr, port.PlaneX)
	if !ok {
		return PortResult{Port: port}
	}
	return PortResult{
		Port:    port,
		Reached: true,
		At:      c,
		Scored:  port.Contains(c.Y),
	}
}

// ShotResult is the scoring of a full shot against both ports.
type ShotResult struct {
	Outer PortResult `json:"outer"`
	Inner PortResult `json:"inner"`
}

// Score evaluates both ports. The inner port is gated on the outer: a ball
// that did not enter through the outer opening cannot score inner, whatever
// the raw geometry at the recessed plane says. Reached and At stay raw so
// callers can still see where the path met the inner plane.
func Score(tr *flight.Trajectory) ShotResult {
	outer := Evaluate(tr, OuterPort)
	inner := Evaluate(tr, InnerPort)
	if !outer.Scored {
		inner.Scored = false
	}
	return ShotResult{Outer: outer, Inner: inner}
}
