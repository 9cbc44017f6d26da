package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/metrics"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/scoring"
)

// Param selects which launch value a sweep varies.
type Param string

const (
	ParamX0    Param = "x0"
	ParamY0    Param = "y0"
	ParamSpeed Param = "speed"
	ParamAngle Param = "angle"
)

// ParseParam maps a flag value onto a swept parameter.
func ParseParam(s string) (Param, error) {
	switch Param(s) {
	case ParamX0, ParamY0, ParamSpeed, ParamAngle:
		return Param(s), nil
	}
	return "", fmt.Errorf("unknown sweep parameter %q (want x0, y0, speed or angle)", s)
}

// Axis is the swept range: Steps values spaced evenly from Min to Max,
// both inclusive. Steps == 1 pins the value at Min.
type Axis struct {
	Param Param   `json:"param"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Steps int     `json:"steps"`
}

// Value returns the i-th swept value.
func (a Axis) Value(i int) float64 {
	if a.Steps <= 1 {
		return a.Min
	}
	return a.Min + (a.Max-a.Min)*float64(i)/float64(a.Steps-1)
}

// Apply returns the base launch with the i-th swept value substituted.
func (a Axis) Apply(base flight.Launch, i int) (flight.Launch, float64) {
	v := a.Value(i)
	switch a.Param {
	case ParamX0:
		base.X0 = v
	case ParamY0:
		base.Y0 = v
	case ParamSpeed:
		base.Speed = v
	case ParamAngle:
		base.AngleDeg = v
	}
	return base, v
}

// Request describes one sweep: a base launch and the axis varied across it.
type Request struct {
	Base flight.Launch `json:"base"`
	Axis Axis          `json:"axis"`
}

// Outcome is one run of a sweep. Err carries the failure message for runs
// that were rejected, diverged or were cancelled; the rest of the fields
// are only meaningful when Err is empty.
type Outcome struct {
	Value  float64            `json:"value"`
	Launch flight.Launch      `json:"launch"`
	Apex   flight.Sample      `json:"apex"`
	Shot   scoring.ShotResult `json:"shot"`
	Err    string             `json:"error,omitempty"`
}

// Summary aggregates a sweep. The min/max fields bound the swept values
// that scored and are only meaningful when the matching count is positive.
type Summary struct {
	Runs        int     `json:"runs"`
	Failed      int     `json:"failed"`
	OuterScored int     `json:"outer_scored"`
	InnerScored int     `json:"inner_scored"`
	OuterMin    float64 `json:"outer_min"`
	OuterMax    float64 `json:"outer_max"`
	InnerMin    float64 `json:"inner_min"`
	InnerMax    float64 `json:"inner_max"`
}

// Runner drives sweeps through a fixed pool of workers.
type Runner struct {
	sim     *flight.Simulator
	workers int
	logger  *slog.Logger
}

// NewRunner creates a sweep runner with the given pool size.
func NewRunner(sim *flight.Simulator, workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	metrics.SetSweepWorkersActive(workers)
	return &Runner{sim: sim, workers: workers, logger: logger}
}

// Run executes every point on the axis. Outcomes come back in axis order
// regardless of which worker ran them. Individual run failures are
// recorded on their Outcome and do not stop the sweep; the returned error
// is only non-nil when the context was cancelled.
func (r *Runner) Run(ctx context.Context, req Request) ([]Outcome, Summary, error) {
	if req.Axis.Steps < 1 {
		return nil, Summary{}, fmt.Errorf("sweep: steps %d, need at least 1", req.Axis.Steps)
	}
	if _, err := ParseParam(string(req.Axis.Param)); err != nil {
		return nil, Summary{}, fmt.Errorf("sweep: %w", err)
	}

	outcomes := make([]Outcome, req.Axis.Steps)
	for i := range outcomes {
		launch, v := req.Axis.Apply(req.Base, i)
		outcomes[i] = Outcome{Value: v, Launch: launch}
	}

	jobs := make(chan int, r.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				r.runOne(ctx, &outcomes[idx])
			}
		}()
	}

	// Feed jobs; on cancellation mark everything not yet handed out.
	go func() {
		defer close(jobs)
		for i := range outcomes {
			select {
			case jobs <- i:
			case <-ctx.Done():
				for j := i; j < len(outcomes); j++ {
					outcomes[j].Err = "cancelled"
				}
				return
			}
		}
	}()

	wg.Wait()

	sum := summarize(outcomes)
	metrics.RecordSweep(len(outcomes))
	r.logger.Info("sweep complete",
		"param", req.Axis.Param,
		"runs", sum.Runs,
		"failed", sum.Failed,
		"outer_scored", sum.OuterScored,
		"inner_scored", sum.InnerScored,
	)

	return outcomes, sum, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, out *Outcome) {
	if ctx.Err() != nil {
		out.Err = "cancelled"
		return
	}

	tr, err := r.sim.Simulate(ctx, out.Launch)
	if err != nil {
		out.Err = err.Error()
		r.logger.Warn("sweep run failed", "value", out.Value, "error", err)
		return
	}

	out.Apex = tr.Apex()
	out.Shot = scoring.Score(tr)
	metrics.RecordShot(out.Shot.Outer.Scored, out.Shot.Inner.Scored)
}

func summarize(outcomes []Outcome) Summary {
	sum := Summary{Runs: len(outcomes)}
	for _, o := range outcomes {
		if o.Err != "" {
			sum.Failed++
			continue
		}
		if o.Shot.Outer.Scored {
			if sum.OuterScored == 0 || o.Value < sum.OuterMin {
				sum.OuterMin = o.Value
			}
			if sum.OuterScored == 0 || o.Value > sum.OuterMax {
				sum.OuterMax = o.Value
			}
			sum.OuterScored++
		}
		if o.Shot.Inner.Scored {
			if sum.InnerScored == 0 || o.Value < sum.InnerMin {
				sum.InnerMin = o.Value
			}
			if sum.InnerScored == 0 || o.Value > sum.InnerMax {
				sum.InnerMax = o.Value
			}
			sum.InnerScored++
		}
	}
	return sum
}
