// Package render draws simulated flights as static side-view field plots.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/scoring"
)

// Canvas size handed to plot.Save. Wide enough that a full-field shot
// keeps a readable aspect ratio.
const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

var (
	flightColor = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	carpetColor = color.NRGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff}
	outerColor  = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0x90}
	innerColor  = color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0x90}
	markColor   = color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

// FieldPlot builds a side view of one flight: the sampled path, the
// carpet, both port openings and the apex and launch markers.
func FieldPlot(launch flight.Launch, tr *flight.Trajectory, shot scoring.ShotResult) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%.1f m/s at %.1f deg from (%.2f, %.2f)",
		launch.Speed, launch.AngleDeg, launch.X0, launch.Y0)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	path, err := plotter.NewLine(flightPath(tr))
	if err != nil {
		return nil, fmt.Errorf("flight line: %w", err)
	}
	path.Color = flightColor
	path.Width = vg.Points(1.5)
	p.Add(path)
	p.Legend.Add("flight", path)

	xmin, xmax := extent(launch, tr)

	carpet, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: 0}, {X: xmax, Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("carpet line: %w", err)
	}
	carpet.Color = carpetColor
	carpet.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(carpet)

	for _, pc := range []struct {
		port scoring.Port
		fill color.Color
	}{
		{scoring.OuterPort, outerColor},
		{scoring.InnerPort, innerColor},
	} {
		box, err := portBox(pc.port, pc.fill)
		if err != nil {
			return nil, err
		}
		p.Add(box)
		p.Legend.Add(pc.port.Name+" port", box)
	}

	marks, err := plotter.NewScatter(markPoints(launch, tr))
	if err != nil {
		return nil, fmt.Errorf("markers: %w", err)
	}
	marks.GlyphStyle = draw.GlyphStyle{Color: markColor, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
	p.Add(marks)

	for _, pr := range []scoring.PortResult{shot.Outer, shot.Inner} {
		if !pr.Scored {
			continue
		}
		hit, err := plotter.NewScatter(plotter.XYs{{X: pr.Port.PlaneX, Y: pr.At.Y}})
		if err != nil {
			return nil, fmt.Errorf("%s crossing marker: %w", pr.Port.Name, err)
		}
		hit.GlyphStyle = draw.GlyphStyle{Color: portColor(pr.Port), Radius: vg.Points(4), Shape: draw.RingGlyph{}}
		p.Add(hit)
	}

	p.Legend.Top = true
	p.X.Min, p.X.Max = xmin, xmax
	return p, nil
}

// WriteFlight renders a flight to path. The image format follows the file
// extension (.png, .svg, .pdf).
func WriteFlight(launch flight.Launch, tr *flight.Trajectory, shot scoring.ShotResult, path string) error {
	p, err := FieldPlot(launch, tr, shot)
	if err != nil {
		return err
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

func flightPath(tr *flight.Trajectory) plotter.XYs {
	xys := make(plotter.XYs, 0, len(tr.Samples))
	for _, s := range tr.Samples {
		xys = append(xys, plotter.XY{X: s.X, Y: s.Y})
	}
	return xys
}

func portBox(port scoring.Port, fill color.Color) (*plotter.Polygon, error) {
	rect := plotter.XYs{
		{X: port.PlaneX, Y: port.YMin()},
		{X: port.PlaneX + port.Depth, Y: port.YMin()},
		{X: port.PlaneX + port.Depth, Y: port.YMax()},
		{X: port.PlaneX, Y: port.YMax()},
	}
	box, err := plotter.NewPolygon(rect)
	if err != nil {
		return nil, fmt.Errorf("%s port box: %w", port.Name, err)
	}
	box.Color = fill
	return box, nil
}

func markPoints(launch flight.Launch, tr *flight.Trajectory) plotter.XYs {
	apex := tr.Apex()
	return plotter.XYs{
		{X: launch.X0, Y: launch.Y0},
		{X: apex.X, Y: apex.Y},
	}
}

// extent spans the part of the field worth drawing: the whole flight plus
// the port structure, with a little margin.
func extent(launch flight.Launch, tr *flight.Trajectory) (xmin, xmax float64) {
	xmin, xmax = launch.X0, launch.X0
	for _, s := range tr.Samples {
		if s.X < xmin {
			xmin = s.X
		}
		if s.X > xmax {
			xmax = s.X
		}
	}
	wall := scoring.InnerPort.PlaneX + scoring.InnerPort.Depth
	if xmax < wall {
		xmax = wall
	}
	return xmin - 0.5, xmax + 0.5
}

func portColor(port scoring.Port) color.Color {
	if port.Name == scoring.InnerPort.Name {
		return innerColor
	}
	return outerColor
}
