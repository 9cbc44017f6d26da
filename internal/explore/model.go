// Package explore is an interactive terminal explorer: tune the launch
// parameters with the keyboard and watch the flight and the score update.
package explore

import (
	"math"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
)

// Field indexes into tuneFields.
const (
	fieldX0 = iota
	fieldY0
	fieldSpeed
	fieldAngle
	fieldCount
)

// Field describes one tunable launch parameter and its UI range. The
// ranges are tighter than what the simulator accepts; they keep the
// flight inside the drawn field.
type Field struct {
	Label string
	Unit  string
	Min   float64
	Max   float64
	Step  float64
}

var tuneFields = [fieldCount]Field{
	fieldX0:    {Label: "x0", Unit: "m", Min: -8, Max: 0, Step: 0.1},
	fieldY0:    {Label: "y0", Unit: "m", Min: 0.2, Max: 1.0, Step: 0.05},
	fieldSpeed: {Label: "speed", Unit: "m/s", Min: 0, Max: 15, Step: 0.1},
	fieldAngle: {Label: "angle", Unit: "deg", Min: 20, Max: 80, Step: 1},
}

// Model is the explorer's tunable state. It is pure: key handling mutates
// it and the draw loop reads it, with no terminal involved.
type Model struct {
	Launch flight.Launch
	sel    int
}

// NewModel clamps the starting launch into the tunable ranges.
func NewModel(launch flight.Launch) Model {
	m := Model{Launch: launch}
	for i := range tuneFields {
		m.set(i, clamp(m.get(i), tuneFields[i].Min, tuneFields[i].Max))
	}
	return m
}

// Selected returns the index of the parameter under the cursor.
func (m *Model) Selected() int { return m.sel }

// SelectNext moves the cursor down the parameter list, wrapping.
func (m *Model) SelectNext() { m.sel = (m.sel + 1) % fieldCount }

// SelectPrev moves the cursor up the parameter list, wrapping.
func (m *Model) SelectPrev() { m.sel = (m.sel + fieldCount - 1) % fieldCount }

// Adjust steps the selected parameter and reports whether it moved.
// Values never leave the field's range.
func (m *Model) Adjust(steps int) bool {
	f := tuneFields[m.sel]
	old := m.get(m.sel)
	v := clamp(old+float64(steps)*f.Step, f.Min, f.Max)
	if v == old {
		return false
	}
	m.set(m.sel, v)
	return true
}

// FieldState is one row of the parameter list as drawn.
type FieldState struct {
	Label    string
	Unit     string
	Value    float64
	Selected bool
}

// Fields returns the parameter list in display order.
func (m *Model) Fields() []FieldState {
	out := make([]FieldState, fieldCount)
	for i := range tuneFields {
		out[i] = FieldState{
			Label:    tuneFields[i].Label,
			Unit:     tuneFields[i].Unit,
			Value:    m.get(i),
			Selected: i == m.sel,
		}
	}
	return out
}

func (m *Model) get(i int) float64 {
	switch i {
	case fieldX0:
		return m.Launch.X0
	case fieldY0:
		return m.Launch.Y0
	case fieldSpeed:
		return m.Launch.Speed
	default:
		return m.Launch.AngleDeg
	}
}

func (m *Model) set(i int, v float64) {
	switch i {
	case fieldX0:
		m.Launch.X0 = v
	case fieldY0:
		m.Launch.Y0 = v
	case fieldSpeed:
		m.Launch.Speed = v
	default:
		m.Launch.AngleDeg = v
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Viewport maps field coordinates onto a terminal cell grid. The view is
// fixed so the port structure stays put while parameters move; row 0 is
// the top of the screen and the carpet sits on the bottom row.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
	Cols, Rows int
}

// FieldViewport frames the launch zone and the port wall with a margin.
func FieldViewport(cols, rows int) Viewport {
	return Viewport{XMin: -8.5, XMax: 1.5, YMin: 0, YMax: 5, Cols: cols, Rows: rows}
}

// Cell maps a field point to a cell, reporting false outside the view.
func (v Viewport) Cell(x, y float64) (col, row int, ok bool) {
	col, okX := v.colOf(x)
	row, okY := v.rowOf(y)
	return col, row, okX && okY
}

// ColOf maps an x coordinate to a column.
func (v Viewport) ColOf(x float64) (int, bool) { return v.colOf(x) }

// RowOf maps a height to a row.
func (v Viewport) RowOf(y float64) (int, bool) { return v.rowOf(y) }

func (v Viewport) colOf(x float64) (int, bool) {
	if v.Cols < 2 || x < v.XMin || x > v.XMax {
		return 0, false
	}
	f := (x - v.XMin) / (v.XMax - v.XMin)
	return int(math.Round(f * float64(v.Cols-1))), true
}

func (v Viewport) rowOf(y float64) (int, bool) {
	if v.Rows < 2 || y < v.YMin || y > v.YMax {
		return 0, false
	}
	f := (y - v.YMin) / (v.YMax - v.YMin)
	return v.Rows - 1 - int(math.Round(f*float64(v.Rows-1))), true
}
