package explore

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/frc-team-3341/Trajectory-Modeling/internal/flight"
	"github.com/frc-team-3341/Trajectory-Modeling/internal/scoring"
)

var (
	styleText     = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGround   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFlight   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleMark     = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleOuter    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleInner    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleGood     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWarn     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBad      = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Explorer owns the terminal screen and re-simulates on every parameter
// change.
type Explorer struct {
	screen tcell.Screen
	sim    *flight.Simulator

	model  Model
	tr     *flight.Trajectory
	shot   scoring.ShotResult
	simErr error
}

// New opens the terminal and runs the starting launch once.
func New(sim *flight.Simulator, launch flight.Launch) (*Explorer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	e := &Explorer{screen: screen, sim: sim, model: NewModel(launch)}
	e.simulate()
	return e, nil
}

// Run polls events until the user quits. The terminal is restored on the
// way out, panics included.
func (e *Explorer) Run() error {
	defer e.screen.Fini()

	e.draw()
	for {
		switch ev := e.screen.PollEvent().(type) {
		case nil: // screen finalized
			return nil
		case *tcell.EventKey:
			if !e.handleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			e.screen.Sync()
		}
		e.draw()
	}
}

func (e *Explorer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		e.model.SelectPrev()
	case tcell.KeyDown:
		e.model.SelectNext()
	case tcell.KeyLeft:
		e.adjust(-1)
	case tcell.KeyRight:
		e.adjust(1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'k':
			e.model.SelectPrev()
		case 'j':
			e.model.SelectNext()
		case 'h', '-':
			e.adjust(-1)
		case 'l', '+', '=':
			e.adjust(1)
		case 'H':
			e.adjust(-10)
		case 'L':
			e.adjust(10)
		}
	}
	return true
}

func (e *Explorer) adjust(steps int) {
	if e.model.Adjust(steps) {
		e.simulate()
	}
}

func (e *Explorer) simulate() {
	tr, err := e.sim.Simulate(context.Background(), e.model.Launch)
	if err != nil {
		e.tr = nil
		e.shot = scoring.ShotResult{}
		e.simErr = err
		return
	}
	e.tr = tr
	e.shot = scoring.Score(tr)
	e.simErr = nil
}

// Layout: parameter rows, a result row, the field view, a help line.
const panelRows = fieldCount + 1

func (e *Explorer) draw() {
	e.screen.Clear()
	w, h := e.screen.Size()

	if w < 32 || h < panelRows+5 {
		drawText(e.screen, 0, 0, styleText, "terminal too small")
		e.screen.Show()
		return
	}

	for i, f := range e.model.Fields() {
		style := styleText
		marker := "  "
		if f.Selected {
			style = styleSelected
			marker = "> "
		}
		drawText(e.screen, 0, i, style, fmt.Sprintf("%s%-5s %7.2f %s", marker, f.Label, f.Value, f.Unit))
	}

	text, style := e.resultLine()
	drawText(e.screen, 0, fieldCount, style, text)

	e.drawField(panelRows, w, h-panelRows-1)

	drawText(e.screen, 0, h-1, styleHelp, "arrows/hjkl tune   H/L big steps   up/down pick   q quit")
	e.screen.Show()
}

func (e *Explorer) resultLine() (string, tcell.Style) {
	switch {
	case e.simErr != nil:
		return fmt.Sprintf("error: %v", e.simErr), styleBad
	case e.shot.Inner.Scored:
		return fmt.Sprintf("INNER PORT  y=%.2f m at t=%.2f s", e.shot.Inner.At.Y, e.shot.Inner.At.T), styleGood
	case e.shot.Outer.Scored:
		return fmt.Sprintf("outer port  y=%.2f m at t=%.2f s", e.shot.Outer.At.Y, e.shot.Outer.At.T), styleWarn
	case e.shot.Outer.Reached:
		return fmt.Sprintf("miss        y=%.2f m at the wall", e.shot.Outer.At.Y), styleBad
	default:
		return "short       never reaches the wall", styleBad
	}
}

// drawField renders the side view into the rows below the panel.
func (e *Explorer) drawField(top, cols, rows int) {
	view := FieldViewport(cols, rows)

	if row, ok := view.RowOf(0); ok {
		for col := 0; col < cols; col++ {
			e.screen.SetContent(col, top+row, '-', nil, styleGround)
		}
	}

	e.drawPort(top, view, scoring.OuterPort, styleOuter)
	e.drawPort(top, view, scoring.InnerPort, styleInner)

	if e.tr == nil {
		return
	}
	for _, s := range e.tr.Samples {
		if col, row, ok := view.Cell(s.X, s.Y); ok {
			e.screen.SetContent(col, top+row, '.', nil, styleFlight)
		}
	}
	if col, row, ok := view.Cell(e.model.Launch.X0, e.model.Launch.Y0); ok {
		e.screen.SetContent(col, top+row, '@', nil, styleMark)
	}
	apex := e.tr.Apex()
	if col, row, ok := view.Cell(apex.X, apex.Y); ok {
		e.screen.SetContent(col, top+row, '^', nil, styleMark)
	}
}

func (e *Explorer) drawPort(top int, view Viewport, port scoring.Port, style tcell.Style) {
	col, ok := view.ColOf(port.PlaneX)
	if !ok {
		return
	}
	hi, okHi := view.RowOf(port.YMax())
	lo, okLo := view.RowOf(port.YMin())
	if !okHi || !okLo {
		return
	}
	for row := hi; row <= lo; row++ {
		e.screen.SetContent(col, top+row, '|', nil, style)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
