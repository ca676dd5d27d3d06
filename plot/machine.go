package plot

import (
	"github.com/mastercactapus/gcodeplot/coord"
	"github.com/mastercactapus/gcodeplot/gcode"
)

// Machine tracks the plotter state while a program is replayed. The zero
// value is at the origin with the pen up.
type Machine struct {
	pos     coord.Point
	penDown bool
}

func (m Machine) Pos() coord.Point { return m.pos }
func (m Machine) PenDown() bool    { return m.penDown }

// Step is one executed statement.
type Step struct {
	gcode.Statement

	// From and To are the current point before and after the command.
	From, To coord.Point

	// PenDown is the pen state while the command executes. For a
	// PenState command it is the new state.
	PenDown bool
}

// Moves reports whether the command traces a path from From to To.
func (s Step) Moves() bool {
	switch s.Command.(type) {
	case gcode.Home, gcode.RapidMove, gcode.LinearMove, gcode.Arc:
		return true
	}
	return false
}

// Run executes st and returns the resulting step.
func (m *Machine) Run(st gcode.Statement) Step {
	if p, ok := st.Command.(gcode.PenState); ok {
		m.penDown = p.Down
	}
	s := Step{
		Statement: st,
		From:      m.pos,
		PenDown:   m.penDown,
	}
	m.pos = gcode.Next(m.pos, st.Command)
	s.To = m.pos
	return s
}

// Replay runs p from the origin with the pen up, calling fn for every
// statement in order. It returns the final current point.
func Replay(p gcode.Program, fn func(Step)) coord.Point {
	var m Machine
	for _, st := range p {
		s := m.Run(st)
		if fn != nil {
			fn(s)
		}
	}
	return m.pos
}
