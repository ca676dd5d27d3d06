package gcode

import (
	"github.com/mastercactapus/gcodeplot/coord"
)

// PenDownThreshold is the smallest M280 S value that lowers the pen.
const PenDownThreshold = 40

// A Command is one parsed G-code invocation.
//
// The set of commands is closed: Home, RapidMove, LinearMove, Arc,
// PenState and Comment are the only implementations.
type Command interface {
	// String returns the canonical text form, using DefaultEncoder.
	String() string

	appendText(dst []byte, e Encoder) []byte
	transform(scale float32, translate coord.Point) Command
	advance(cur coord.Point) coord.Point
}

// Home is G28: return to the origin.
type Home struct{}

// RapidMove is G0: travel to (X,Y).
type RapidMove struct{ X, Y float32 }

// LinearMove is G1: straight line to (X,Y).
type LinearMove struct{ X, Y float32 }

// Arc is G2 (Clockwise) or G3. (X,Y) is the absolute end point and (I,J)
// the center offset relative to the start of the arc.
type Arc struct {
	Clockwise bool
	X, Y      float32
	I, J      float32
}

// PenState is M280 P0 S<n>.
type PenState struct{ Down bool }

// Comment is the text following a ';' up to the end of the line.
type Comment struct{ Text string }

func (c Home) String() string       { return DefaultEncoder.Format(c) }
func (c RapidMove) String() string  { return DefaultEncoder.Format(c) }
func (c LinearMove) String() string { return DefaultEncoder.Format(c) }
func (c Arc) String() string        { return DefaultEncoder.Format(c) }
func (c PenState) String() string   { return DefaultEncoder.Format(c) }
func (c Comment) String() string    { return DefaultEncoder.Format(c) }

// End returns the absolute end point of the move.
func (c RapidMove) End() coord.Point  { return coord.Pt(c.X, c.Y) }
func (c LinearMove) End() coord.Point { return coord.Pt(c.X, c.Y) }
func (c Arc) End() coord.Point        { return coord.Pt(c.X, c.Y) }

// Offset returns the center offset (I,J).
func (c Arc) Offset() coord.Point { return coord.Pt(c.I, c.J) }

func (Home) advance(coord.Point) coord.Point         { return coord.Point{} }
func (c RapidMove) advance(coord.Point) coord.Point  { return c.End() }
func (c LinearMove) advance(coord.Point) coord.Point { return c.End() }
func (c Arc) advance(coord.Point) coord.Point        { return c.End() }
func (PenState) advance(cur coord.Point) coord.Point { return cur }
func (Comment) advance(cur coord.Point) coord.Point  { return cur }

// Next returns the current point after c executes from cur.
func Next(cur coord.Point, c Command) coord.Point {
	return c.advance(cur)
}

// Statement is a command tagged with its 0-based source line.
type Statement struct {
	Line    int
	Command Command
}

// Program is an ordered list of statements in execution order. Several
// statements may share a line.
type Program []Statement

// Commands returns the commands of p without their line tags.
func (p Program) Commands() []Command {
	res := make([]Command, len(p))
	for i, st := range p {
		res[i] = st.Command
	}
	return res
}

// WithoutComments returns a copy of p with all Comment statements removed.
func (p Program) WithoutComments() Program {
	res := make(Program, 0, len(p))
	for _, st := range p {
		if _, ok := st.Command.(Comment); ok {
			continue
		}
		res = append(res, st)
	}
	return res
}

// End replays p from the origin and returns the final current point.
func (p Program) End() coord.Point {
	var cur coord.Point
	for _, st := range p {
		cur = st.Command.advance(cur)
	}
	return cur
}
