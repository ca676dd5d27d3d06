package plot

import (
	"testing"

	"github.com/mastercactapus/gcodeplot/arc"
	"github.com/mastercactapus/gcodeplot/coord"
	"github.com/mastercactapus/gcodeplot/gcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay(t *testing.T) {
	p := gcode.MustParse("G0 X1 Y2\nM280 P0 S50 G1 X3 Y4\nG28 ; home\n")

	var steps []Step
	end := Replay(p, func(s Step) { steps = append(steps, s) })
	assert.Equal(t, coord.Pt(0, 0), end)
	require.Len(t, steps, 5)

	assert.Equal(t, coord.Pt(0, 0), steps[0].From)
	assert.Equal(t, coord.Pt(1, 2), steps[0].To)
	assert.False(t, steps[0].PenDown)

	assert.Equal(t, gcode.PenState{Down: true}, steps[1].Command)
	assert.True(t, steps[1].PenDown)
	assert.Equal(t, steps[1].From, steps[1].To)
	assert.False(t, steps[1].Moves())

	assert.Equal(t, 1, steps[2].Line)
	assert.Equal(t, coord.Pt(3, 4), steps[2].To)
	assert.True(t, steps[2].PenDown)

	assert.Equal(t, coord.Pt(3, 4), steps[3].From)
	assert.Equal(t, coord.Pt(0, 0), steps[3].To)

	assert.Equal(t, gcode.Comment{Text: " home"}, steps[4].Command)
}

func TestReplay_LastPosition(t *testing.T) {
	p := gcode.MustParse("G1 X5 Y5\nG2 X10 Y0 I5 J0\n")
	assert.Equal(t, coord.Pt(10, 0), Replay(p, nil))
	assert.Equal(t, p.End(), Replay(p, nil))
}

func TestMachine_Run(t *testing.T) {
	var m Machine
	m.Run(gcode.Statement{Command: gcode.LinearMove{X: 2, Y: 3}})
	m.Run(gcode.Statement{Command: gcode.PenState{Down: true}})
	assert.Equal(t, coord.Pt(2, 3), m.Pos())
	assert.True(t, m.PenDown())

	s := m.Run(gcode.Statement{Command: gcode.Comment{Text: "x"}})
	assert.Equal(t, coord.Pt(2, 3), s.To)
	assert.True(t, s.PenDown)
}

func TestTrace(t *testing.T) {
	p := gcode.MustParse(`G0 X1 Y1
M280 P0 S50
G1 X2 Y1
G1 X2 Y2
M280 P0 S0
G0 X5 Y5
`)
	d := Trace(p, Options{})
	require.Len(t, d.Paths, 3)

	assert.False(t, d.Paths[0].Drawn)
	assert.Equal(t, []coord.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, d.Paths[0].Points)

	assert.True(t, d.Paths[1].Drawn)
	assert.Equal(t, 2, d.Paths[1].Line)
	assert.Equal(t, []coord.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}, d.Paths[1].Points)

	assert.False(t, d.Paths[2].Drawn)
	assert.Len(t, d.Drawn(), 1)

	assert.Equal(t, coord.Pt(0, 0), d.Bounds.Min)
	assert.Equal(t, coord.Pt(5, 5), d.Bounds.Max)
	assert.Equal(t, coord.Pt(5, 5), d.End)
	assert.Empty(t, d.Warnings)
}

func TestTrace_Arc(t *testing.T) {
	p := gcode.MustParse("M280 P0 S50\nG2 X0 Y10 I0 J5\n")
	d := Trace(p, Options{})
	require.Len(t, d.Paths, 1)
	assert.Len(t, d.Paths[0].Points, arc.DefaultSteps.Count(25)+1)
	assert.True(t, d.Paths[0].Drawn)

	require.Len(t, d.Arcs, 1)
	assert.Equal(t, Construction{
		Line:      1,
		Start:     coord.Pt(0, 0),
		Center:    coord.Pt(0, 5),
		End:       coord.Pt(0, 10),
		Clockwise: true,
	}, d.Arcs[0])

	assert.InDelta(t, -5, d.Bounds.Min.X, 1e-4)
	assert.InDelta(t, 0, d.Bounds.Max.X, 1e-4)
}

func TestTrace_Steps(t *testing.T) {
	p := gcode.MustParse("G3 X0 Y10 I0 J5\n")
	d := Trace(p, Options{Steps: arc.Steps{PerUnit: 1, Min: 4, Max: 4}})
	require.Len(t, d.Paths, 1)
	assert.Len(t, d.Paths[0].Points, 5)
}

func TestTrace_Warnings(t *testing.T) {
	p := gcode.MustParse("G0 X0 Y0\n\nG2 X10 Y0 I3 J0\n")
	d := Trace(p, Options{})
	require.Len(t, d.Warnings, 1)

	w := d.Warnings[0]
	assert.Equal(t, 2, w.Line)
	assert.InDelta(t, 3, w.StartRadius, 1e-5)
	assert.InDelta(t, 7, w.EndRadius, 1e-5)
	assert.Contains(t, w.Error(), "line 3: ")
}

func TestTrace_HomeDraws(t *testing.T) {
	p := gcode.MustParse("G0 X3 Y4\nM280 P0 S90\nG28\n")
	d := Trace(p, Options{})
	require.Len(t, d.Paths, 2)
	assert.True(t, d.Paths[1].Drawn)
	assert.Equal(t, []coord.Point{{X: 3, Y: 4}, {X: 0, Y: 0}}, d.Paths[1].Points)
}
