package gcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "G28", Format(Home{}))
	assert.Equal(t, "G0 X10 Y0", Format(RapidMove{X: 10, Y: 0}))
	assert.Equal(t, "G1 X0.1 Y-2.5", Format(LinearMove{X: 0.1, Y: -2.5}))
	assert.Equal(t, "G2 X0 Y10 I0 J5", Format(Arc{Clockwise: true, X: 0, Y: 10, I: 0, J: 5}))
	assert.Equal(t, "G3 X1 Y2 I-3 J4.125", Format(Arc{X: 1, Y: 2, I: -3, J: 4.125}))
	assert.Equal(t, "M280 P0 S50", Format(PenState{Down: true}))
	assert.Equal(t, "M280 P0 S0", Format(PenState{Down: false}))
	assert.Equal(t, "; note", Format(Comment{Text: " note"}))
	assert.Equal(t, "G1 X3 Y4", LinearMove{X: 3, Y: 4}.String())

	e := Encoder{PenDown: 90, PenUp: 12.5}
	assert.Equal(t, "M280 P0 S90", e.Format(PenState{Down: true}))
	assert.Equal(t, "M280 P0 S12.5", e.Format(PenState{}))
}

func TestFormat_RoundTrip(t *testing.T) {
	cmds := []Command{
		Home{},
		RapidMove{X: 10, Y: 0},
		RapidMove{X: -0.001, Y: 123456.7},
		LinearMove{X: 1.0 / 3, Y: 2.0 / 3},
		Arc{Clockwise: true, X: 0, Y: 10, I: 0, J: 5},
		Arc{Clockwise: false, X: -7.25, Y: 3.5e-3, I: 1e-6, J: -42},
		PenState{Down: true},
		PenState{Down: false},
		Comment{Text: " keep me ; exactly"},
	}
	for _, c := range cmds {
		p, err := Parse(Serialize(Program{{Command: c}}))
		require.NoError(t, err, c.String())
		require.Len(t, p, 1)
		assert.Equal(t, c, p[0].Command)
	}
}

func TestSerialize(t *testing.T) {
	p := Program{
		{Line: 0, Command: Home{}},
		{Line: 0, Command: RapidMove{X: 1, Y: 2}},
		{Line: 0, Command: Comment{Text: " c"}},
		{Line: 2, Command: LinearMove{X: 3, Y: 4}},
		{Line: 3, Command: PenState{Down: true}},
	}
	assert.Equal(t, "G28 G0 X1 Y2 ; c\n\nG1 X3 Y4\nM280 P0 S50\n", Serialize(p))

	assert.Equal(t, "", Serialize(nil))

	// a comment ends its line
	p = Program{
		{Line: 0, Command: Comment{Text: "x"}},
		{Line: 0, Command: Home{}},
	}
	assert.Equal(t, ";x\nG28\n", Serialize(p))

	// appended commands tagged with an earlier line still get their own line
	p = Program{
		{Line: 4, Command: Home{}},
		{Line: 1, Command: RapidMove{X: 1, Y: 1}},
	}
	assert.Equal(t, "\n\n\n\nG28\nG0 X1 Y1\n", Serialize(p))
}

func TestSerialize_PreservesLines(t *testing.T) {
	src := "; header\n\nG28\nG0 X1 Y2 G1 X3 Y4 ; two\n\n\nM280 P0 S50\nG2 X0 Y10 I0 J5\n"
	p, err := Parse(src)
	require.NoError(t, err)

	out := Serialize(p)
	assert.Equal(t, src, out)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestEncoder_WriteProgram(t *testing.T) {
	var buf bytes.Buffer
	err := DefaultEncoder.WriteProgram(&buf, MustParse("G28\nG1 X1 Y1"))
	assert.NoError(t, err)
	assert.Equal(t, "G28\nG1 X1 Y1\n", buf.String())
}
