package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedName(t *testing.T) {
	name, err := DerivedName("dir/drawing.gcode", "transformed")
	assert.NoError(t, err)
	assert.Equal(t, "dir/drawing_transformed.gcode", name)

	_, err = DerivedName("drawing.nc", "added")
	assert.Equal(t, ErrNotGCode, err)
}

func TestResave(t *testing.T) {
	orig := "G28\nG0 X1 Y1 ; start\n"
	out := Resave(orig, []Command{PenState{Down: true}, Arc{Clockwise: true, X: 1, Y: 3, I: 0, J: 1}})

	assert.Equal(t, "G28\nG0 X1 Y1 ; start\n\n; added by gcodeplot\nM280 P0 S50\nG2 X1 Y3 I0 J1", out)

	p, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, Statement{Line: 3, Command: Comment{Text: " added by gcodeplot"}}, p[3])
	assert.Equal(t, Statement{Line: 5, Command: Arc{Clockwise: true, X: 1, Y: 3, I: 0, J: 1}}, p[len(p)-1])
}
