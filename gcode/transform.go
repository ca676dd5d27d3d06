package gcode

import "github.com/mastercactapus/gcodeplot/coord"

// Transform scales every absolute position by scale and then translates it.
// Arc center offsets are relative, so they are scaled but never translated.
// Line tags, order and count are preserved.
func Transform(p Program, translate coord.Point, scale float32) Program {
	res := make(Program, len(p))
	for i, st := range p {
		res[i] = Statement{Line: st.Line, Command: st.Command.transform(scale, translate)}
	}
	return res
}

func affine(x, y, scale float32, translate coord.Point) (float32, float32) {
	return x*scale + translate.X, y*scale + translate.Y
}

func (c Home) transform(float32, coord.Point) Command { return c }
func (c RapidMove) transform(scale float32, translate coord.Point) Command {
	c.X, c.Y = affine(c.X, c.Y, scale, translate)
	return c
}
func (c LinearMove) transform(scale float32, translate coord.Point) Command {
	c.X, c.Y = affine(c.X, c.Y, scale, translate)
	return c
}
func (c Arc) transform(scale float32, translate coord.Point) Command {
	c.X, c.Y = affine(c.X, c.Y, scale, translate)
	c.I *= scale
	c.J *= scale
	return c
}
func (c PenState) transform(float32, coord.Point) Command { return c }
func (c Comment) transform(float32, coord.Point) Command  { return c }
