package gcode

import (
	"bytes"
	"io"
	"strconv"
)

// Encoder turns commands back into text. PenDown and PenUp are the S values
// written for PenState; PenDown must be at least PenDownThreshold and PenUp
// below it for the output to parse back to the same commands.
type Encoder struct {
	PenDown float32
	PenUp   float32
}

var DefaultEncoder = Encoder{PenDown: 50, PenUp: 0}

// appendFloat writes the shortest decimal that reads back as the same float32.
func appendFloat(dst []byte, f float32) []byte {
	return strconv.AppendFloat(dst, float64(f), 'f', -1, 32)
}

func appendWord(dst []byte, w byte, f float32) []byte {
	dst = append(dst, ' ', w)
	return appendFloat(dst, f)
}

func (Home) appendText(dst []byte, _ Encoder) []byte {
	return append(dst, "G28"...)
}
func (c RapidMove) appendText(dst []byte, _ Encoder) []byte {
	dst = append(dst, "G0"...)
	dst = appendWord(dst, 'X', c.X)
	return appendWord(dst, 'Y', c.Y)
}
func (c LinearMove) appendText(dst []byte, _ Encoder) []byte {
	dst = append(dst, "G1"...)
	dst = appendWord(dst, 'X', c.X)
	return appendWord(dst, 'Y', c.Y)
}
func (c Arc) appendText(dst []byte, _ Encoder) []byte {
	if c.Clockwise {
		dst = append(dst, "G2"...)
	} else {
		dst = append(dst, "G3"...)
	}
	dst = appendWord(dst, 'X', c.X)
	dst = appendWord(dst, 'Y', c.Y)
	dst = appendWord(dst, 'I', c.I)
	return appendWord(dst, 'J', c.J)
}
func (c PenState) appendText(dst []byte, e Encoder) []byte {
	dst = append(dst, "M280 P0"...)
	if c.Down {
		return appendWord(dst, 'S', e.PenDown)
	}
	return appendWord(dst, 'S', e.PenUp)
}
func (c Comment) appendText(dst []byte, _ Encoder) []byte {
	dst = append(dst, ';')
	return append(dst, c.Text...)
}

// Format returns the text of a single command.
func (e Encoder) Format(c Command) string {
	return string(c.appendText(nil, e))
}

// AppendProgram appends the text of p to dst.
//
// Statements sharing a source line are joined with a space; a line break is
// written whenever the line index changes, one per line advanced so blank
// lines keep their place. A comment always ends its line.
func (e Encoder) AppendProgram(dst []byte, p Program) []byte {
	last := 0
	lastComment := false
	for i, st := range p {
		switch {
		case i > 0 && st.Line == last && !lastComment:
			dst = append(dst, ' ')
		case st.Line > last:
			for n := last; n < st.Line; n++ {
				dst = append(dst, '\n')
			}
		case i > 0:
			dst = append(dst, '\n')
		}
		dst = st.Command.appendText(dst, e)
		_, lastComment = st.Command.(Comment)
		last = st.Line
	}
	if len(p) > 0 {
		dst = append(dst, '\n')
	}
	return dst
}

// Serialize returns the text of a whole program.
func (e Encoder) Serialize(p Program) string {
	return string(e.AppendProgram(nil, p))
}

// WriteProgram writes the text of p to w.
func (e Encoder) WriteProgram(w io.Writer, p Program) error {
	_, err := io.Copy(w, bytes.NewReader(e.AppendProgram(nil, p)))
	return err
}

// Format returns the canonical text of c.
func Format(c Command) string { return DefaultEncoder.Format(c) }

// Serialize returns the canonical text of p, preserving line grouping.
func Serialize(p Program) string { return DefaultEncoder.Serialize(p) }
