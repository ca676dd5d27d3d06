package gcode

import "io"

type Reader interface {
	Read() (Statement, error)
}

var _ Reader = &Parser{}

// ProgramReader reads statements from an already parsed program.
type ProgramReader struct {
	Program Program
	n       int
}

func (r *ProgramReader) Read() (Statement, error) {
	if r.n == len(r.Program) {
		return Statement{}, io.EOF
	}

	r.n++
	return r.Program[r.n-1], nil
}
