package gcode

import (
	"bytes"
	"io"
)

// Parse parses a whole file, keeping comments.
//
// The first malformed line aborts the parse; no partial program is returned.
func Parse(data string) (Program, error) {
	return parse(data, false)
}

// ParseCommentless parses a whole file, dropping comments.
func ParseCommentless(data string) (Program, error) {
	return parse(data, true)
}

func parse(data string, skipComments bool) (Program, error) {
	r := NewParser(bytes.NewBufferString(data))
	r.SkipComments = skipComments
	var p Program
	for {
		st, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p = append(p, st)
	}
	return p, nil
}

func MustParse(data string) Program {
	p, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return p
}
