package gcode

import (
	"errors"
	"fmt"
	"strings"
)

type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota + 1
	MissingParameter
	MalformedNumber
	UnexpectedParameter
	RepeatedParameter
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case MissingParameter:
		return "missing parameter"
	case MalformedNumber:
		return "malformed number"
	case UnexpectedParameter:
		return "unexpected parameter"
	case RepeatedParameter:
		return "repeated parameter"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError is returned for the first malformed line of a file.
//
// Line and Column are 0-based; Column is a byte offset into the line.
type ParseError struct {
	Line   int
	Column int
	Kind   ParseErrorKind
	Token  string
	Msg    string
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
		if e.Token != "" {
			msg += " '" + e.Token + "'"
		}
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line+1, e.Column+1, msg)
}

// Snippet renders the source line err refers to with a caret under the
// column. It is empty unless err wraps a *ParseError within src.
func Snippet(err error, src string) string {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return ""
	}

	lines := strings.Split(src, "\n")
	if perr.Line < 0 || perr.Line >= len(lines) {
		return ""
	}
	var b strings.Builder
	text := strings.TrimRight(lines[perr.Line], "\r")
	gutter := fmt.Sprintf("%4d | ", perr.Line+1)
	b.WriteString(gutter + text + "\n")

	col := perr.Column
	if col > len(text) {
		col = len(text)
	}
	b.WriteString(strings.Repeat(" ", len(gutter)-2) + "| ")
	for _, r := range text[:col] {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("^\n")
	return b.String()
}
