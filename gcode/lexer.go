package gcode

import (
	"math"

	"github.com/tdewolff/parse/v2/strconv"
)

type token struct {
	text string
	col  int
}

// splitLine separates the code part of a line from its trailing comment and
// splits the code into space separated tokens, keeping their columns.
func splitLine(s string) (tokens []token, comment string, hasComment bool) {
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ';' {
			comment, hasComment = s[i+1:], true
			s = s[:i]
			break
		}
		if c == ' ' || c == '\t' {
			if start >= 0 {
				tokens = append(tokens, token{text: s[start:i], col: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: s[start:], col: start})
	}
	return tokens, comment, hasComment
}

type headKind byte

const (
	headHome headKind = iota + 1
	headRapid
	headLinear
	headClockwise
	headCounterClockwise
	headPen
)

var heads = map[string]headKind{
	"G28":  headHome,
	"G0":   headRapid,
	"G1":   headLinear,
	"G2":   headClockwise,
	"G3":   headCounterClockwise,
	"M280": headPen,
}

// allowed parameter letters per head
var headParams = map[headKind]string{
	headHome:             "",
	headRapid:            "XY",
	headLinear:           "XY",
	headClockwise:        "XYIJ",
	headCounterClockwise: "XYIJ",
	headPen:              "PS",
}

func isParamLetter(c byte) bool {
	switch c {
	case 'X', 'Y', 'I', 'J', 'P', 'S':
		return true
	}
	return false
}

// validNumber reports whether s is a signed decimal literal with an
// optional decimal point and at least one digit.
func validNumber(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits, dot := 0, false
	for ; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// parseNumber decodes a single-precision literal.
func parseNumber(s string) (float32, bool) {
	if !validNumber(s) {
		return 0, false
	}
	f, n := strconv.ParseFloat([]byte(s))
	if n != len(s) {
		return 0, false
	}
	v := float32(f)
	if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
		return 0, false
	}
	return v, true
}
