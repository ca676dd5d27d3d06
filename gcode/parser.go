package gcode

import (
	"bufio"
	"io"
	"strings"
)

// Parser reads statements from G-code text one at a time.
type Parser struct {
	br *bufio.Reader

	// SkipComments drops Comment statements.
	SkipComments bool

	line    int
	pending []Statement
	err     error
}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

// Read returns the next statement, or io.EOF once the input is exhausted.
//
// After a *ParseError every subsequent call returns the same error.
func (p *Parser) Read() (Statement, error) {
	for len(p.pending) == 0 {
		if p.err != nil {
			return Statement{}, p.err
		}
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			p.err = err
			return Statement{}, err
		}
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")

		p.pending, err = parseLine(p.line, s, p.SkipComments)
		p.line++
		if err != nil {
			p.err = err
			return Statement{}, err
		}
	}

	st := p.pending[0]
	p.pending = p.pending[1:]
	return st, nil
}

type param struct {
	val float32
	col int
	set bool
}

type invocation struct {
	head   headKind
	tok    token
	params ['Z' + 1]param
}

func (inv *invocation) get(c byte) (float32, bool) {
	p := inv.params[c]
	return p.val, p.set
}

func (inv *invocation) missing(line int, letters string) error {
	return &ParseError{
		Line:   line,
		Column: inv.tok.col,
		Kind:   MissingParameter,
		Token:  inv.tok.text,
		Msg:    inv.tok.text + " requires " + letters,
	}
}

func (inv *invocation) command(line int) (Command, error) {
	x, hasX := inv.get('X')
	y, hasY := inv.get('Y')
	switch inv.head {
	case headHome:
		return Home{}, nil
	case headRapid, headLinear:
		if !hasX || !hasY {
			return nil, inv.missing(line, "X and Y")
		}
		if inv.head == headRapid {
			return RapidMove{X: x, Y: y}, nil
		}
		return LinearMove{X: x, Y: y}, nil
	case headClockwise, headCounterClockwise:
		if !hasX || !hasY {
			return nil, inv.missing(line, "X and Y")
		}
		i, hasI := inv.get('I')
		j, hasJ := inv.get('J')
		if !hasI && !hasJ {
			return nil, inv.missing(line, "I or J")
		}
		return Arc{Clockwise: inv.head == headClockwise, X: x, Y: y, I: i, J: j}, nil
	case headPen:
		pv, hasP := inv.get('P')
		s, hasS := inv.get('S')
		if !hasP || !hasS {
			return nil, inv.missing(line, "P0 and S")
		}
		if pv != 0 {
			return nil, &ParseError{
				Line:   line,
				Column: inv.params['P'].col,
				Kind:   UnexpectedParameter,
				Token:  "P",
				Msg:    "only servo P0 is supported",
			}
		}
		return PenState{Down: s >= PenDownThreshold}, nil
	}
	return nil, &ParseError{Line: line, Column: inv.tok.col, Kind: UnexpectedToken, Token: inv.tok.text}
}

// parseLine parses a single line. A line that holds no command yields no
// statements and no error.
func parseLine(line int, s string, skipComments bool) ([]Statement, error) {
	tokens, comment, hasComment := splitLine(s)

	var res []Statement
	var cur *invocation
	flush := func() error {
		if cur == nil {
			return nil
		}
		c, err := cur.command(line)
		if err != nil {
			return err
		}
		res = append(res, Statement{Line: line, Command: c})
		cur = nil
		return nil
	}

	for _, tok := range tokens {
		if h, ok := heads[tok.text]; ok {
			if err := flush(); err != nil {
				return nil, err
			}
			cur = &invocation{head: h, tok: tok}
			continue
		}

		letter := tok.text[0]
		if cur == nil || !isParamLetter(letter) {
			return nil, &ParseError{Line: line, Column: tok.col, Kind: UnexpectedToken, Token: tok.text}
		}
		if !strings.ContainsRune(headParams[cur.head], rune(letter)) {
			return nil, &ParseError{
				Line:   line,
				Column: tok.col,
				Kind:   UnexpectedParameter,
				Token:  tok.text,
				Msg:    "parameter " + string(letter) + " not allowed for " + cur.tok.text,
			}
		}
		if cur.params[letter].set {
			return nil, &ParseError{Line: line, Column: tok.col, Kind: RepeatedParameter, Token: tok.text}
		}
		v, ok := parseNumber(tok.text[1:])
		if !ok {
			return nil, &ParseError{Line: line, Column: tok.col + 1, Kind: MalformedNumber, Token: tok.text[1:]}
		}
		cur.params[letter] = param{val: v, col: tok.col, set: true}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if hasComment && !skipComments {
		res = append(res, Statement{Line: line, Command: Comment{Text: comment}})
	}
	return res, nil
}
