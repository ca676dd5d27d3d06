package gcode

import (
	"bytes"
	"io"
)

// Buffer renders statements from a Reader as text, one command per line.
// Comments are not written.
type Buffer struct {
	gr  Reader
	enc Encoder
	buf bytes.Buffer
	err error
}

var _ io.Reader = &Buffer{}

func NewBuffer(r Reader, e Encoder) *Buffer {
	return &Buffer{gr: r, enc: e}
}

func (b *Buffer) Read(p []byte) (n int, err error) {
	for b.err == nil && b.buf.Len() < len(p) {
		var st Statement
		st, b.err = b.gr.Read()
		if b.err != nil {
			break
		}
		if _, ok := st.Command.(Comment); ok {
			continue
		}
		b.buf.Write(st.Command.appendText(nil, b.enc))
		b.buf.WriteByte('\n')
	}

	if b.buf.Len() > 0 {
		return b.buf.Read(p)
	}
	return 0, b.err
}
