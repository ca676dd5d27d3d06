package gcode

import (
	"errors"
	"strings"
)

// AddedSeparator is the comment line written between the original file and
// appended commands.
const AddedSeparator = "; added by gcodeplot"

// ErrNotGCode is returned for file names without a .gcode extension.
var ErrNotGCode = errors.New("expected a .gcode file")

// DerivedName returns "<basename>_<suffix>.gcode" for a .gcode path.
func DerivedName(path, suffix string) (string, error) {
	base := strings.TrimSuffix(path, ".gcode")
	if base == path {
		return "", ErrNotGCode
	}
	return base + "_" + suffix + ".gcode", nil
}

// Resave appends added commands, one per line, to the original text after a
// separator comment.
func (e Encoder) Resave(original string, added []Command) string {
	var b strings.Builder
	b.WriteString(original)
	b.WriteString("\n" + AddedSeparator + "\n")
	for i, c := range added {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Format(c))
	}
	return b.String()
}

func Resave(original string, added []Command) string {
	return DefaultEncoder.Resave(original, added)
}
