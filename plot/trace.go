package plot

import (
	"fmt"

	"github.com/mastercactapus/gcodeplot/arc"
	"github.com/mastercactapus/gcodeplot/coord"
	"github.com/mastercactapus/gcodeplot/gcode"
)

// GeometryWarning is an arc warning tagged with the line of the arc.
type GeometryWarning struct {
	Line int
	arc.Warning
}

func (w GeometryWarning) Error() string {
	return fmt.Sprintf("line %d: %s", w.Line+1, w.Warning.String())
}

// Path is a polyline traced with a single pen state.
type Path struct {
	Points []coord.Point
	Drawn  bool
	// Line is the source line of the first segment.
	Line int
}

// Construction describes how an arc was laid out.
type Construction struct {
	Line               int
	Start, Center, End coord.Point
	Clockwise          bool
}

// Drawing is the result of tracing a program.
type Drawing struct {
	// Paths contains drawn and travel polylines in execution order.
	Paths    []Path
	Arcs     []Construction
	Warnings []GeometryWarning

	// Bounds covers every traced point, drawn or not.
	Bounds coord.Box
	End    coord.Point
}

// Drawn returns only the paths traced with the pen down.
func (d Drawing) Drawn() []Path {
	var res []Path
	for _, p := range d.Paths {
		if p.Drawn {
			res = append(res, p)
		}
	}
	return res
}

type Options struct {
	// Tolerance for arc geometry; arc.DefaultTolerance if zero.
	Tolerance float32
	// Steps for arc segmentation; arc.DefaultSteps if zero.
	Steps arc.Steps
}

func (o Options) withDefaults() Options {
	if o.Tolerance == 0 {
		o.Tolerance = arc.DefaultTolerance
	}
	if o.Steps == (arc.Steps{}) {
		o.Steps = arc.DefaultSteps
	}
	return o
}

// Trace replays p and collects the polylines it produces.
//
// Consecutive segments with the same pen state are joined into one path.
// Home traces a segment back to the origin.
func Trace(p gcode.Program, opts Options) Drawing {
	opts = opts.withDefaults()
	var d Drawing
	d.End = Replay(p, func(s Step) {
		if !s.Moves() {
			return
		}
		var points []coord.Point
		if c, ok := s.Command.(gcode.Arc); ok {
			var w *arc.Warning
			points, w = opts.Steps.Resolve(s.From, c.Clockwise, c.End(), c.Offset(), opts.Tolerance)
			if w != nil {
				d.Warnings = append(d.Warnings, GeometryWarning{Line: s.Line, Warning: *w})
			}
			d.Arcs = append(d.Arcs, Construction{
				Line:      s.Line,
				Start:     s.From,
				Center:    s.From.Add(c.Offset()),
				End:       c.End(),
				Clockwise: c.Clockwise,
			})
		} else {
			points = []coord.Point{s.From, s.To}
		}
		d.add(s.Line, s.PenDown, points)
	})
	return d
}

func (d *Drawing) add(line int, drawn bool, points []coord.Point) {
	d.Bounds = d.Bounds.Extend(points...)

	if n := len(d.Paths); n > 0 {
		last := &d.Paths[n-1]
		if last.Drawn == drawn && last.Points[len(last.Points)-1].Equal(points[0]) {
			last.Points = append(last.Points, points[1:]...)
			return
		}
	}
	d.Paths = append(d.Paths, Path{
		Points: append([]coord.Point(nil), points...),
		Drawn:  drawn,
		Line:   line,
	})
}
