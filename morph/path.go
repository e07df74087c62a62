package morph

import (
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// Segment is one absolute cubic Bézier piece. Its start point is the end
// point of the previous segment, or the path start for the first segment.
type Segment struct {
	Ctrl1, Ctrl2, End gg.Point
}

// Path is an outline rewritten as a single run of cubic segments.
type Path struct {
	Start    gg.Point
	Segments []Segment
	Closed   bool
}

// SegmentStart returns the start point of segment i.
func (p Path) SegmentStart(i int) gg.Point {
	if i == 0 {
		return p.Start
	}
	return p.Segments[i-1].End
}

// End returns the final point of the path.
func (p Path) End() gg.Point {
	if len(p.Segments) == 0 {
		return p.Start
	}
	return p.Segments[len(p.Segments)-1].End
}

// Cubic returns segment i as a gg curve.
func (p Path) Cubic(i int) gg.CubicBez {
	s := p.Segments[i]
	return gg.NewCubicBez(p.SegmentStart(i), s.Ctrl1, s.Ctrl2, s.End)
}

// Clone returns a copy that shares no segment storage with p.
func (p Path) Clone() Path {
	out := p
	out.Segments = append([]Segment(nil), p.Segments...)
	return out
}

// Bounds returns the bounding box of the control polygon.
func (p Path) Bounds() gg.Rect {
	r := gg.Rect{Min: p.Start, Max: p.Start}
	for _, s := range p.Segments {
		for _, pt := range [3]gg.Point{s.Ctrl1, s.Ctrl2, s.End} {
			r.Min.X = math.Min(r.Min.X, pt.X)
			r.Min.Y = math.Min(r.Min.Y, pt.Y)
			r.Max.X = math.Max(r.Max.X, pt.X)
			r.Max.Y = math.Max(r.Max.Y, pt.Y)
		}
	}
	return r
}

// String formats the path as an outline using absolute M, C and Z commands.
func (p Path) String() string {
	var b strings.Builder
	b.Grow(16 + len(p.Segments)*48)
	b.WriteString("M")
	writePoint(&b, p.Start)
	for _, s := range p.Segments {
		b.WriteString(" C")
		writePoint(&b, s.Ctrl1)
		b.WriteByte(' ')
		writePoint(&b, s.Ctrl2)
		b.WriteByte(' ')
		writePoint(&b, s.End)
	}
	if p.Closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func writePoint(b *strings.Builder, pt gg.Point) {
	b.WriteString(formatNumber(pt.X))
	b.WriteByte(' ')
	b.WriteString(formatNumber(pt.Y))
}

func formatNumber(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func lineSegment(from, to gg.Point) Segment {
	return Segment{
		Ctrl1: from.Lerp(to, 1.0/3.0),
		Ctrl2: from.Lerp(to, 2.0/3.0),
		End:   to,
	}
}

func reflect(ctrl, about gg.Point) gg.Point {
	return gg.Pt(2*about.X-ctrl.X, 2*about.Y-ctrl.Y)
}

const samePointEpsilon = 1e-9

func samePoint(a, b gg.Point) bool {
	return math.Abs(a.X-b.X) <= samePointEpsilon && math.Abs(a.Y-b.Y) <= samePointEpsilon
}

// Normalize rewrites absolute commands as cubic segments. Lines get control
// points at thirds of the chord, quadratics are degree-elevated, arcs are
// split into pieces of at most 90 degrees and a close adds a line back to the
// subpath start unless the cursor is already there. A move after drawing has
// begun is folded into a straight segment so the result stays one contour.
func Normalize(cmds []Command) Path {
	var (
		path      Path
		cur, sub  gg.Point
		lastCubic gg.Point
		lastQuad  gg.Point
		prevOp    byte
		drawing   bool
	)

	emit := func(s Segment) {
		path.Segments = append(path.Segments, s)
		cur = s.End
		drawing = true
	}

	for _, c := range cmds {
		a := c.Args
		switch c.Op {
		case 'M':
			to := gg.Pt(a[0], a[1])
			if drawing {
				emit(lineSegment(cur, to))
			} else {
				path.Start = to
				cur = to
			}
			sub = to
		case 'L':
			emit(lineSegment(cur, gg.Pt(a[0], a[1])))
		case 'H':
			emit(lineSegment(cur, gg.Pt(a[0], cur.Y)))
		case 'V':
			emit(lineSegment(cur, gg.Pt(cur.X, a[0])))
		case 'C':
			lastCubic = gg.Pt(a[2], a[3])
			emit(Segment{Ctrl1: gg.Pt(a[0], a[1]), Ctrl2: lastCubic, End: gg.Pt(a[4], a[5])})
		case 'S':
			c1 := cur
			if prevOp == 'C' || prevOp == 'S' {
				c1 = reflect(lastCubic, cur)
			}
			lastCubic = gg.Pt(a[0], a[1])
			emit(Segment{Ctrl1: c1, Ctrl2: lastCubic, End: gg.Pt(a[2], a[3])})
		case 'Q':
			lastQuad = gg.Pt(a[0], a[1])
			emit(quadSegment(cur, lastQuad, gg.Pt(a[2], a[3])))
		case 'T':
			q := cur
			if prevOp == 'Q' || prevOp == 'T' {
				q = reflect(lastQuad, cur)
			}
			lastQuad = q
			emit(quadSegment(cur, q, gg.Pt(a[0], a[1])))
		case 'A':
			for _, s := range arcSegments(cur, a[0], a[1], a[2], a[3] != 0, a[4] != 0, gg.Pt(a[5], a[6])) {
				emit(s)
			}
		case 'Z':
			if !samePoint(cur, sub) {
				emit(lineSegment(cur, sub))
			}
			cur = sub
			path.Closed = true
		}
		prevOp = c.Op
	}
	return path
}

func quadSegment(from, ctrl, to gg.Point) Segment {
	c := gg.NewQuadBez(from, ctrl, to).Raise()
	return Segment{Ctrl1: c.P1, Ctrl2: c.P2, End: c.P3}
}

// arcSegments converts an endpoint-parameterized elliptical arc to cubic
// segments spanning at most 90 degrees each.
func arcSegments(from gg.Point, rx, ry, rotation float64, large, sweep bool, to gg.Point) []Segment {
	if samePoint(from, to) {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []Segment{lineSegment(from, to)}
	}

	phi := rotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx := (from.X - to.X) / 2
	dy := (from.Y - to.Y) / 2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	if lambda := (x1*x1)/(rx*rx) + (y1*y1)/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1*y1 - ry2*x1*x1
	den := rx2*y1*y1 + ry2*x1*x1
	coef := 0.0
	if den != 0 {
		coef = math.Sqrt(math.Max(0, num/den))
	}
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	cx := cosPhi*cx1 - sinPhi*cy1 + (from.X+to.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (from.Y+to.Y)/2

	theta := vectorAngle(1, 0, (x1-cx1)/rx, (y1-cy1)/ry)
	delta := vectorAngle((x1-cx1)/rx, (y1-cy1)/ry, (-x1-cx1)/rx, (-y1-cy1)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta)/(math.Pi/2) - 1e-9))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	mapPoint := func(ux, uy float64) gg.Point {
		return gg.Pt(
			cx+rx*ux*cosPhi-ry*uy*sinPhi,
			cy+rx*ux*sinPhi+ry*uy*cosPhi,
		)
	}

	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		a1 := theta + float64(i)*step
		a2 := a1 + step
		cos1, sin1 := math.Cos(a1), math.Sin(a1)
		cos2, sin2 := math.Cos(a2), math.Sin(a2)
		s := Segment{
			Ctrl1: mapPoint(cos1-k*sin1, sin1+k*cos1),
			Ctrl2: mapPoint(cos2+k*sin2, sin2-k*cos2),
			End:   mapPoint(cos2, sin2),
		}
		segs = append(segs, s)
	}
	segs[n-1].End = to
	return segs
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
