package morph

// approxLength estimates the length of segment i as the mean of its chord
// and its control polygon.
func (p Path) approxLength(i int) float64 {
	c := p.Cubic(i)
	chord := c.P0.Distance(c.P3)
	polygon := c.P0.Distance(c.P1) + c.P1.Distance(c.P2) + c.P2.Distance(c.P3)
	return (chord + polygon) / 2
}

// subdivideLongest splits the longest segment at t=0.5. p must own its
// segment storage.
func (p *Path) subdivideLongest() {
	if len(p.Segments) == 0 {
		p.Segments = append(p.Segments, Segment{Ctrl1: p.Start, Ctrl2: p.Start, End: p.Start})
		return
	}

	longest, best := 0, -1.0
	for i := range p.Segments {
		if l := p.approxLength(i); l > best {
			longest, best = i, l
		}
	}

	left, right := p.Cubic(longest).Subdivide()
	segs := make([]Segment, 0, len(p.Segments)+1)
	segs = append(segs, p.Segments[:longest]...)
	segs = append(segs,
		Segment{Ctrl1: left.P1, Ctrl2: left.P2, End: left.P3},
		Segment{Ctrl1: right.P1, Ctrl2: right.P2, End: p.Segments[longest].End},
	)
	segs = append(segs, p.Segments[longest+1:]...)
	p.Segments = segs
}

// Balance returns copies of a and b with equal segment counts. The path with
// fewer segments has its longest segment halved until the counts match.
// Segments are never removed and the geometry is unchanged.
func Balance(a, b Path) (Path, Path) {
	a, b = a.Clone(), b.Clone()
	for len(a.Segments) < len(b.Segments) {
		a.subdivideLongest()
	}
	for len(b.Segments) < len(a.Segments) {
		b.subdivideLongest()
	}
	return a, b
}

// Lerp interpolates the start point and every control point of two paths
// with equal segment counts. The result is closed only when both are.
func Lerp(a, b Path, t float64) Path {
	out := Path{
		Start:    a.Start.Lerp(b.Start, t),
		Segments: make([]Segment, len(a.Segments)),
		Closed:   a.Closed && b.Closed,
	}
	for i := range a.Segments {
		sa, sb := a.Segments[i], b.Segments[i]
		out.Segments[i] = Segment{
			Ctrl1: sa.Ctrl1.Lerp(sb.Ctrl1, t),
			Ctrl2: sa.Ctrl2.Lerp(sb.Ctrl2, t),
			End:   sa.End.Lerp(sb.End, t),
		}
	}
	return out
}

// ParsePath parses and normalizes an outline.
func ParsePath(outline string) (Path, error) {
	cmds, err := Parse(outline)
	if err != nil {
		return Path{}, err
	}
	return Normalize(cmds), nil
}

// Blend returns the outline a fraction t of the way from a to b. At t <= 0
// and t >= 1 the inputs are returned verbatim. Outlines that fail to parse
// are not morphed: the result snaps to a below 0.5 and to b from 0.5 on.
func Blend(a, b string, t float64) string {
	return BlendEased(a, b, t, t)
}

// BlendEased is Blend with two positions. The normalized time progress
// picks the verbatim ends and the snap of unparseable outlines; the eased
// fraction t moves the control points.
func BlendEased(a, b string, progress, t float64) string {
	if progress <= 0 {
		return a
	}
	if progress >= 1 {
		return b
	}

	pa, errA := ParsePath(a)
	pb, errB := ParsePath(b)
	if errA != nil || errB != nil {
		if progress < 0.5 {
			return a
		}
		return b
	}

	pa, pb = Balance(pa, pb)
	return Lerp(pa, pb, t).String()
}
