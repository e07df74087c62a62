package paint

import (
	"math"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// BlendColor mixes two hex colors channel-wise in RGB. Colors that are not
// hex are not interpolated: the result snaps to a below t=0.5 and to b from
// t=0.5 on.
func BlendColor(a, b string, t float64) string {
	return BlendColorEased(a, b, t, t)
}

// BlendColorEased is BlendColor with the snap decided by the normalized
// time progress while the channels mix by the eased fraction t.
func BlendColorEased(a, b string, progress, t float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	if errA != nil || errB != nil {
		if progress < 0.5 {
			return a
		}
		return b
	}
	return ca.BlendRgb(cb, t).Clamped().Hex()
}

// Uniform returns a gradient with the geometry and stop offsets of like whose
// every stop is color. It stands in for a solid color when blending against
// a gradient.
func Uniform(color string, like Gradient) Gradient {
	stops := make([]Stop, len(like.Stops))
	for i, s := range like.Stops {
		stops[i] = Stop{Offset: s.Offset, Color: color}
	}
	if len(stops) == 0 {
		stops = []Stop{{Offset: 0, Color: color}, {Offset: 1, Color: color}}
	}
	return Gradient{ID: like.ID, Geometry: copyGeometry(like.Geometry), Stops: stops}
}

// BlendGradients interpolates geometry and stops of two gradients. The
// result carries a freshly generated ID.
func BlendGradients(a, b Gradient, t float64) Gradient {
	sa, sb := equalizeStops(a.Stops, b.Stops)
	stops := make([]Stop, len(sa))
	for i := range sa {
		opacity := lerp(sa[i].Alpha(), sb[i].Alpha(), t)
		stops[i] = Stop{
			Offset:  lerp(sa[i].Offset, sb[i].Offset, t),
			Color:   BlendColor(sa[i].Color, sb[i].Color, t),
			Opacity: &opacity,
		}
	}
	return Gradient{
		ID:       uuid.NewString(),
		Geometry: blendGeometry(a.Geometry, b.Geometry, t),
		Stops:    stops,
	}
}

func blendGeometry(a, b Geometry, t float64) Geometry {
	switch ga := a.(type) {
	case Linear:
		if gb, ok := b.(Linear); ok {
			return blendLinear(ga, gb, t)
		}
	case Radial:
		if gb, ok := b.(Radial); ok {
			return blendRadial(ga, gb, t)
		}
	}
	// Different kinds do not cross-fade; the shape switches halfway.
	if t < 0.5 {
		return copyGeometry(a)
	}
	return copyGeometry(b)
}

// blendLinear interpolates in polar form around the gradient center so a
// half turn does not pass through a zero-length vector.
func blendLinear(a, b Linear, t float64) Linear {
	acx, acy := (a.X1+a.X2)/2, (a.Y1+a.Y2)/2
	bcx, bcy := (b.X1+b.X2)/2, (b.Y1+b.Y2)/2
	aHalf := math.Hypot(a.X2-a.X1, a.Y2-a.Y1) / 2
	bHalf := math.Hypot(b.X2-b.X1, b.Y2-b.Y1) / 2
	aAngle := math.Atan2(a.Y2-a.Y1, a.X2-a.X1)
	bAngle := math.Atan2(b.Y2-b.Y1, b.X2-b.X1)

	delta := math.Mod(bAngle-aAngle, 2*math.Pi)
	if delta > math.Pi {
		delta -= 2 * math.Pi
	} else if delta < -math.Pi {
		delta += 2 * math.Pi
	}

	cx, cy := lerp(acx, bcx, t), lerp(acy, bcy, t)
	half := lerp(aHalf, bHalf, t)
	angle := aAngle + delta*t
	dx, dy := half*math.Cos(angle), half*math.Sin(angle)
	return Linear{X1: cx - dx, Y1: cy - dy, X2: cx + dx, Y2: cy + dy}
}

func blendRadial(a, b Radial, t float64) Radial {
	afx, afy := a.Focus()
	bfx, bfy := b.Focus()
	out := Radial{
		CX: lerp(a.CX, b.CX, t),
		CY: lerp(a.CY, b.CY, t),
		R:  lerp(a.R, b.R, t),
	}
	if a.FX != nil || a.FY != nil || b.FX != nil || b.FY != nil {
		fx, fy := lerp(afx, bfx, t), lerp(afy, bfy, t)
		out.FX, out.FY = &fx, &fy
	}
	return out
}

// equalizeStops returns stop lists of equal length. Lists that already match
// are paired as they are; otherwise both are resampled at evenly spaced
// offsets.
func equalizeStops(a, b []Stop) ([]Stop, []Stop) {
	if len(a) == len(b) && len(a) > 0 {
		return a, b
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n < 2 {
		n = 2
	}
	return resample(a, n), resample(b, n)
}

func resample(stops []Stop, n int) []Stop {
	out := make([]Stop, n)
	for i := range out {
		offset := float64(i) / float64(n-1)
		out[i] = sampleAt(stops, offset)
	}
	return out
}

// sampleAt reconstructs the ramp color and opacity at offset from the two
// stops bracketing it.
func sampleAt(stops []Stop, offset float64) Stop {
	switch {
	case len(stops) == 0:
		return Stop{Offset: offset, Color: "#000000"}
	case offset <= stops[0].Offset:
		return withOffset(stops[0], offset)
	case offset >= stops[len(stops)-1].Offset:
		return withOffset(stops[len(stops)-1], offset)
	}

	for i := 0; i < len(stops)-1; i++ {
		lo, hi := stops[i], stops[i+1]
		if offset < lo.Offset || offset > hi.Offset {
			continue
		}
		span := hi.Offset - lo.Offset
		f := 0.0
		if span > 0 {
			f = (offset - lo.Offset) / span
		}
		opacity := lerp(lo.Alpha(), hi.Alpha(), f)
		return Stop{Offset: offset, Color: BlendColor(lo.Color, hi.Color, f), Opacity: &opacity}
	}
	return withOffset(stops[len(stops)-1], offset)
}

func withOffset(s Stop, offset float64) Stop {
	opacity := s.Alpha()
	return Stop{Offset: offset, Color: s.Color, Opacity: &opacity}
}
