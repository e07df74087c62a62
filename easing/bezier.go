package easing

import "math"

const (
	newtonIterations = 8
	newtonEpsilon    = 1e-7
	slopeEpsilon     = 1e-6
	bisectIterations = 64
)

// Bezier returns the timing function of a cubic Bézier running from (0, 0)
// to (1, 1) through control points (x1, y1) and (x2, y2). x1 and x2 are
// clamped into [0, 1] so that x(t) stays monotonic.
func Bezier(x1, y1, x2, y2 float64) Func {
	x1 = math.Min(math.Max(x1, 0), 1)
	x2 = math.Min(math.Max(x2, 0), 1)
	if x1 == y1 && x2 == y2 {
		return Linear
	}

	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(t float64) float64 { return ((ax*t+bx)*t + cx) * t }
	sampleY := func(t float64) float64 { return ((ay*t+by)*t + cy) * t }
	slopeX := func(t float64) float64 { return (3*ax*t+2*bx)*t + cx }

	solve := func(x float64) float64 {
		t := x
		for i := 0; i < newtonIterations; i++ {
			err := sampleX(t) - x
			if math.Abs(err) < newtonEpsilon {
				return t
			}
			d := slopeX(t)
			if math.Abs(d) < slopeEpsilon {
				break
			}
			t -= err / d
		}

		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < bisectIterations; i++ {
			v := sampleX(t)
			if math.Abs(v-x) < newtonEpsilon {
				return t
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return t
	}

	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}
		return sampleY(solve(x))
	}
}
