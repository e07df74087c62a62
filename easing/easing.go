// Package easing maps curve descriptors to progress functions.
//
// A resolved function maps normalized progress in [0, 1] to eased progress.
// Every function returned by a Resolver satisfies f(0) = 0 and f(1) = 1;
// back, elastic and bounce curves overshoot in between.
package easing

import (
	"fmt"
	"strconv"
	"strings"
)

// Func maps normalized progress to eased progress.
type Func func(t float64) float64

// Curve describes how a keyframe is approached. The zero value is linear.
type Curve struct {
	Name   string
	Bezier bool
	Points [4]float64
}

// Named returns a curve that resolves by name.
func Named(name string) Curve {
	return Curve{Name: name}
}

// CubicBezier returns a parametric curve with control points (x1, y1) and (x2, y2).
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return Curve{Bezier: true, Points: [4]float64{x1, y1, x2, y2}}
}

// IsZero reports whether c is the linear default.
func (c Curve) IsZero() bool {
	return c.Name == "" && !c.Bezier
}

func (c Curve) String() string {
	if c.Bezier {
		p := c.Points
		return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", p[0], p[1], p[2], p[3])
	}
	if c.Name == "" {
		return "linear"
	}
	return c.Name
}

// ParseCurve reads a curve name or a "cubic-bezier(x1, y1, x2, y2)" expression.
// Malformed bezier text is kept as a name, which later resolves to linear.
func ParseCurve(s string) Curve {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "cubic-bezier(") || !strings.HasSuffix(lower, ")") {
		return Named(s)
	}

	body := s[len("cubic-bezier(") : len(s)-1]
	parts := strings.Split(body, ",")
	if len(parts) != 4 {
		return Named(s)
	}

	var p [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Named(s)
		}
		p[i] = v
	}
	return CubicBezier(p[0], p[1], p[2], p[3])
}
