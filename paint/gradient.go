// Package paint blends solid colors and gradients.
package paint

import (
	"sort"
	"strings"
)

// Geometry is the shape of a gradient: Linear or Radial.
type Geometry interface {
	isGeometry()
}

// Linear runs from (X1, Y1) to (X2, Y2).
type Linear struct {
	X1, Y1, X2, Y2 float64
}

func (Linear) isGeometry() {}

// Radial is centered on (CX, CY) with radius R. The focal point defaults to
// the center when FX or FY is nil.
type Radial struct {
	CX, CY, R float64
	FX, FY    *float64
}

func (Radial) isGeometry() {}

// Focus returns the focal point, falling back to the center.
func (r Radial) Focus() (float64, float64) {
	fx, fy := r.CX, r.CY
	if r.FX != nil {
		fx = *r.FX
	}
	if r.FY != nil {
		fy = *r.FY
	}
	return fx, fy
}

// Stop is a color along a gradient ramp. Opacity defaults to 1 when nil.
type Stop struct {
	Offset  float64
	Color   string
	Opacity *float64
}

// Alpha returns the stop opacity.
func (s Stop) Alpha() float64 {
	if s.Opacity == nil {
		return 1
	}
	return *s.Opacity
}

// Gradient is a gradient definition referenced by ID from fill and stroke
// values.
type Gradient struct {
	ID       string
	Geometry Geometry
	Stops    []Stop
}

// NewGradient returns a gradient with a private copy of stops sorted by offset.
func NewGradient(id string, geometry Geometry, stops []Stop) Gradient {
	g := Gradient{ID: id, Geometry: copyGeometry(geometry), Stops: copyStops(stops)}
	sort.SliceStable(g.Stops, func(i, j int) bool { return g.Stops[i].Offset < g.Stops[j].Offset })
	return g
}

// Clone returns a deep copy of g.
func (g Gradient) Clone() Gradient {
	return Gradient{ID: g.ID, Geometry: copyGeometry(g.Geometry), Stops: copyStops(g.Stops)}
}

func copyStops(stops []Stop) []Stop {
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = s
		if s.Opacity != nil {
			v := *s.Opacity
			out[i].Opacity = &v
		}
	}
	return out
}

func copyGeometry(g Geometry) Geometry {
	switch g := g.(type) {
	case Radial:
		if g.FX != nil {
			v := *g.FX
			g.FX = &v
		}
		if g.FY != nil {
			v := *g.FY
			g.FY = &v
		}
		return g
	case Linear:
		return g
	case nil:
		return nil
	default:
		panic("paint: unknown gradient geometry")
	}
}

// Ref returns the paint value that references gradient id.
func Ref(id string) string {
	return "url(#" + id + ")"
}

// ParseRef extracts the gradient id from a "url(#id)" paint value.
func ParseRef(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	id := strings.TrimSpace(v[len("url(") : len(v)-1])
	id = strings.Trim(id, `"'`)
	id = strings.TrimPrefix(id, "#")
	if id == "" {
		return "", false
	}
	return id, true
}
