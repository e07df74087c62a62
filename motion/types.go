// Package motion holds keyframes, timelines and the interpolation engine
// that turns them into actor states.
package motion

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matt-g-everett/motiontx/easing"
	"github.com/matt-g-everett/motiontx/paint"
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: lerp(p.X, q.X, t), Y: lerp(p.Y, q.Y, t)}
}

// uniformEpsilon is how close X and Y must be for a scale to count as a scalar.
const uniformEpsilon = 1e-4

// Scale is a scalar or non-uniform scale factor.
type Scale struct {
	X, Y float64
}

// UniformScale returns the scale v on both axes.
func UniformScale(v float64) Scale {
	return Scale{X: v, Y: v}
}

// IsUniform reports whether the scale is a scalar.
func (s Scale) IsUniform() bool {
	return math.Abs(s.X-s.Y) <= uniformEpsilon
}

// Lerp interpolates between s and o per axis. A result whose axes agree
// collapses back to a scalar.
func (s Scale) Lerp(o Scale, t float64) Scale {
	out := Scale{X: lerp(s.X, o.X, t), Y: lerp(s.Y, o.Y, t)}
	if out.IsUniform() {
		out.Y = out.X
	}
	return out
}

// MarshalJSON writes a uniform scale as a number and any other as {x, y}.
func (s Scale) MarshalJSON() ([]byte, error) {
	if s.IsUniform() {
		return json.Marshal(s.X)
	}
	return json.Marshal(Point{X: s.X, Y: s.Y})
}

// UnmarshalJSON accepts a number or an {x, y} object.
func (s *Scale) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*s = UniformScale(v)
		return nil
	}
	var p Point
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("motion: scale must be a number or {x, y}: %w", err)
	}
	*s = Scale{X: p.X, Y: p.Y}
	return nil
}

// StrokeAlign places a stroke relative to the outline. It never interpolates.
type StrokeAlign string

const (
	StrokeInside  StrokeAlign = "inside"
	StrokeCenter  StrokeAlign = "center"
	StrokeOutside StrokeAlign = "outside"
)

// Keyframe holds target values at a point in time. Nil fields are not part
// of this keyframe; each property is tracked separately across the timeline.
// Curve is the easing used to arrive at this keyframe.
type Keyframe struct {
	At           float64
	Position     *Point
	Scale        *Scale
	Rotation     *float64
	Opacity      *float64
	Fill         *string
	Stroke       *string
	StrokeWidth  *float64
	StrokeAlign  *StrokeAlign
	BlurRadius   *float64
	BackdropBlur *float64
	Width        *float64
	Height       *float64
	PathOutline  *string
	Curve        easing.Curve
}

// Ptr returns a pointer to v. It keeps keyframe literals short.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a copy of k that shares no storage with it.
func (k Keyframe) Clone() Keyframe {
	out := k
	out.Position = clonePtr(k.Position)
	out.Scale = clonePtr(k.Scale)
	out.Rotation = clonePtr(k.Rotation)
	out.Opacity = clonePtr(k.Opacity)
	out.Fill = clonePtr(k.Fill)
	out.Stroke = clonePtr(k.Stroke)
	out.StrokeWidth = clonePtr(k.StrokeWidth)
	out.StrokeAlign = clonePtr(k.StrokeAlign)
	out.BlurRadius = clonePtr(k.BlurRadius)
	out.BackdropBlur = clonePtr(k.BackdropBlur)
	out.Width = clonePtr(k.Width)
	out.Height = clonePtr(k.Height)
	out.PathOutline = clonePtr(k.PathOutline)
	return out
}

func cloneKeyframes(kfs []Keyframe) []Keyframe {
	out := make([]Keyframe, len(kfs))
	for i, k := range kfs {
		out[i] = k.Clone()
	}
	return out
}

// ActorState is the resolved visual state of an actor at one instant. Each
// evaluation returns a fresh value owned by the caller.
type ActorState struct {
	Position       Point           `json:"position"`
	Scale          Scale           `json:"scale"`
	Rotation       float64         `json:"rotation"`
	Opacity        float64         `json:"opacity"`
	Fill           *string         `json:"fill,omitempty"`
	Stroke         *string         `json:"stroke,omitempty"`
	StrokeWidth    *float64        `json:"strokeWidth,omitempty"`
	StrokeAlign    *StrokeAlign    `json:"strokeAlign,omitempty"`
	BlurRadius     *float64        `json:"blurRadius,omitempty"`
	BackdropBlur   *float64        `json:"backdropBlur,omitempty"`
	Width          *float64        `json:"width,omitempty"`
	Height         *float64        `json:"height,omitempty"`
	FillGradient   *paint.Gradient `json:"fillGradient,omitempty"`
	StrokeGradient *paint.Gradient `json:"strokeGradient,omitempty"`
	PathOutline    *string         `json:"pathOutline,omitempty"`
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
