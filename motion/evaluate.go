package motion

import (
	"math"
	"sort"

	"github.com/matt-g-everett/motiontx/easing"
	"github.com/matt-g-everett/motiontx/morph"
	"github.com/matt-g-everett/motiontx/paint"
)

// BeforeInterpolate may rewrite the keyframes about to be evaluated.
type BeforeInterpolate func(keyframes []Keyframe, timeMs float64) []Keyframe

// AfterInterpolate may rewrite a computed state.
type AfterInterpolate func(state ActorState, actorID string, timeMs float64) ActorState

// Hooks are optional extension callbacks. Hooks of the same kind chain in
// order, each receiving the previous one's output.
type Hooks struct {
	Before []BeforeInterpolate
	After  []AfterInterpolate
}

// Options configure an evaluation.
type Options struct {
	// Gradients resolves url(#id) references in fill and stroke values.
	Gradients map[string]paint.Gradient
	// ActorID is passed to AfterInterpolate hooks. Evaluate fills it from the
	// timeline when empty.
	ActorID string
	// Easing resolves keyframe curves; nil uses easing.Default().
	Easing *easing.Resolver
	Hooks  Hooks
}

// Default transform values used when no keyframe defines the property.
var (
	DefaultPosition = Point{}
	DefaultScale    = UniformScale(1)
)

const (
	DefaultRotation = 0.0
	DefaultOpacity  = 1.0
)

// Evaluate computes the actor state of tl at timeMs. It is a pure function
// of its arguments.
func Evaluate(tl *Timeline, timeMs float64, opts Options) ActorState {
	if opts.ActorID == "" {
		opts.ActorID = tl.actorID
	}
	return EvaluateKeyframes(tl.keyframes, timeMs, opts)
}

// EvaluateKeyframes computes the actor state for time-sorted keyframes.
// Every property is resolved on its own: only keyframes that define a
// property bracket it, and a property no keyframe defines keeps its default
// (or stays nil).
func EvaluateKeyframes(keyframes []Keyframe, timeMs float64, opts Options) ActorState {
	if len(opts.Hooks.Before) > 0 {
		keyframes = cloneKeyframes(keyframes)
		for _, hook := range opts.Hooks.Before {
			keyframes = hook(keyframes, timeMs)
		}
		if !sort.SliceIsSorted(keyframes, func(i, j int) bool { return keyframes[i].At < keyframes[j].At }) {
			sort.SliceStable(keyframes, func(i, j int) bool { return keyframes[i].At < keyframes[j].At })
		}
	}

	e := evaluator{kfs: keyframes, at: timeMs, gradients: opts.Gradients, ease: opts.Easing}
	if e.ease == nil {
		e.ease = easing.Default()
	}

	state := ActorState{
		Position: DefaultPosition,
		Scale:    DefaultScale,
		Rotation: DefaultRotation,
		Opacity:  DefaultOpacity,
	}

	if s := e.span(func(k *Keyframe) bool { return k.Position != nil }); s.defined() {
		a, b := e.endpoints(s)
		state.Position = a.Position.Lerp(*b.Position, e.progress(s))
	}
	if s := e.span(func(k *Keyframe) bool { return k.Scale != nil }); s.defined() {
		a, b := e.endpoints(s)
		state.Scale = a.Scale.Lerp(*b.Scale, e.progress(s))
	}
	if v, ok := e.number(func(k *Keyframe) *float64 { return k.Rotation }); ok {
		state.Rotation = v
	}
	if v, ok := e.number(func(k *Keyframe) *float64 { return k.Opacity }); ok {
		state.Opacity = v
	}

	state.StrokeWidth = e.optionalNumber(func(k *Keyframe) *float64 { return k.StrokeWidth })
	state.BlurRadius = e.optionalNumber(func(k *Keyframe) *float64 { return k.BlurRadius })
	state.BackdropBlur = e.optionalNumber(func(k *Keyframe) *float64 { return k.BackdropBlur })
	state.Width = e.optionalNumber(func(k *Keyframe) *float64 { return k.Width })
	state.Height = e.optionalNumber(func(k *Keyframe) *float64 { return k.Height })

	state.Fill, state.FillGradient = e.paint(func(k *Keyframe) *string { return k.Fill })
	state.Stroke, state.StrokeGradient = e.paint(func(k *Keyframe) *string { return k.Stroke })

	if s := e.span(func(k *Keyframe) bool { return k.StrokeAlign != nil }); s.defined() {
		k := s.prev
		if k < 0 {
			k = s.next
		}
		state.StrokeAlign = Ptr(*e.kfs[k].StrokeAlign)
	}

	if s := e.span(func(k *Keyframe) bool { return k.PathOutline != nil }); s.defined() {
		a, b := e.endpoints(s)
		state.PathOutline = Ptr(morph.BlendEased(*a.PathOutline, *b.PathOutline, e.fraction(s), e.progress(s)))
	}

	for _, hook := range opts.Hooks.After {
		state = hook(state, opts.ActorID, timeMs)
	}
	return state
}

// span is the bracket of one property around the query time: the closest
// defining keyframe at or before it and the closest strictly after it.
// Missing sides are -1.
type span struct {
	prev, next int
}

func (s span) defined() bool {
	return s.prev >= 0 || s.next >= 0
}

type evaluator struct {
	kfs       []Keyframe
	at        float64
	gradients map[string]paint.Gradient
	ease      *easing.Resolver
}

func (e *evaluator) span(has func(*Keyframe) bool) span {
	s := span{prev: -1, next: -1}
	for i := range e.kfs {
		if !has(&e.kfs[i]) {
			continue
		}
		if e.kfs[i].At <= e.at {
			s.prev = i
			continue
		}
		s.next = i
		break
	}
	return s
}

// endpoints returns the keyframes to interpolate between. A one-sided span
// holds: both endpoints are the same keyframe.
func (e *evaluator) endpoints(s span) (*Keyframe, *Keyframe) {
	switch {
	case s.prev < 0:
		return &e.kfs[s.next], &e.kfs[s.next]
	case s.next < 0:
		return &e.kfs[s.prev], &e.kfs[s.prev]
	}
	return &e.kfs[s.prev], &e.kfs[s.next]
}

// fraction returns the normalized query time inside s, before easing.
// One-sided spans return 0.
func (e *evaluator) fraction(s span) float64 {
	if s.prev < 0 || s.next < 0 {
		return 0
	}
	a, b := &e.kfs[s.prev], &e.kfs[s.next]
	t := 1.0
	if d := b.At - a.At; d > 0 {
		t = (e.at - a.At) / d
	}
	return math.Min(math.Max(t, 0), 1)
}

// progress returns the eased position of the query time inside s, using
// the curve of the keyframe being approached. One-sided spans return 0.
func (e *evaluator) progress(s span) float64 {
	if s.prev < 0 || s.next < 0 {
		return 0
	}
	return e.ease.Resolve(e.kfs[s.next].Curve)(e.fraction(s))
}

func (e *evaluator) number(field func(*Keyframe) *float64) (float64, bool) {
	s := e.span(func(k *Keyframe) bool { return field(k) != nil })
	if !s.defined() {
		return 0, false
	}
	a, b := e.endpoints(s)
	return lerp(*field(a), *field(b), e.progress(s)), true
}

func (e *evaluator) optionalNumber(field func(*Keyframe) *float64) *float64 {
	v, ok := e.number(field)
	if !ok {
		return nil
	}
	return Ptr(v)
}

// gradient looks up the gradient a paint value references.
func (e *evaluator) gradient(value string) (paint.Gradient, bool) {
	id, ok := paint.ParseRef(value)
	if !ok {
		return paint.Gradient{}, false
	}
	g, ok := e.gradients[id]
	return g, ok
}

// paint resolves a fill or stroke property. Colors blend in RGB, gradients
// blend geometry and stops, and a color meeting a gradient is first turned
// into a uniform gradient of the same shape. A reference to an unknown
// gradient is passed through as it is.
func (e *evaluator) paint(field func(*Keyframe) *string) (*string, *paint.Gradient) {
	s := e.span(func(k *Keyframe) bool { return field(k) != nil })
	if !s.defined() {
		return nil, nil
	}

	a, b := e.endpoints(s)
	va, vb := *field(a), *field(b)
	ga, okA := e.gradient(va)
	if a == b {
		if okA {
			g := ga.Clone()
			return Ptr(va), &g
		}
		return Ptr(va), nil
	}

	gb, okB := e.gradient(vb)
	t := e.progress(s)

	var g paint.Gradient
	switch {
	case okA && okB:
		g = paint.BlendGradients(ga, gb, t)
	case okA:
		g = paint.BlendGradients(ga, paint.Uniform(vb, ga), t)
	case okB:
		g = paint.BlendGradients(paint.Uniform(va, gb), gb, t)
	default:
		return Ptr(paint.BlendColorEased(va, vb, e.fraction(s), t)), nil
	}
	return Ptr(paint.Ref(g.ID)), &g
}
