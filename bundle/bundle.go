// Package bundle decodes actors, gradients, timelines and triggers from a
// YAML or JSON document.
package bundle

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matt-g-everett/motiontx/easing"
	"github.com/matt-g-everett/motiontx/motion"
	"github.com/matt-g-everett/motiontx/paint"
	"github.com/matt-g-everett/motiontx/trigger"
)

// ErrUnknownActor is returned when a timeline names an actor the bundle
// does not define.
var ErrUnknownActor = errors.New("bundle: unknown actor")

// Trigger is a binding together with the index of its timeline.
type Trigger struct {
	TimelineIndex int
	Binding       trigger.Binding
}

// Bundle is a decoded document.
type Bundle struct {
	Actors    []motion.Actor
	Gradients map[string]paint.Gradient
	Timelines []*motion.Timeline
	Triggers  []Trigger
}

// Actor returns the actor with the given id.
func (b *Bundle) Actor(id string) (motion.Actor, bool) {
	for _, a := range b.Actors {
		if a.ID == id {
			return a, true
		}
	}
	return motion.Actor{}, false
}

// MotionOptions returns evaluation options that resolve the bundle's
// gradients.
func (b *Bundle) MotionOptions() motion.Options {
	return motion.Options{Gradients: b.Gradients}
}

// TriggerFor returns the first trigger bound to timeline i.
func (b *Bundle) TriggerFor(i int) (trigger.Binding, bool) {
	for _, t := range b.Triggers {
		if t.TimelineIndex == i {
			return t.Binding, true
		}
	}
	return trigger.Binding{}, false
}

type document struct {
	Actors    []actorDoc    `yaml:"actors"`
	Gradients []gradientDoc `yaml:"gradients"`
	Timelines []timelineDoc `yaml:"timelines"`
	Triggers  []triggerDoc  `yaml:"triggers"`
}

type actorDoc struct {
	ID       string        `yaml:"id"`
	Outlines []string      `yaml:"outlines"`
	Position *motion.Point `yaml:"position"`
	Scale    *scaleValue   `yaml:"scale"`
	Rotation *float64      `yaml:"rotation"`
	Opacity  *float64      `yaml:"opacity"`
}

type stopDoc struct {
	Offset  float64  `yaml:"offset"`
	Color   string   `yaml:"color"`
	Opacity *float64 `yaml:"opacity"`
}

type gradientDoc struct {
	ID    string    `yaml:"id"`
	Type  string    `yaml:"type"`
	X1    float64   `yaml:"x1"`
	Y1    float64   `yaml:"y1"`
	X2    float64   `yaml:"x2"`
	Y2    float64   `yaml:"y2"`
	CX    float64   `yaml:"cx"`
	CY    float64   `yaml:"cy"`
	R     float64   `yaml:"r"`
	FX    *float64  `yaml:"fx"`
	FY    *float64  `yaml:"fy"`
	Stops []stopDoc `yaml:"stops"`
}

type keyframeDoc struct {
	At           float64       `yaml:"at"`
	Position     *motion.Point `yaml:"position"`
	Scale        *scaleValue   `yaml:"scale"`
	Rotation     *float64      `yaml:"rotation"`
	Opacity      *float64      `yaml:"opacity"`
	Fill         *string       `yaml:"fill"`
	Stroke       *string       `yaml:"stroke"`
	StrokeWidth  *float64      `yaml:"strokeWidth"`
	StrokeAlign  *string       `yaml:"strokeAlign"`
	BlurRadius   *float64      `yaml:"blurRadius"`
	BackdropBlur *float64      `yaml:"backdropBlur"`
	Width        *float64      `yaml:"width"`
	Height       *float64      `yaml:"height"`
	PathOutline  *string       `yaml:"pathOutline"`
	Curve        *curveValue   `yaml:"curve"`
}

type timelineDoc struct {
	ActorID   string        `yaml:"actorId"`
	Keyframes []keyframeDoc `yaml:"keyframes"`
}

type triggerDoc struct {
	TimelineIndex int      `yaml:"timelineIndex"`
	Type          string   `yaml:"type"`
	Target        string   `yaml:"target"`
	Reverse       bool     `yaml:"reverse"`
	Toggle        bool     `yaml:"toggle"`
	Iterations    *count   `yaml:"iterations"`
	Direction     string   `yaml:"direction"`
	Delay         float64  `yaml:"delay"`
	Start         *float64 `yaml:"start"`
	End           *float64 `yaml:"end"`
	Threshold     *float64 `yaml:"threshold"`
	Once          bool     `yaml:"once"`
}

// LoadFile decodes the bundle stored at path.
func LoadFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a bundle. Unknown fields are rejected.
func Load(r io.Reader) (*Bundle, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("bundle: %w", err)
	}

	b := new(Bundle)
	for i, ad := range doc.Actors {
		a, err := ad.actor()
		if err != nil {
			return nil, fmt.Errorf("bundle: actor %d: %w", i, err)
		}
		b.Actors = append(b.Actors, a)
	}

	b.Gradients = make(map[string]paint.Gradient, len(doc.Gradients))
	for i, gd := range doc.Gradients {
		g, err := gd.gradient()
		if err != nil {
			return nil, fmt.Errorf("bundle: gradient %d: %w", i, err)
		}
		b.Gradients[g.ID] = g
	}

	for i, td := range doc.Timelines {
		actor, ok := b.Actor(td.ActorID)
		if !ok {
			return nil, fmt.Errorf("bundle: timeline %d: %w %q", i, ErrUnknownActor, td.ActorID)
		}
		kfs := make([]motion.Keyframe, 0, len(td.Keyframes))
		for j, kd := range td.Keyframes {
			k, err := kd.keyframe()
			if err != nil {
				return nil, fmt.Errorf("bundle: timeline %d keyframe %d: %w", i, j, err)
			}
			kfs = append(kfs, k)
		}
		tl, err := motion.BuildTimeline(actor, kfs)
		if err != nil {
			return nil, fmt.Errorf("bundle: timeline %d: %w", i, err)
		}
		b.Timelines = append(b.Timelines, tl)
	}

	for i, td := range doc.Triggers {
		if td.TimelineIndex < 0 || td.TimelineIndex >= len(b.Timelines) {
			return nil, fmt.Errorf("bundle: trigger %d: timeline index %d out of range", i, td.TimelineIndex)
		}
		cfg, err := td.config()
		if err != nil {
			return nil, fmt.Errorf("bundle: trigger %d: %w", i, err)
		}
		binding, err := trigger.Bind(b.Timelines[td.TimelineIndex], cfg)
		if err != nil {
			return nil, fmt.Errorf("bundle: trigger %d: %w", i, err)
		}
		b.Triggers = append(b.Triggers, Trigger{TimelineIndex: td.TimelineIndex, Binding: binding})
	}
	return b, nil
}

func (d actorDoc) actor() (motion.Actor, error) {
	a, err := motion.NewActor(d.ID, d.Outlines)
	if err != nil {
		return a, err
	}
	if d.Position != nil {
		a.Position = *d.Position
	}
	if d.Scale != nil {
		a.Scale = motion.Scale(*d.Scale)
	}
	if d.Rotation != nil {
		a.Rotation = *d.Rotation
	}
	if d.Opacity != nil {
		a.Opacity = *d.Opacity
	}
	return a, nil
}

func (d gradientDoc) gradient() (paint.Gradient, error) {
	if d.ID == "" {
		return paint.Gradient{}, errors.New("gradient needs an id")
	}
	var geom paint.Geometry
	switch d.Type {
	case "linear":
		geom = paint.Linear{X1: d.X1, Y1: d.Y1, X2: d.X2, Y2: d.Y2}
	case "radial":
		geom = paint.Radial{CX: d.CX, CY: d.CY, R: d.R, FX: d.FX, FY: d.FY}
	default:
		return paint.Gradient{}, fmt.Errorf("unknown gradient type %q", d.Type)
	}
	stops := make([]paint.Stop, len(d.Stops))
	for i, s := range d.Stops {
		stops[i] = paint.Stop{Offset: s.Offset, Color: s.Color, Opacity: s.Opacity}
	}
	return paint.NewGradient(d.ID, geom, stops), nil
}

func (d keyframeDoc) keyframe() (motion.Keyframe, error) {
	k := motion.Keyframe{
		At:           d.At,
		Position:     d.Position,
		Rotation:     d.Rotation,
		Opacity:      d.Opacity,
		Fill:         d.Fill,
		Stroke:       d.Stroke,
		StrokeWidth:  d.StrokeWidth,
		BlurRadius:   d.BlurRadius,
		BackdropBlur: d.BackdropBlur,
		Width:        d.Width,
		Height:       d.Height,
		PathOutline:  d.PathOutline,
	}
	if d.Scale != nil {
		k.Scale = motion.Ptr(motion.Scale(*d.Scale))
	}
	if d.StrokeAlign != nil {
		a, err := parseStrokeAlign(*d.StrokeAlign)
		if err != nil {
			return k, err
		}
		k.StrokeAlign = &a
	}
	if d.Curve != nil {
		k.Curve = easing.Curve(*d.Curve)
	}
	return k, nil
}

func (d triggerDoc) config() (trigger.Config, error) {
	kind, err := trigger.ParseKind(d.Type)
	if err != nil {
		return nil, err
	}
	switch kind {
	case trigger.KindHover:
		return trigger.Hover{Target: d.Target, Reverse: d.Reverse}, nil
	case trigger.KindClick:
		return trigger.Click{Target: d.Target, Toggle: d.Toggle}, nil
	case trigger.KindLoop:
		dir, err := trigger.ParseLoopDirection(d.Direction)
		if err != nil {
			return nil, err
		}
		iterations := math.Inf(1)
		if d.Iterations != nil {
			iterations = float64(*d.Iterations)
		}
		return trigger.Loop{Target: d.Target, Iterations: iterations, Direction: dir, Delay: d.Delay}, nil
	case trigger.KindScroll:
		return trigger.Scroll{Target: d.Target, Start: orDefault(d.Start, 0), End: orDefault(d.End, 1)}, nil
	case trigger.KindAppear:
		return trigger.Appear{Target: d.Target, Threshold: orDefault(d.Threshold, defaultThreshold), Once: d.Once}, nil
	case trigger.KindManual:
		return trigger.Manual{}, nil
	}
	return nil, fmt.Errorf("%w: %v", trigger.ErrUnknownKind, kind)
}

// defaultThreshold is the visible ratio an appear trigger waits for when
// the document does not say.
const defaultThreshold = 0.5

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
