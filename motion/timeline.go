package motion

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Timeline is the time-ordered keyframe record of one actor. It cannot be
// changed once built; sequencing and staggering produce new timelines.
type Timeline struct {
	id        string
	actorID   string
	keyframes []Keyframe
	duration  float64
}

// BuildTimeline sorts keyframes by time and back-fills the first keyframe's
// position, scale, rotation and opacity from the actor so every transform
// property has a value at t=0. Values set on the first keyframe are kept.
func BuildTimeline(actor Actor, keyframes []Keyframe) (*Timeline, error) {
	if len(keyframes) == 0 {
		return nil, fmt.Errorf("%w: actor %q", ErrEmptyTimeline, actor.ID)
	}

	kfs := cloneKeyframes(keyframes)
	sort.SliceStable(kfs, func(i, j int) bool { return kfs[i].At < kfs[j].At })

	first := &kfs[0]
	if first.Position == nil {
		first.Position = Ptr(actor.Position)
	}
	if first.Scale == nil {
		first.Scale = Ptr(actor.Scale)
	}
	if first.Rotation == nil {
		first.Rotation = Ptr(actor.Rotation)
	}
	if first.Opacity == nil {
		first.Opacity = Ptr(actor.Opacity)
	}

	tl := new(Timeline)
	tl.id = uuid.NewString()
	tl.actorID = actor.ID
	tl.keyframes = kfs
	tl.duration = kfs[len(kfs)-1].At
	return tl, nil
}

// ID returns the unique timeline identifier.
func (t *Timeline) ID() string { return t.id }

// ActorID returns the actor this timeline animates.
func (t *Timeline) ActorID() string { return t.actorID }

// Duration returns the time of the last keyframe in milliseconds.
func (t *Timeline) Duration() float64 { return t.duration }

// Len returns the number of keyframes.
func (t *Timeline) Len() int { return len(t.keyframes) }

// Keyframes returns a copy of the sorted keyframes.
func (t *Timeline) Keyframes() []Keyframe {
	return cloneKeyframes(t.keyframes)
}

func shifted(kfs []Keyframe, offset float64) []Keyframe {
	out := cloneKeyframes(kfs)
	for i := range out {
		out[i].At += offset
	}
	return out
}

// SequenceItem places a timeline inside a sequence. Without an Offset the
// item starts where the previous one ended. Delay is added to whichever
// start applies.
type SequenceItem struct {
	Timeline *Timeline
	Offset   *float64
	Delay    float64
}

// Sequence concatenates the keyframes of several timelines into one new
// timeline for actor.
func Sequence(actor Actor, items []SequenceItem) (*Timeline, error) {
	var (
		cursor float64
		all    []Keyframe
	)
	for i, item := range items {
		if item.Timeline == nil {
			return nil, fmt.Errorf("motion: sequence item %d has no timeline", i)
		}
		start := cursor
		if item.Offset != nil {
			start = *item.Offset
		}
		start += item.Delay
		all = append(all, shifted(item.Timeline.keyframes, start)...)
		cursor = start + item.Timeline.duration
	}
	return BuildTimeline(actor, all)
}

// StaggerFrom selects the order in which staggered actors start.
type StaggerFrom int

const (
	StaggerFromStart  StaggerFrom = iota // first actor starts first
	StaggerFromEnd                       // last actor starts first
	StaggerFromCenter                    // middle actors start first
	StaggerFromEdges                     // outermost actors start first
)

// ParseStaggerFrom reads "start", "end", "center" or "edges".
func ParseStaggerFrom(s string) (StaggerFrom, error) {
	switch s {
	case "", "start":
		return StaggerFromStart, nil
	case "end":
		return StaggerFromEnd, nil
	case "center":
		return StaggerFromCenter, nil
	case "edges":
		return StaggerFromEdges, nil
	}
	return 0, fmt.Errorf("motion: unknown stagger origin %q", s)
}

func (f StaggerFrom) multiplier(i, n int) float64 {
	mid := float64(n-1) / 2
	switch f {
	case StaggerFromEnd:
		return float64(n - 1 - i)
	case StaggerFromCenter:
		return math.Abs(float64(i) - mid)
	case StaggerFromEdges:
		return mid - math.Abs(float64(i)-mid)
	default:
		return float64(i)
	}
}

// Stagger builds one timeline per actor from a shared keyframe template,
// delaying each actor by step times its position in the chosen order.
func Stagger(actors []Actor, template []Keyframe, step float64, from StaggerFrom) ([]*Timeline, error) {
	if len(template) == 0 {
		return nil, ErrEmptyTimeline
	}
	out := make([]*Timeline, 0, len(actors))
	for i, actor := range actors {
		tl, err := BuildTimeline(actor, shifted(template, step*from.multiplier(i, len(actors))))
		if err != nil {
			return nil, err
		}
		out = append(out, tl)
	}
	return out, nil
}
