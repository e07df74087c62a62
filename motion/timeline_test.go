package motion

import (
	"errors"
	"testing"
)

func TestBuildTimelineSortsAndBackFills(t *testing.T) {
	actor := DefaultActor("box")
	actor.Position = Point{5, 6}
	actor.Rotation = 45

	tl, err := BuildTimeline(actor, []Keyframe{
		{At: 300, Opacity: Ptr(0.0)},
		{At: 0, Rotation: Ptr(10.0)},
		{At: 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	if tl.Duration() != 300 || tl.Len() != 3 || tl.ActorID() != "box" || tl.ID() == "" {
		t.Fatalf("timeline = %s/%s duration %v len %d", tl.ID(), tl.ActorID(), tl.Duration(), tl.Len())
	}

	kfs := tl.Keyframes()
	for i, want := range []float64{0, 100, 300} {
		if kfs[i].At != want {
			t.Errorf("keyframe %d at %v, want %v", i, kfs[i].At, want)
		}
	}
	first := kfs[0]
	if *first.Position != actor.Position || *first.Scale != actor.Scale || *first.Opacity != 1 {
		t.Errorf("first keyframe not back-filled: %+v", first)
	}
	if *first.Rotation != 10 {
		t.Errorf("explicit rotation overwritten: %v", *first.Rotation)
	}
}

func TestTimelineIsImmutable(t *testing.T) {
	src := []Keyframe{{At: 0, Opacity: Ptr(1.0)}, {At: 100, Opacity: Ptr(0.0)}}
	tl, err := BuildTimeline(DefaultActor("a"), src)
	if err != nil {
		t.Fatal(err)
	}
	*src[1].Opacity = 0.8
	src[1].At = 50
	kfs := tl.Keyframes()
	*kfs[1].Opacity = 0.3

	if got := Evaluate(tl, 50, Options{}).Opacity; !approx(got, 0.5) {
		t.Errorf("opacity = %f, timeline was changed from outside", got)
	}
}

func TestTimelineIDsAreUnique(t *testing.T) {
	a, _ := BuildTimeline(DefaultActor("a"), []Keyframe{{At: 0}})
	b, _ := BuildTimeline(DefaultActor("a"), []Keyframe{{At: 0}})
	if a.ID() == b.ID() {
		t.Error("timelines share an id")
	}
}

func TestSequence(t *testing.T) {
	actor := DefaultActor("s")
	one, _ := BuildTimeline(actor, []Keyframe{{At: 0}, {At: 100, Opacity: Ptr(0.5)}})
	two, _ := BuildTimeline(actor, []Keyframe{{At: 0}, {At: 200, Opacity: Ptr(0.0)}})

	tests := []struct {
		name     string
		items    []SequenceItem
		duration float64
		starts   []float64
	}{
		{"back to back", []SequenceItem{{Timeline: one}, {Timeline: two}}, 300, []float64{0, 100, 100, 300}},
		{"delay", []SequenceItem{{Timeline: one}, {Timeline: two, Delay: 50}}, 350, []float64{0, 100, 150, 350}},
		{"offset", []SequenceItem{{Timeline: one}, {Timeline: two, Offset: Ptr(20.0)}}, 220, []float64{0, 20, 100, 220}},
		{"offset and delay", []SequenceItem{{Timeline: one, Offset: Ptr(10.0), Delay: 5}}, 115, []float64{15, 115}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, err := Sequence(actor, tt.items)
			if err != nil {
				t.Fatal(err)
			}
			if tl.Duration() != tt.duration {
				t.Errorf("duration = %v, want %v", tl.Duration(), tt.duration)
			}
			kfs := tl.Keyframes()
			if len(kfs) != len(tt.starts) {
				t.Fatalf("len = %d, want %d", len(kfs), len(tt.starts))
			}
			for i, want := range tt.starts {
				if kfs[i].At != want {
					t.Errorf("keyframe %d at %v, want %v", i, kfs[i].At, want)
				}
			}
		})
	}
}

func TestSequenceErrors(t *testing.T) {
	if _, err := Sequence(DefaultActor("s"), nil); !errors.Is(err, ErrEmptyTimeline) {
		t.Errorf("empty sequence err = %v", err)
	}
	if _, err := Sequence(DefaultActor("s"), []SequenceItem{{}}); err == nil {
		t.Error("expected error for missing timeline")
	}
}

func TestStagger(t *testing.T) {
	actors := make([]Actor, 5)
	for i := range actors {
		actors[i] = DefaultActor(string(rune('a' + i)))
	}
	template := []Keyframe{{At: 0}, {At: 100, Opacity: Ptr(0.0)}}

	tests := []struct {
		from StaggerFrom
		want []float64
	}{
		{StaggerFromStart, []float64{0, 10, 20, 30, 40}},
		{StaggerFromEnd, []float64{40, 30, 20, 10, 0}},
		{StaggerFromCenter, []float64{20, 10, 0, 10, 20}},
		{StaggerFromEdges, []float64{0, 10, 20, 10, 0}},
	}
	for _, tt := range tests {
		tls, err := Stagger(actors, template, 10, tt.from)
		if err != nil {
			t.Fatal(err)
		}
		for i, tl := range tls {
			if tl.ActorID() != actors[i].ID {
				t.Errorf("from %d: timeline %d animates %q", tt.from, i, tl.ActorID())
			}
			if got := tl.Keyframes()[0].At; got != tt.want[i] {
				t.Errorf("from %d: actor %d starts at %v, want %v", tt.from, i, got, tt.want[i])
			}
		}
	}
}

func TestParseStaggerFrom(t *testing.T) {
	for in, want := range map[string]StaggerFrom{
		"": StaggerFromStart, "start": StaggerFromStart, "end": StaggerFromEnd,
		"center": StaggerFromCenter, "edges": StaggerFromEdges,
	} {
		if got, err := ParseStaggerFrom(in); err != nil || got != want {
			t.Errorf("ParseStaggerFrom(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseStaggerFrom("middle"); err == nil {
		t.Error("expected error")
	}
}

func TestNewActor(t *testing.T) {
	if _, err := NewActor("x", nil); !errors.Is(err, ErrNoOutlines) {
		t.Errorf("err = %v, want ErrNoOutlines", err)
	}
	a, err := NewActor("x", []string{"M0 0 L1 1"})
	if err != nil || a.Opacity != 1 || a.Scale != UniformScale(1) || len(a.Outlines) != 1 {
		t.Errorf("actor = %+v, %v", a, err)
	}
}
