package playback

import (
	"testing"

	"github.com/matt-g-everett/motiontx/trigger"
)

func TestHoverSignals(t *testing.T) {
	c, s, _ := newController(t, trigger.Hover{Reverse: true})
	c.Dispatch(PointerEnter{})
	if c.State() != Playing || c.Direction() != Forward {
		t.Fatalf("enter: %v %v", c.State(), c.Direction())
	}
	s.step(frame, 5)
	c.Dispatch(PointerLeave{})
	if c.State() != Playing || c.Direction() != Backward || c.CurrentTime() != 400 {
		t.Errorf("leave: %v %v at %v", c.State(), c.Direction(), c.CurrentTime())
	}
	s.step(frame, 10)
	if c.State() != Finished || c.CurrentTime() != 0 {
		t.Errorf("after leave: %v at %v", c.State(), c.CurrentTime())
	}

	c.Dispatch(PointerEnter{})
	if c.State() != Playing || c.Direction() != Forward {
		t.Errorf("re-enter: %v %v", c.State(), c.Direction())
	}
}

func TestHoverWithoutReverseStops(t *testing.T) {
	c, s, _ := newController(t, trigger.Hover{})
	c.Dispatch(PointerLeave{})
	if c.State() != Idle {
		t.Errorf("leave before enter: %v", c.State())
	}
	c.Dispatch(PointerEnter{})
	s.step(frame, 3)
	c.Dispatch(PointerLeave{})
	if c.State() != Idle || c.CurrentTime() != 0 {
		t.Errorf("leave: %v at %v", c.State(), c.CurrentTime())
	}
}

func TestClickToggle(t *testing.T) {
	c, s, _ := newController(t, trigger.Click{Toggle: true})
	c.Dispatch(Click{})
	s.step(frame, 20)
	if c.State() != Finished || c.CurrentTime() != 1000 {
		t.Fatalf("first click: %v at %v", c.State(), c.CurrentTime())
	}
	c.Dispatch(Click{})
	if c.State() != Playing || c.Direction() != Backward || c.CurrentTime() != 1000 {
		t.Errorf("second click: %v %v at %v", c.State(), c.Direction(), c.CurrentTime())
	}
	s.step(frame, 20)
	if c.CurrentTime() != 0 {
		t.Errorf("after second click at %v", c.CurrentTime())
	}
}

func TestClickPlays(t *testing.T) {
	c, _, _ := newController(t, trigger.Click{})
	c.Dispatch(PointerEnter{})
	if c.State() != Idle {
		t.Errorf("pointer enter started a click trigger")
	}
	c.Dispatch(Click{})
	if c.State() != Playing {
		t.Errorf("state = %v", c.State())
	}
}

func TestLoopArm(t *testing.T) {
	c, _, _ := newController(t, trigger.Loop{})
	c.Dispatch(Click{})
	if c.State() != Idle {
		t.Errorf("click started a loop trigger")
	}
	c.Dispatch(Arm{})
	if c.State() != Playing {
		t.Errorf("state = %v", c.State())
	}
}

func TestScrollSeeks(t *testing.T) {
	c, _, r := newController(t, trigger.Scroll{Start: 0.2, End: 0.6})
	tests := []struct {
		value, want float64
	}{
		{0, 0},
		{0.2, 0},
		{0.4, 500},
		{0.6, 1000},
		{0.9, 1000},
	}
	for _, tt := range tests {
		c.Dispatch(ScrollProgress{Value: tt.value})
		if got := c.CurrentTime(); got < tt.want-1e-6 || got > tt.want+1e-6 {
			t.Errorf("scroll %v: cursor %v, want %v", tt.value, got, tt.want)
		}
	}
	if c.State() != Idle || r.count(EventSeek) != len(tests) {
		t.Errorf("state %v, seeks %d", c.State(), r.count(EventSeek))
	}
}

func TestAppear(t *testing.T) {
	c, _, _ := newController(t, trigger.Appear{Threshold: 0.5})
	c.Dispatch(Visibility{Ratio: 0.3})
	if c.State() != Idle {
		t.Fatalf("below threshold: %v", c.State())
	}
	c.Dispatch(Visibility{Ratio: 0.5})
	if c.State() != Playing {
		t.Fatalf("at threshold: %v", c.State())
	}
	c.Dispatch(Visibility{Ratio: 0.1})
	if c.State() != Idle {
		t.Errorf("exit: %v", c.State())
	}

	c, _, _ = newController(t, trigger.Appear{Threshold: 0.5, Once: true})
	c.Dispatch(Visibility{Ratio: 1})
	c.Dispatch(Visibility{Ratio: 0})
	if c.State() != Playing {
		t.Errorf("once exit: %v", c.State())
	}
}

func TestManualIgnoresSignals(t *testing.T) {
	for _, cfg := range []trigger.Config{trigger.Manual{}, nil} {
		c, _, r := newController(t, cfg)
		for _, s := range []Signal{PointerEnter{}, Click{}, Arm{}, ScrollProgress{Value: 1}, Visibility{Ratio: 1}} {
			c.Dispatch(s)
		}
		if c.State() != Idle || len(r.events) != 0 {
			t.Errorf("%v: state %v events %v", cfg, c.State(), r.types())
		}
	}
}

func TestScrollFraction(t *testing.T) {
	if got := scrollFraction(0.5, 0.5, 0.5); got != 1 {
		t.Errorf("degenerate range at start = %v", got)
	}
	if got := scrollFraction(0.4, 0.5, 0.5); got != 0 {
		t.Errorf("degenerate range before start = %v", got)
	}
}
