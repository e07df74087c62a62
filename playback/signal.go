package playback

import (
	"math"

	"github.com/matt-g-everett/motiontx/trigger"
)

// Signal is a host input that may activate the bound trigger: one of
// PointerEnter, PointerLeave, Click, ScrollProgress, Visibility or Arm.
type Signal interface {
	isSignal()
}

type (
	// PointerEnter reports the pointer entering the trigger target.
	PointerEnter struct{}
	// PointerLeave reports the pointer leaving the trigger target.
	PointerLeave struct{}
	// Click reports a click on the trigger target.
	Click struct{}
	// ScrollProgress reports the page scroll position in [0,1].
	ScrollProgress struct{ Value float64 }
	// Visibility reports the visible ratio of the trigger target.
	Visibility struct{ Ratio float64 }
	// Arm is sent once when the host is ready; loop triggers start on it.
	Arm struct{}
)

func (PointerEnter) isSignal()   {}
func (PointerLeave) isSignal()   {}
func (Click) isSignal()          {}
func (ScrollProgress) isSignal() {}
func (Visibility) isSignal()     {}
func (Arm) isSignal()            {}

// Dispatch applies s according to the bound trigger. Signals that do not
// concern the trigger are ignored, as are all signals for manual triggers.
func (c *Controller) Dispatch(s Signal) {
	if !c.active() || c.binding == nil {
		return
	}

	switch cfg := c.binding.Config().(type) {
	case trigger.Hover:
		switch s.(type) {
		case PointerEnter:
			c.hovered = true
			c.playToward(Forward)
		case PointerLeave:
			if !c.hovered {
				return
			}
			c.hovered = false
			if cfg.Reverse {
				c.playToward(Backward)
			} else {
				c.Stop()
			}
		}

	case trigger.Click:
		if _, ok := s.(Click); !ok {
			return
		}
		if !cfg.Toggle {
			c.Play()
			return
		}
		c.toggled = !c.toggled
		if c.toggled {
			c.playToward(Forward)
		} else {
			c.playToward(Backward)
		}

	case trigger.Loop:
		if _, ok := s.(Arm); ok && c.state == Idle {
			c.Play()
		}

	case trigger.Scroll:
		sp, ok := s.(ScrollProgress)
		if !ok {
			return
		}
		c.Seek(scrollFraction(sp.Value, cfg.Start, cfg.End) * c.effective)

	case trigger.Appear:
		v, ok := s.(Visibility)
		if !ok {
			return
		}
		if v.Ratio >= cfg.Threshold {
			if !c.appeared {
				c.appeared = true
				c.Play()
			}
		} else if c.appeared && !cfg.Once {
			c.appeared = false
			c.Stop()
		}

	case trigger.Manual:
	}
}

// playToward plays in dir, turning around a running playback if needed.
func (c *Controller) playToward(dir Direction) {
	if c.direction != dir {
		c.Reverse()
		return
	}
	if c.state == Playing {
		return
	}
	c.activate(dir)
	c.emit(EventPlay)
}

// scrollFraction maps v in [start,end] onto [0,1].
func scrollFraction(v, start, end float64) float64 {
	if end == start {
		if v >= start {
			return 1
		}
		return 0
	}
	return math.Min(math.Max((v-start)/(end-start), 0), 1)
}
