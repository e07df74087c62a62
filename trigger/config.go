// Package trigger describes when a timeline should play and binds those
// rules to timelines.
package trigger

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownKind is returned for an unrecognized trigger type tag.
var ErrUnknownKind = errors.New("trigger: unknown kind")

// Kind tags a trigger variant.
type Kind int

const (
	KindHover Kind = iota
	KindClick
	KindLoop
	KindScroll
	KindAppear
	KindManual
)

var kindNames = [...]string{
	KindHover:  "hover",
	KindClick:  "click",
	KindLoop:   "loop",
	KindScroll: "scroll",
	KindAppear: "appear",
	KindManual: "manual",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind reads a trigger type tag such as "loop".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Config is one of Hover, Click, Loop, Scroll, Appear or Manual.
type Config interface {
	Kind() Kind
	validate() error
	clone() Config
}

// Hover plays while the pointer is over Target. With Reverse set, leaving
// plays the timeline backwards instead of stopping it.
type Hover struct {
	Target  string
	Reverse bool
}

// Click plays on click. With Toggle set, each click alternates direction.
type Click struct {
	Target string
	Toggle bool
}

// LoopDirection selects what happens when a loop iteration ends.
type LoopDirection int

const (
	LoopNormal    LoopDirection = iota // restart from the beginning
	LoopReverse                        // flip direction and restart from the far bound
	LoopAlternate                      // flip direction in place
)

var loopDirectionNames = [...]string{
	LoopNormal:    "normal",
	LoopReverse:   "reverse",
	LoopAlternate: "alternate",
}

func (d LoopDirection) String() string {
	if d < 0 || int(d) >= len(loopDirectionNames) {
		return fmt.Sprintf("LoopDirection(%d)", int(d))
	}
	return loopDirectionNames[d]
}

// ParseLoopDirection reads "normal", "reverse" or "alternate". An empty
// string is normal.
func ParseLoopDirection(s string) (LoopDirection, error) {
	if s == "" {
		return LoopNormal, nil
	}
	for d, name := range loopDirectionNames {
		if name == s {
			return LoopDirection(d), nil
		}
	}
	return 0, &ValidationError{Kind: KindLoop, Field: "direction", Value: s}
}

// Loop plays repeatedly. Iterations of +Inf loop forever and 0 plays once.
// Delay is the pause between iterations in milliseconds.
type Loop struct {
	Target     string
	Iterations float64
	Direction  LoopDirection
	Delay      float64
}

// Scroll maps the scroll progress between Start and End, both in [0,1],
// onto the timeline.
type Scroll struct {
	Target     string
	Start, End float64
}

// Appear plays once the visible ratio of Target reaches Threshold. With
// Once set, leaving the viewport afterwards is ignored.
type Appear struct {
	Target    string
	Threshold float64
	Once      bool
}

// Manual is only driven by explicit playback calls.
type Manual struct{}

func (Hover) Kind() Kind  { return KindHover }
func (Click) Kind() Kind  { return KindClick }
func (Loop) Kind() Kind   { return KindLoop }
func (Scroll) Kind() Kind { return KindScroll }
func (Appear) Kind() Kind { return KindAppear }
func (Manual) Kind() Kind { return KindManual }

func (c Hover) clone() Config  { return c }
func (c Click) clone() Config  { return c }
func (c Loop) clone() Config   { return c }
func (c Scroll) clone() Config { return c }
func (c Appear) clone() Config { return c }
func (c Manual) clone() Config { return c }

func (Hover) validate() error  { return nil }
func (Click) validate() error  { return nil }
func (Manual) validate() error { return nil }

func (c Loop) validate() error {
	switch {
	case c.Iterations < 0 || math.IsNaN(c.Iterations):
		return &ValidationError{Kind: KindLoop, Field: "iterations", Value: c.Iterations}
	case c.Delay < 0 || math.IsNaN(c.Delay) || math.IsInf(c.Delay, 1):
		return &ValidationError{Kind: KindLoop, Field: "delay", Value: c.Delay}
	case c.Direction < LoopNormal || c.Direction > LoopAlternate:
		return &ValidationError{Kind: KindLoop, Field: "direction", Value: c.Direction}
	}
	return nil
}

func (c Scroll) validate() error {
	if !unit(c.Start) {
		return &ValidationError{Kind: KindScroll, Field: "start", Value: c.Start}
	}
	if !unit(c.End) {
		return &ValidationError{Kind: KindScroll, Field: "end", Value: c.End}
	}
	return nil
}

func (c Appear) validate() error {
	if !unit(c.Threshold) {
		return &ValidationError{Kind: KindAppear, Field: "threshold", Value: c.Threshold}
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
