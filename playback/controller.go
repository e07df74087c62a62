package playback

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/matt-g-everett/motiontx/motion"
	"github.com/matt-g-everett/motiontx/trigger"
)

var (
	// ErrZeroRate is returned by SetPlaybackRate for a rate of zero.
	ErrZeroRate = errors.New("playback: rate must be non-zero")
	// ErrInvalidRate is returned by SetPlaybackRate for NaN or infinite rates.
	ErrInvalidRate = errors.New("playback: rate must be finite")
	// ErrInvalidDuration is returned by SetTotalDuration for non-positive
	// or non-finite durations.
	ErrInvalidDuration = errors.New("playback: total duration must be positive")
)

// State is the controller's playback state.
type State int

const (
	Idle State = iota
	Playing
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Direction is the sign applied to elapsed time.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Options configure a controller.
type Options struct {
	// Motion is passed to every evaluation.
	Motion motion.Options
	// OnUpdate receives a fresh state whenever the cursor moves.
	OnUpdate func(motion.ActorState)
}

// Controller plays one timeline. It is not safe for concurrent use: every
// method and every scheduler callback must run on the same goroutine.
type Controller struct {
	tl      *motion.Timeline
	binding *trigger.Binding
	sched   Scheduler
	opts    Options

	state     State
	cursor    float64
	effective float64
	direction Direction
	rate      float64
	iteration int

	pending  Handle
	parked   bool
	last     time.Duration
	haveLast bool

	subs    []subscriber
	nextSub Subscription

	hovered  bool
	toggled  bool
	appeared bool
}

// New creates an idle controller for tl. A nil binding behaves like a
// manual trigger. A nil timeline yields a controller whose controls do
// nothing.
func New(tl *motion.Timeline, binding *trigger.Binding, sched Scheduler, opts Options) *Controller {
	c := new(Controller)
	c.tl = tl
	c.sched = sched
	c.opts = opts
	c.direction = Forward
	c.rate = 1
	if binding != nil {
		b := *binding
		c.binding = &b
	}
	if tl != nil {
		c.effective = tl.Duration()
		if c.opts.Motion.ActorID == "" {
			c.opts.Motion.ActorID = tl.ActorID()
		}
	}
	return c
}

func (c *Controller) active() bool {
	return c.tl != nil && c.sched != nil
}

// State returns the playback state.
func (c *Controller) State() State { return c.state }

// CurrentTime returns the cursor in milliseconds of effective duration.
func (c *Controller) CurrentTime() float64 { return c.cursor }

// TotalDuration returns the effective duration in milliseconds.
func (c *Controller) TotalDuration() float64 { return c.effective }

// Iteration returns the number of completed loop iterations.
func (c *Controller) Iteration() int { return c.iteration }

// Direction returns the current playback direction.
func (c *Controller) Direction() Direction { return c.direction }

// PlaybackRate returns the signed playback rate.
func (c *Controller) PlaybackRate() float64 { return c.rate * float64(c.direction) }

// Progress returns the cursor as a fraction of the effective duration.
func (c *Controller) Progress() float64 {
	if c.effective <= 0 {
		return 0
	}
	return c.cursor / c.effective
}

// Play starts or resumes playback in the forward direction.
func (c *Controller) Play() {
	if !c.active() {
		return
	}
	if c.state == Playing {
		c.direction = Forward
	}
	c.activate(Forward)
	c.emit(EventPlay)
}

// Pause halts playback at the current time.
func (c *Controller) Pause() {
	if !c.active() || (c.state != Playing && !c.parked) {
		return
	}
	c.cancelPending()
	c.state = Paused
	c.haveLast = false
	Logger().Debug("playback paused", "timeline", c.tl.ID(), "time", c.cursor)
	c.emit(EventPause)
}

// Stop halts playback and returns to the initial time, direction and
// iteration. It pushes one update for time zero.
func (c *Controller) Stop() {
	if !c.active() {
		return
	}
	c.cancelPending()
	c.state = Idle
	c.cursor = 0
	c.direction = Forward
	c.iteration = 0
	c.haveLast = false
	c.update()
	Logger().Debug("playback stopped", "timeline", c.tl.ID())
	c.emit(EventStop)
}

// Seek moves the cursor to ms, clamped to the effective duration, and
// pushes one update. The playback state does not change.
func (c *Controller) Seek(ms float64) {
	if !c.active() || math.IsNaN(ms) {
		return
	}
	c.cursor = math.Min(math.Max(ms, 0), c.effective)
	c.update()
	c.emit(EventSeek)
}

// Reverse flips the direction and starts playback if it is not running.
func (c *Controller) Reverse() {
	if !c.active() {
		return
	}
	c.direction = -c.direction
	c.emit(EventReverse)
	if c.state != Playing {
		c.activate(c.direction)
	}
}

// SetPlaybackRate sets the speed multiplier. A negative rate plays
// backwards.
func (c *Controller) SetPlaybackRate(r float64) error {
	if r == 0 {
		return ErrZeroRate
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, r)
	}
	if !c.active() {
		return nil
	}
	c.rate = math.Abs(r)
	c.direction = Forward
	if r < 0 {
		c.direction = Backward
	}
	return nil
}

// SetTotalDuration stretches the timeline to ms while keeping the current
// progress.
func (c *Controller) SetTotalDuration(ms float64) error {
	if !(ms > 0) || math.IsInf(ms, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, ms)
	}
	if !c.active() {
		return nil
	}
	progress := c.Progress()
	c.effective = ms
	c.cursor = progress * ms
	return nil
}

// Subscribe adds h to the event subscribers.
func (c *Controller) Subscribe(h Handler) Subscription {
	c.nextSub++
	c.subs = append(c.subs, subscriber{id: c.nextSub, fn: h})
	return c.nextSub
}

// Unsubscribe removes a subscriber. Unknown subscriptions are ignored.
func (c *Controller) Unsubscribe(s Subscription) {
	subs := make([]subscriber, 0, len(c.subs))
	for _, sub := range c.subs {
		if sub.id != s {
			subs = append(subs, sub)
		}
	}
	c.subs = subs
}

// Teardown cancels pending callbacks and detaches the controller. Every
// control is a no-op afterwards.
func (c *Controller) Teardown() {
	c.cancelPending()
	c.subs = nil
	c.opts.OnUpdate = nil
	c.tl = nil
	c.state = Idle
}

func (c *Controller) activate(dir Direction) {
	switch c.state {
	case Playing:
		return
	case Idle, Finished:
		if c.state == Finished {
			c.iteration = 0
		}
		c.direction = dir
		if c.state == Finished || c.atEnd() {
			c.cursor = c.startBound()
		}
		c.emit(EventStart)
	case Paused:
		c.direction = dir
	}
	c.cancelPending()
	c.state = Playing
	c.haveLast = false
	c.requestFrame()
	Logger().Debug("playback started", "timeline", c.tl.ID(), "time", c.cursor, "direction", int(c.direction))
}

func (c *Controller) startBound() float64 {
	if c.direction == Forward {
		return 0
	}
	return c.effective
}

// atEnd reports whether the cursor sits on the bound the current direction
// runs into.
func (c *Controller) atEnd() bool {
	if c.direction == Forward {
		return c.cursor >= c.effective && c.effective > 0
	}
	return c.cursor <= 0
}

func (c *Controller) requestFrame() {
	c.pending = c.sched.RequestFrame(c.tick)
}

func (c *Controller) cancelPending() {
	if c.pending != 0 {
		c.sched.Cancel(c.pending)
		c.pending = 0
	}
	c.parked = false
}

func (c *Controller) tick(now time.Duration) {
	c.pending = 0
	if c.tl == nil || c.state != Playing {
		return
	}

	var elapsed float64
	if c.haveLast {
		elapsed = float64(now-c.last) / float64(time.Millisecond)
	}
	c.last, c.haveLast = now, true

	c.cursor += float64(c.direction) * c.rate * elapsed
	hit := false
	if c.cursor >= c.effective && c.direction == Forward {
		c.cursor, hit = c.effective, true
	} else if c.cursor <= 0 && c.direction == Backward {
		c.cursor, hit = 0, true
	}

	c.update()
	c.emit(EventFrame)
	if c.interrupted() {
		return
	}
	if hit {
		c.boundary()
		return
	}
	c.requestFrame()
}

// boundary runs when the cursor reaches either end of the timeline.
func (c *Controller) boundary() {
	c.iteration++
	budget := 1.0
	if c.binding != nil {
		budget = c.binding.Iterations()
	}
	if float64(c.iteration) >= budget {
		c.state = Finished
		c.haveLast = false
		Logger().Debug("playback complete", "timeline", c.tl.ID(), "iterations", c.iteration)
		c.emit(EventComplete)
		return
	}

	c.emit(EventRepeat)
	if c.interrupted() {
		return
	}
	var loop trigger.Loop
	if c.binding != nil {
		loop, _ = c.binding.Config().(trigger.Loop)
	}
	switch loop.Direction {
	case trigger.LoopNormal:
		c.cursor = c.startBound()
	case trigger.LoopReverse:
		c.direction = -c.direction
		c.cursor = c.startBound()
	case trigger.LoopAlternate:
		c.direction = -c.direction
	}

	if loop.Delay > 0 {
		c.state = Paused
		c.haveLast = false
		c.parked = true
		delay := time.Duration(loop.Delay * float64(time.Millisecond))
		c.pending = c.sched.After(delay, c.resume)
		return
	}
	c.requestFrame()
}

// interrupted reports whether a subscriber took control during a tick,
// either leaving the playing state or scheduling the next frame itself.
func (c *Controller) interrupted() bool {
	return c.tl == nil || c.state != Playing || c.pending != 0
}

// resume ends a loop delay.
func (c *Controller) resume() {
	c.pending = 0
	if c.tl == nil || c.state != Paused || !c.parked {
		return
	}
	c.parked = false
	c.state = Playing
	c.haveLast = false
	c.requestFrame()
}

func (c *Controller) timelineTime() float64 {
	if c.effective <= 0 {
		return 0
	}
	return c.cursor * c.tl.Duration() / c.effective
}

func (c *Controller) update() {
	if c.opts.OnUpdate == nil {
		return
	}
	c.opts.OnUpdate(motion.Evaluate(c.tl, c.timelineTime(), c.opts.Motion))
}

func (c *Controller) emit(t EventType) {
	if len(c.subs) == 0 {
		return
	}
	e := Event{
		Type:         t,
		CurrentTime:  c.cursor,
		Progress:     c.Progress(),
		PlaybackRate: c.PlaybackRate(),
		Iteration:    c.iteration,
	}
	for _, sub := range c.subs {
		sub.fn(e)
	}
}
