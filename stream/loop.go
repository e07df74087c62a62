package stream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matt-g-everett/motiontx/playback"
)

var (
	// ErrLoopStopped is returned by Post once Run has returned.
	ErrLoopStopped = errors.New("stream: frame loop stopped")
	// ErrLoopBusy is returned by Post when the action queue is full.
	ErrLoopBusy = errors.New("stream: frame loop busy")
)

// actionQueue is the number of posted actions waiting for the loop.
const actionQueue = 64

type frameRequest struct {
	handle playback.Handle
	fn     func(time.Duration)
}

type timerRequest struct {
	handle playback.Handle
	due    time.Duration
	fn     func()
}

// FrameLoop is a playback.Scheduler driven by a ticker. Frame callbacks,
// timers and posted actions all run on the goroutine that calls Run.
type FrameLoop struct {
	interval time.Duration
	next     playback.Handle
	now      time.Duration
	frames   []frameRequest
	timers   []timerRequest
	inflight []frameRequest
	expired  []timerRequest
	actions  chan func()
	done     chan struct{}
	stop     sync.Once
	onFrame  func(now time.Duration)
}

// NewFrameLoop creates a loop that ticks every interval. onFrame, if set,
// runs after each tick's frame callbacks.
func NewFrameLoop(interval time.Duration, onFrame func(now time.Duration)) *FrameLoop {
	l := new(FrameLoop)
	l.interval = interval
	l.actions = make(chan func(), actionQueue)
	l.done = make(chan struct{})
	l.onFrame = onFrame
	return l
}

// RequestFrame implements playback.Scheduler.
func (l *FrameLoop) RequestFrame(fn func(now time.Duration)) playback.Handle {
	l.next++
	l.frames = append(l.frames, frameRequest{handle: l.next, fn: fn})
	return l.next
}

// After implements playback.Scheduler.
func (l *FrameLoop) After(d time.Duration, fn func()) playback.Handle {
	l.next++
	l.timers = append(l.timers, timerRequest{handle: l.next, due: l.now + d, fn: fn})
	return l.next
}

// Cancel implements playback.Scheduler. Callbacks already taken for the
// current tick are skipped.
func (l *FrameLoop) Cancel(h playback.Handle) {
	for i := range l.inflight {
		if l.inflight[i].handle == h {
			l.inflight[i].fn = nil
			return
		}
	}
	for i := range l.expired {
		if l.expired[i].handle == h {
			l.expired[i].fn = nil
			return
		}
	}
	for i, f := range l.frames {
		if f.handle == h {
			l.frames = append(l.frames[:i:i], l.frames[i+1:]...)
			return
		}
	}
	for i, t := range l.timers {
		if t.handle == h {
			l.timers = append(l.timers[:i:i], l.timers[i+1:]...)
			return
		}
	}
}

// Post queues fn to run on the loop goroutine. It is safe to call from any
// goroutine and never blocks: fn is dropped when the loop has stopped or
// the queue is full.
func (l *FrameLoop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.actions <- fn:
		return nil
	default:
		return ErrLoopBusy
	}
}

// Run ticks until ctx is cancelled. Posting fails from then on.
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer l.stop.Do(func() { close(l.done) })

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			l.advance(t.Sub(start))
		case fn := <-l.actions:
			fn()
		}
	}
}

// advance fires due timers, then the frame callbacks requested before this
// tick.
func (l *FrameLoop) advance(now time.Duration) {
	l.now = now

	pending := l.timers[:0:0]
	for _, t := range l.timers {
		if t.due <= now {
			l.expired = append(l.expired, t)
		} else {
			pending = append(pending, t)
		}
	}
	l.timers = pending
	for i := range l.expired {
		if fn := l.expired[i].fn; fn != nil {
			l.expired[i].fn = nil
			fn()
		}
	}
	l.expired = l.expired[:0]

	l.inflight, l.frames = l.frames, nil
	for i := range l.inflight {
		if fn := l.inflight[i].fn; fn != nil {
			l.inflight[i].fn = nil
			fn(now)
		}
	}
	l.inflight = nil

	if l.onFrame != nil {
		l.onFrame(now)
	}
}
