// Package playback drives a timeline's time cursor on a host frame
// scheduler and reports property updates and lifecycle events.
package playback

import "time"

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler is the host's frame and timer source. Callbacks must run on the
// same goroutine that drives the controller.
type Scheduler interface {
	// RequestFrame runs fn once on the next frame. now is the host's
	// monotonic frame time.
	RequestFrame(fn func(now time.Duration)) Handle
	// After runs fn once after d.
	After(d time.Duration, fn func()) Handle
	// Cancel drops a pending callback. Cancelling a handle that already
	// fired is a no-op.
	Cancel(h Handle)
}
