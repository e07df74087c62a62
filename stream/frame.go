package stream

import (
	"encoding/json"

	"github.com/matt-g-everett/motiontx/motion"
)

// Frame holds every actor state that changed during one tick.
type Frame struct {
	Tick   uint64                       `json:"tick"`
	Time   float64                      `json:"time"`
	Actors map[string]motion.ActorState `json:"actors"`
}

// NewFrame creates an empty Frame.
func NewFrame() *Frame {
	f := new(Frame)
	f.Actors = make(map[string]motion.ActorState)
	return f
}

// Empty reports whether no actor changed.
func (f *Frame) Empty() bool {
	return len(f.Actors) == 0
}

// MarshalBinary encodes the frame as JSON for publishing.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	return json.Marshal(f)
}
