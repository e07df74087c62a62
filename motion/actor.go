package motion

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTimeline is returned when a timeline is built without keyframes.
	ErrEmptyTimeline = errors.New("motion: timeline needs at least one keyframe")
	// ErrNoOutlines is returned when an actor is created without outlines.
	ErrNoOutlines = errors.New("motion: actor needs at least one outline")
)

// Actor is an independently animated element. Its transform fields are the
// defaults a timeline starts from.
type Actor struct {
	ID       string
	Position Point
	Scale    Scale
	Rotation float64
	Opacity  float64
	Outlines []string
}

// NewActor creates an actor at the origin with unit scale and full opacity.
func NewActor(id string, outlines []string) (Actor, error) {
	if len(outlines) == 0 {
		return Actor{}, fmt.Errorf("%w: %q", ErrNoOutlines, id)
	}
	a := DefaultActor(id)
	a.Outlines = append([]string(nil), outlines...)
	return a, nil
}

// DefaultActor returns the identity actor with no outlines.
func DefaultActor(id string) Actor {
	return Actor{ID: id, Scale: UniformScale(1), Opacity: 1}
}
