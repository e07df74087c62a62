package trigger

import (
	"errors"
	"fmt"
	"math"

	"github.com/matt-g-everett/motiontx/motion"
)

// ErrInvalidConfig matches every *ValidationError.
var ErrInvalidConfig = errors.New("trigger: invalid config")

// ValidationError reports a trigger parameter that is out of range.
type ValidationError struct {
	Kind  Kind
	Field string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trigger: invalid %s %s: %v", e.Kind, e.Field, e.Value)
}

// Is lets errors.Is(err, ErrInvalidConfig) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Binding attaches a validated trigger config to a timeline. It holds its
// own copy of the config.
type Binding struct {
	timelineID string
	config     Config
}

// Bind validates cfg and binds it to tl. Out-of-range values are rejected,
// never clamped.
func Bind(tl *motion.Timeline, cfg Config) (Binding, error) {
	if tl == nil {
		return Binding{}, fmt.Errorf("%w: no timeline", ErrInvalidConfig)
	}
	if cfg == nil {
		return Binding{}, fmt.Errorf("%w: no config", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return Binding{}, err
	}
	return Binding{timelineID: tl.ID(), config: cfg.clone()}, nil
}

// TimelineID returns the bound timeline's identifier.
func (b Binding) TimelineID() string { return b.timelineID }

// Kind returns the bound trigger's kind.
func (b Binding) Kind() Kind {
	if b.config == nil {
		return KindManual
	}
	return b.config.Kind()
}

// Config returns a copy of the bound config.
func (b Binding) Config() Config {
	if b.config == nil {
		return Manual{}
	}
	return b.config.clone()
}

// Iterations returns how many times the timeline plays before finishing:
// the loop count for loop triggers and 1 otherwise. A loop always plays at
// least once.
func (b Binding) Iterations() float64 {
	l, ok := b.config.(Loop)
	if !ok {
		return 1
	}
	return math.Max(l.Iterations, 1)
}
