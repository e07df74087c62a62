package playback

// EventType names a controller transition.
type EventType string

const (
	EventStart    EventType = "start"
	EventPlay     EventType = "play"
	EventPause    EventType = "pause"
	EventStop     EventType = "stop"
	EventSeek     EventType = "seek"
	EventReverse  EventType = "reverse"
	EventFrame    EventType = "frame"
	EventComplete EventType = "complete"
	EventRepeat   EventType = "repeat"
)

// Event is delivered to subscribers on every observable transition.
// CurrentTime is in milliseconds of effective duration.
type Event struct {
	Type         EventType `json:"type"`
	CurrentTime  float64   `json:"currentTime"`
	Progress     float64   `json:"progress"`
	PlaybackRate float64   `json:"playbackRate"`
	Iteration    int       `json:"iteration"`
}

// Handler receives controller events.
type Handler func(Event)

// Subscription identifies a subscribed handler.
type Subscription uint64

type subscriber struct {
	id Subscription
	fn Handler
}
