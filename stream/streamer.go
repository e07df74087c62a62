package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/motiontx/bundle"
	"github.com/matt-g-everett/motiontx/motion"
	"github.com/matt-g-everett/motiontx/playback"
	"github.com/matt-g-everett/motiontx/trigger"
)

// Sink receives each coalesced frame.
type Sink interface {
	Send(f *Frame) error
}

type mqttSink struct {
	client mqtt.Client
	topic  string
}

// NewMQTTSink publishes frames to topic.
func NewMQTTSink(client mqtt.Client, topic string) Sink {
	return &mqttSink{client: client, topic: topic}
}

func (s *mqttSink) Send(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, 0, false, b)
	token.Wait()
	return token.Error()
}

// ControlMessage drives the controllers of one timeline. Value carries the
// seek time, rate, duration, scroll progress or visibility ratio.
type ControlMessage struct {
	Timeline int     `json:"timeline"`
	Action   string  `json:"action"`
	Value    float64 `json:"value"`
	Signal   string  `json:"signal"`
}

var actions = map[string]bool{
	"play": true, "pause": true, "stop": true, "reverse": true,
	"seek": true, "rate": true, "duration": true, "signal": true,
}

// Streamer plays every timeline of a bundle and streams the resulting
// actor states, one frame per tick.
type Streamer struct {
	config     Config
	bundle     *bundle.Bundle
	sink       Sink
	loop       *FrameLoop
	all        []*playback.Controller
	byTimeline map[int][]*playback.Controller
	frame      *Frame
	tick       uint64
}

// NewStreamer creates a controller for every trigger in b and a manual
// controller for each timeline without one.
func NewStreamer(config Config, b *bundle.Bundle, sink Sink) *Streamer {
	s := new(Streamer)
	s.config = config
	s.bundle = b
	s.sink = sink
	s.frame = NewFrame()
	s.loop = NewFrameLoop(config.FrameInterval(), s.flush)
	s.byTimeline = make(map[int][]*playback.Controller)

	for _, t := range b.Triggers {
		binding := t.Binding
		s.add(t.TimelineIndex, &binding)
	}
	for i := range b.Timelines {
		if len(s.byTimeline[i]) == 0 {
			s.add(i, nil)
		}
	}
	return s
}

func (s *Streamer) add(i int, binding *trigger.Binding) {
	tl := s.bundle.Timelines[i]
	actorID := tl.ActorID()
	c := playback.New(tl, binding, s.loop, playback.Options{
		Motion: s.bundle.MotionOptions(),
		OnUpdate: func(state motion.ActorState) {
			s.frame.Actors[actorID] = state
		},
	})
	s.all = append(s.all, c)
	s.byTimeline[i] = append(s.byTimeline[i], c)
}

// Controllers returns the controllers playing timeline i.
func (s *Streamer) Controllers(i int) []*playback.Controller {
	return s.byTimeline[i]
}

// Subscribe listens for control messages. Call it from the MQTT connect
// handler so the subscription survives reconnects.
func (s *Streamer) Subscribe(client mqtt.Client) error {
	token := client.Subscribe(s.config.Mqtt.Topics.Control, 0, s.handleControl)
	token.Wait()
	return token.Error()
}

func (s *Streamer) handleControl(_ mqtt.Client, msg mqtt.Message) {
	if err := s.Control(msg.Payload()); err != nil {
		slog.Warn("rejected control message", "topic", msg.Topic(), "err", err)
	}
}

// Control decodes a control message and queues it onto the frame loop.
func (s *Streamer) Control(payload []byte) error {
	var m ControlMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return fmt.Errorf("stream: bad control message: %w", err)
	}
	m.Action = strings.ToLower(m.Action)
	if !actions[m.Action] {
		return fmt.Errorf("stream: unknown action %q", m.Action)
	}
	if _, ok := s.byTimeline[m.Timeline]; !ok {
		return fmt.Errorf("stream: no timeline %d", m.Timeline)
	}
	var sig playback.Signal
	if m.Action == "signal" {
		var err error
		if sig, err = ParseSignal(m.Signal, m.Value); err != nil {
			return err
		}
	}
	if err := s.loop.Post(func() { s.apply(m, sig) }); err != nil {
		return fmt.Errorf("stream: control for timeline %d dropped: %w", m.Timeline, err)
	}
	return nil
}

func (s *Streamer) apply(m ControlMessage, sig playback.Signal) {
	slog.Debug("control", "timeline", m.Timeline, "action", m.Action, "value", m.Value)
	for _, c := range s.byTimeline[m.Timeline] {
		var err error
		switch m.Action {
		case "play":
			c.Play()
		case "pause":
			c.Pause()
		case "stop":
			c.Stop()
		case "reverse":
			c.Reverse()
		case "seek":
			c.Seek(m.Value)
		case "rate":
			err = c.SetPlaybackRate(m.Value)
		case "duration":
			err = c.SetTotalDuration(m.Value)
		case "signal":
			c.Dispatch(sig)
		}
		if err != nil {
			slog.Warn("control failed", "timeline", m.Timeline, "action", m.Action, "err", err)
		}
	}
}

// ParseSignal reads a signal name such as "pointerenter" or "scroll".
// value is the scroll progress or visibility ratio.
func ParseSignal(name string, value float64) (playback.Signal, error) {
	switch strings.ToLower(name) {
	case "pointerenter", "enter":
		return playback.PointerEnter{}, nil
	case "pointerleave", "leave":
		return playback.PointerLeave{}, nil
	case "click":
		return playback.Click{}, nil
	case "scroll":
		return playback.ScrollProgress{Value: value}, nil
	case "visibility", "appear":
		return playback.Visibility{Ratio: value}, nil
	case "arm":
		return playback.Arm{}, nil
	}
	return nil, fmt.Errorf("stream: unknown signal %q", name)
}

// arm shows every actor at time zero and starts autoplaying triggers.
func (s *Streamer) arm() {
	for _, c := range s.all {
		c.Seek(0)
		c.Dispatch(playback.Arm{})
	}
}

// flush publishes the states collected during one tick.
func (s *Streamer) flush(now time.Duration) {
	if s.frame.Empty() {
		return
	}
	s.tick++
	s.frame.Tick = s.tick
	s.frame.Time = float64(now) / float64(time.Millisecond)
	if err := s.sink.Send(s.frame); err != nil {
		slog.Warn("frame not sent", "tick", s.tick, "err", err)
	}
	s.frame = NewFrame()
}

// Run plays until ctx is cancelled, then tears the controllers down.
func (s *Streamer) Run(ctx context.Context) error {
	slog.Info("streaming", "timelines", len(s.bundle.Timelines), "controllers", len(s.all), "interval", s.loop.interval)
	if err := s.loop.Post(s.arm); err != nil {
		return err
	}
	err := s.loop.Run(ctx)
	for _, c := range s.all {
		c.Teardown()
	}
	return err
}
