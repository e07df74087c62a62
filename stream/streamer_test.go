package stream

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matt-g-everett/motiontx/bundle"
	"github.com/matt-g-everett/motiontx/playback"
)

type captureSink struct {
	frames []Frame
}

func (c *captureSink) Send(f *Frame) error {
	c.frames = append(c.frames, *f)
	return nil
}

const doc = `
actors:
  - {id: box, outlines: ["M0 0 L10 0 L10 10 Z"]}
  - {id: dot, outlines: ["M0 0 L1 1"]}
timelines:
  - actorId: box
    keyframes: [{at: 0, opacity: 1}, {at: 1000, opacity: 0}]
  - actorId: dot
    keyframes: [{at: 0, rotation: 0}, {at: 500, rotation: 90}]
triggers:
  - {timelineIndex: 0, type: loop, iterations: 2}
`

func newTestStreamer(t *testing.T) (*Streamer, *captureSink) {
	t.Helper()
	b, err := bundle.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	var cfg Config
	cfg.FrameRate = 10
	sink := new(captureSink)
	return NewStreamer(cfg, b, sink), sink
}

// drain runs queued actions the way Run would.
func drain(l *FrameLoop) {
	for {
		select {
		case fn := <-l.actions:
			fn()
		default:
			return
		}
	}
}

func TestStreamerCoalescesFrames(t *testing.T) {
	s, sink := newTestStreamer(t)
	if len(s.all) != 2 || len(s.Controllers(1)) != 1 {
		t.Fatalf("controllers = %d", len(s.all))
	}

	s.arm()
	if s.Controllers(0)[0].State() != playback.Playing || s.Controllers(1)[0].State() != playback.Idle {
		t.Fatalf("armed states = %v, %v", s.Controllers(0)[0].State(), s.Controllers(1)[0].State())
	}

	s.loop.advance(0)
	if len(sink.frames) != 1 {
		t.Fatalf("frames = %d", len(sink.frames))
	}
	first := sink.frames[0]
	if first.Tick != 1 || len(first.Actors) != 2 {
		t.Errorf("first frame = %+v", first)
	}

	s.loop.advance(500 * time.Millisecond)
	f := sink.frames[len(sink.frames)-1]
	if _, ok := f.Actors["dot"]; ok || len(f.Actors) != 1 {
		t.Errorf("idle actor was published: %+v", f.Actors)
	}
	if got := f.Actors["box"].Opacity; got < 0.49 || got > 0.51 {
		t.Errorf("box opacity = %v", got)
	}

	for i := 2; i <= 40; i++ {
		s.loop.advance(time.Duration(i) * 500 * time.Millisecond)
	}
	if s.Controllers(0)[0].State() != playback.Finished {
		t.Errorf("loop state = %v", s.Controllers(0)[0].State())
	}
	n := len(sink.frames)
	s.loop.advance(time.Hour)
	if len(sink.frames) != n {
		t.Error("published a frame with no changes")
	}
}

func TestStreamerControl(t *testing.T) {
	s, sink := newTestStreamer(t)
	c := s.Controllers(1)[0]

	if err := s.Control([]byte(`{"timeline":1,"action":"seek","value":250}`)); err != nil {
		t.Fatal(err)
	}
	if c.CurrentTime() != 0 {
		t.Error("control applied off the loop")
	}
	drain(s.loop)
	if c.CurrentTime() != 250 {
		t.Errorf("cursor = %v", c.CurrentTime())
	}
	s.loop.advance(0)
	if got := sink.frames[0].Actors["dot"].Rotation; got != 45 {
		t.Errorf("rotation = %v", got)
	}

	for _, msg := range []string{
		`{"timeline":1,"action":"play"}`,
		`{"timeline":1,"action":"rate","value":-2}`,
		`{"timeline":0,"action":"signal","signal":"click"}`,
	} {
		if err := s.Control([]byte(msg)); err != nil {
			t.Errorf("%s: %v", msg, err)
		}
	}
	drain(s.loop)
	if c.State() != playback.Playing || c.PlaybackRate() != -2 {
		t.Errorf("state = %v rate = %v", c.State(), c.PlaybackRate())
	}
}

func TestStreamerRejectsControl(t *testing.T) {
	s, _ := newTestStreamer(t)
	for _, msg := range []string{
		`not json`,
		`{"timeline":0,"action":"explode"}`,
		`{"timeline":7,"action":"play"}`,
		`{"timeline":0,"action":"signal","signal":"wave"}`,
	} {
		if err := s.Control([]byte(msg)); err == nil {
			t.Errorf("%s: expected error", msg)
		}
	}
	if len(s.loop.actions) != 0 {
		t.Error("rejected message was queued")
	}
}

func TestPostNeverBlocks(t *testing.T) {
	l := NewFrameLoop(time.Millisecond, nil)
	for i := 0; i < actionQueue; i++ {
		if err := l.Post(func() {}); err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
	}
	if err := l.Post(func() {}); !errors.Is(err, ErrLoopBusy) {
		t.Errorf("full queue err = %v", err)
	}
	drain(l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run err = %v", err)
	}
	if err := l.Post(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("stopped loop err = %v", err)
	}
}

func TestControlAfterStopIsDropped(t *testing.T) {
	s, _ := newTestStreamer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)
	err := s.Control([]byte(`{"timeline":0,"action":"play"}`))
	if !errors.Is(err, ErrLoopStopped) {
		t.Errorf("err = %v", err)
	}
}

func TestFrameLoopTimersAndCancel(t *testing.T) {
	l := NewFrameLoop(time.Millisecond, nil)
	var fired []string
	l.After(100*time.Millisecond, func() { fired = append(fired, "timer") })
	h := l.RequestFrame(func(time.Duration) { fired = append(fired, "cancelled") })
	l.RequestFrame(func(now time.Duration) {
		fired = append(fired, "frame")
		l.RequestFrame(func(time.Duration) { fired = append(fired, "next") })
	})
	l.Cancel(h)

	l.advance(50 * time.Millisecond)
	if strings.Join(fired, ",") != "frame" {
		t.Errorf("first tick fired %v", fired)
	}
	l.advance(100 * time.Millisecond)
	if strings.Join(fired, ",") != "frame,timer,next" {
		t.Errorf("second tick fired %v", fired)
	}
}

func TestFrameLoopCancelDuringTick(t *testing.T) {
	l := NewFrameLoop(time.Millisecond, nil)
	var second playback.Handle
	ran := false
	l.RequestFrame(func(time.Duration) { l.Cancel(second) })
	second = l.RequestFrame(func(time.Duration) { ran = true })
	l.advance(time.Millisecond)
	if ran {
		t.Error("callback cancelled during the tick still ran")
	}
}

func TestFrameJSON(t *testing.T) {
	s, sink := newTestStreamer(t)
	s.arm()
	s.loop.advance(0)
	b, err := sink.frames[0].MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Tick   uint64                    `json:"tick"`
		Actors map[string]map[string]any `json:"actors"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.Tick != 1 || out.Actors["box"]["scale"] != 1.0 || out.Actors["box"]["opacity"] != 1.0 {
		t.Errorf("frame json = %s", b)
	}
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "mqtt:\n  url: tcp://broker:1883\n  topics:\n    stream: led/frames\nframeRate: 60\nlogLevel: debug\nbundle: scene.yaml\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := ReadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Mqtt.URL != "tcp://broker:1883" || c.Mqtt.Topics.Stream != "led/frames" || c.Mqtt.Topics.Control != "motiontx/control" {
		t.Errorf("mqtt = %+v", c.Mqtt)
	}
	if c.Mqtt.ClientID != "motiontx" || c.Bundle != "scene.yaml" || c.Level().String() != "DEBUG" {
		t.Errorf("config = %+v", c)
	}
	if got := c.FrameInterval(); got < 16*time.Millisecond || got > 17*time.Millisecond {
		t.Errorf("interval = %v", got)
	}
}
